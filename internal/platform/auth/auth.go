package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lattice-ci/lattice-go/internal/platform/env"
)

type Mode string

const (
	ModeOIDC     Mode = "oidc"
	ModeDev      Mode = "dev"
	ModeDisabled Mode = "disabled"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Config struct {
	Mode Mode

	RolesClaim string
	EmailClaim string

	OIDCIssuerURL string
	OIDCClientID  string

	DevSubject string
	DevEmail   string
	DevRoles   []string
}

func ConfigFromEnv() (Config, error) {
	modeRaw := strings.ToLower(strings.TrimSpace(env.String("LATTICE_AUTH_MODE", string(ModeDisabled))))
	var mode Mode
	switch modeRaw {
	case string(ModeOIDC):
		mode = ModeOIDC
	case string(ModeDev):
		mode = ModeDev
	case string(ModeDisabled):
		mode = ModeDisabled
	default:
		return Config{}, fmt.Errorf("LATTICE_AUTH_MODE must be one of: oidc, dev, disabled (got %q)", modeRaw)
	}

	cfg := Config{
		Mode:          mode,
		RolesClaim:    env.String("LATTICE_AUTH_ROLES_CLAIM", "roles"),
		EmailClaim:    env.String("LATTICE_AUTH_EMAIL_CLAIM", "email"),
		OIDCIssuerURL: env.String("LATTICE_OIDC_ISSUER_URL", ""),
		OIDCClientID:  env.String("LATTICE_OIDC_CLIENT_ID", ""),
		DevSubject:    env.String("LATTICE_DEV_AUTH_SUBJECT", "dev-user"),
		DevEmail:      env.String("LATTICE_DEV_AUTH_EMAIL", "dev-user@example.local"),
		DevRoles:      env.Strings("LATTICE_DEV_AUTH_ROLES", []string{RoleAdmin}),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(string(c.Mode)) == "" {
		return errors.New("LATTICE_AUTH_MODE is required")
	}
	switch c.Mode {
	case ModeOIDC:
		if strings.TrimSpace(c.OIDCIssuerURL) == "" {
			return errors.New("LATTICE_OIDC_ISSUER_URL is required when LATTICE_AUTH_MODE=oidc")
		}
		if strings.TrimSpace(c.OIDCClientID) == "" {
			return errors.New("LATTICE_OIDC_CLIENT_ID is required when LATTICE_AUTH_MODE=oidc")
		}
		if strings.TrimSpace(c.RolesClaim) == "" {
			return errors.New("LATTICE_AUTH_ROLES_CLAIM is required when LATTICE_AUTH_MODE=oidc")
		}
	case ModeDev:
		if strings.TrimSpace(c.DevSubject) == "" {
			return errors.New("LATTICE_DEV_AUTH_SUBJECT is required when LATTICE_AUTH_MODE=dev")
		}
		if len(c.DevRoles) == 0 {
			return errors.New("LATTICE_DEV_AUTH_ROLES must be non-empty when LATTICE_AUTH_MODE=dev")
		}
	case ModeDisabled:
	default:
		return fmt.Errorf("unsupported auth mode: %q", c.Mode)
	}
	return nil
}

type Identity struct {
	Subject string
	Email   string
	Roles   []string
}

type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (Identity, error)
}

type ctxKeyIdentity struct{}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return v, ok
}

// NewAuthenticator builds the authenticator for the configured mode, or nil
// when auth is disabled.
func NewAuthenticator(ctx context.Context, cfg Config) (Authenticator, error) {
	switch cfg.Mode {
	case ModeOIDC:
		return NewOIDCAuthenticator(ctx, cfg)
	case ModeDev:
		return NewDevAuthenticator(cfg), nil
	case ModeDisabled:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}
