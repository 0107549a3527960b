package objectstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lattice-ci/lattice-go/internal/platform/env"
)

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	UseSSL        bool
	BucketGoldens string
}

func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("LATTICE_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:      env.String("LATTICE_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:     env.String("LATTICE_MINIO_ACCESS_KEY", "lattice"),
		SecretKey:     env.String("LATTICE_MINIO_SECRET_KEY", "latticeminio"),
		Region:        env.String("LATTICE_MINIO_REGION", "us-east-1"),
		UseSSL:        useSSL,
		BucketGoldens: env.String("LATTICE_MINIO_BUCKET_GOLDENS", "goldens"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.BucketGoldens) == "" {
		return errors.New("goldens bucket is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}
