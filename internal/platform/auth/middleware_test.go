package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testAuthenticator struct {
	identity Identity
	err      error
	calls    int
}

func (a *testAuthenticator) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	a.calls++
	return a.identity, a.err
}

func TestMiddleware_Unauthorized(t *testing.T) {
	authn := &testAuthenticator{err: ErrUnauthenticated}
	called := false
	h := Middleware{
		Authenticator: authn,
	}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/expansions", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Fatalf("handler should not be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Fatalf("error=%v, want unauthorized", body["error"])
	}
	if body["request_id"] != "rid-1" {
		t.Fatalf("request_id=%v, want rid-1", body["request_id"])
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	authn := &testAuthenticator{err: errors.New("bad token")}
	h := Middleware{
		Authenticator: authn,
	}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/expansions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rec.Code)
	}
}

func TestMiddleware_Forbidden(t *testing.T) {
	authn := &testAuthenticator{identity: Identity{Subject: "alice", Roles: []string{"viewer"}}}
	h := Middleware{
		Authenticator: authn,
		Authorize:     MethodRoleAuthorizer(),
	}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "http://example.test/expansions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", rec.Code)
	}
}

func TestMiddleware_OperatorCanCreate(t *testing.T) {
	authn := &testAuthenticator{identity: Identity{Subject: "bob", Roles: []string{"operator"}}}
	var got Identity
	h := Middleware{
		Authenticator: authn,
		Authorize:     MethodRoleAuthorizer(),
	}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "http://example.test/expansions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201", rec.Code)
	}
	if got.Subject != "bob" {
		t.Fatalf("identity subject=%q, want bob", got.Subject)
	}
}

func TestMiddleware_SkipPrefix(t *testing.T) {
	authn := &testAuthenticator{err: ErrUnauthenticated}
	called := false
	h := Middleware{
		Authenticator: authn,
		SkipPrefixes:  []string{"/healthz"},
	}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("handler should be called")
	}
	if authn.calls != 0 {
		t.Fatalf("authenticator calls=%d, want 0", authn.calls)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}

func TestMiddleware_NilAuthenticatorPassesThrough(t *testing.T) {
	called := false
	h := Middleware{}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "http://example.test/expansions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("handler should be called")
	}
}

func TestHasAtLeast(t *testing.T) {
	if !HasAtLeast([]string{"admin"}, RoleOperator) {
		t.Fatalf("admin should satisfy operator")
	}
	if HasAtLeast([]string{"viewer"}, RoleOperator) {
		t.Fatalf("viewer should not satisfy operator")
	}
	if HasAtLeast(nil, RoleViewer) {
		t.Fatalf("no roles should not satisfy viewer")
	}
	if HasAtLeast([]string{"admin"}, "owner") {
		t.Fatalf("unknown required role should never be satisfied")
	}
}
