package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeAllowlist struct {
	allowed map[string]bool
}

func (f fakeAllowlist) IsAllowed(emails []string) bool {
	for _, e := range emails {
		if f.allowed[e] {
			return true
		}
	}
	return false
}

func TestRequireSessionMissingCookieRedirects(t *testing.T) {
	svc := NewJWTService("secret")
	handler := RequireSession(svc, fakeAllowlist{allowed: map[string]bool{}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/metadata", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/github" {
		t.Errorf("Location = %q, want %q", loc, "/auth/github")
	}
}

func TestRequireSessionNotAllowlistedForbidden(t *testing.T) {
	svc := NewJWTService("secret")
	token, _ := svc.IssueSession("eve@example.com", []string{"eve@example.com"})

	handler := RequireSession(svc, fakeAllowlist{allowed: map[string]bool{"alice@example.com": true}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/metadata", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireSessionValidCookiePasses(t *testing.T) {
	svc := NewJWTService("secret")
	token, _ := svc.IssueSession("alice@example.com", []string{"alice@example.com"})

	var sawClaims bool
	handler := RequireSession(svc, fakeAllowlist{allowed: map[string]bool{"alice@example.com": true}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok && claims.PrimaryEmail == "alice@example.com" {
			sawClaims = true
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/metadata", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !sawClaims {
		t.Error("handler did not observe session claims in context")
	}
}
