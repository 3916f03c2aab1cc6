package auth

import (
	"errors"
	"testing"
	"time"

	"itembuildup/internal/config"
	"itembuildup/internal/users"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		Issuer:          "issuer",
		Audience:        "aud",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(testAuthConfig())
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

var sampleClaims = UserClaims{
	EmployeeID:  "E001",
	FirstName:   "Ana",
	LastName:    "Reyes",
	JobTitle:    "Analyst",
	Department:  "Finance",
	AccountType: users.AccountEmployee,
	Email:       "ana@example.com",
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.IssueAccessToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := m.VerifyAccessToken(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != sampleClaims {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestVerifyAccessToken_ExpiryBoundary(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.IssueAccessToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.VerifyAccessToken(tok, now.Add(15*time.Minute-time.Second)); err != nil {
		t.Fatalf("expected token valid one second before expiry, got %v", err)
	}
	if _, err := m.VerifyAccessToken(tok, now.Add(15*time.Minute)); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid exactly at expiry, got %v", err)
	}
}

func TestVerifyAccessToken_RejectsWrongSecret(t *testing.T) {
	m := newTestManager(t)
	cfg := testAuthConfig()
	cfg.AccessSecret = "someone-else"
	other, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	now := time.Now()
	tok, err := other.IssueAccessToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.VerifyAccessToken(tok, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_TokenTypesAreNotInterchangeable(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	refresh, _, err := m.mintRefreshToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := m.VerifyAccessToken(refresh, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token must not pass as access token, got %v", err)
	}

	access, err := m.IssueAccessToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.VerifyRefreshToken(access, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token must not pass as refresh token, got %v", err)
	}
}

func TestRefreshTokenLifetime(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, exp, err := m.mintRefreshToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if !exp.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry %s", exp)
	}
	if _, err := m.VerifyRefreshToken(tok, now.Add(6*24*time.Hour)); err != nil {
		t.Fatalf("expected valid refresh token, got %v", err)
	}
	if _, err := m.VerifyRefreshToken(tok, exp); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected expired refresh token, got %v", err)
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.VerifyAccessToken("not.a.jwt", time.Now()); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssue_RequiresEmployeeID(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.IssueAccessToken(time.Now(), UserClaims{}); err == nil {
		t.Fatalf("expected error for empty employee id")
	}
}

func TestNewManager_RequiresSecrets(t *testing.T) {
	cfg := testAuthConfig()
	cfg.RefreshSecret = ""
	if _, err := NewManager(cfg); err == nil {
		t.Fatalf("expected error")
	}
}
