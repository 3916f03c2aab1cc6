package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"itembuildup/internal/config"
)

// ErrTokenInvalid covers every verification failure: bad signature, wrong
// secret, expired, wrong token type or missing identity.
var ErrTokenInvalid = errors.New("token invalid")

// Manager signs and verifies tokens. Access and refresh tokens use separate
// secrets, so one can never be verified as the other.
//
// Manager has no side effects. Registering refresh tokens is Service's job.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	leeway        time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("leeway must not be negative")
	}

	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		leeway:        cfg.Leeway,
	}, nil
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

/* ===================== ISSUE ===================== */

// IssueAccessToken signs a short-lived access token for claims.
func (m *Manager) IssueAccessToken(now time.Time, claims UserClaims) (string, error) {
	tok, _, err := m.issue(now, TokenTypeAccess, claims)
	return tok, err
}

// mintRefreshToken signs a refresh token without registering it.
func (m *Manager) mintRefreshToken(now time.Time, claims UserClaims) (string, time.Time, error) {
	return m.issue(now, TokenTypeRefresh, claims)
}

func (m *Manager) issue(now time.Time, tokenType TokenType, uc UserClaims) (string, time.Time, error) {
	if uc.EmployeeID == "" {
		return "", time.Time{}, errors.New("employee_id is required")
	}

	ttl := m.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = m.refreshTTL
	}
	exp := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   uc.EmployeeID,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		UserClaims: uc,
		TokenType:  tokenType,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secretFor(tokenType))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return s, claims.ExpiresAt.Time, nil
}

/* ===================== VERIFY ===================== */

func (m *Manager) VerifyAccessToken(tokenString string, now time.Time) (UserClaims, error) {
	c, err := m.verify(tokenString, TokenTypeAccess, now)
	if err != nil {
		return UserClaims{}, err
	}
	return c.UserClaims, nil
}

func (m *Manager) VerifyRefreshToken(tokenString string, now time.Time) (UserClaims, error) {
	c, err := m.verify(tokenString, TokenTypeRefresh, now)
	if err != nil {
		return UserClaims{}, err
	}
	return c.UserClaims, nil
}

// verify rejects a token whose expiry is at or before now (plus leeway).
func (m *Manager) verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(m.leeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secretFor(expected), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.TokenType != expected {
		return Claims{}, fmt.Errorf("%w: token_type mismatch", ErrTokenInvalid)
	}
	if claims.EmployeeID == "" {
		return Claims{}, fmt.Errorf("%w: employee_id missing", ErrTokenInvalid)
	}
	return claims, nil
}

func (m *Manager) secretFor(t TokenType) []byte {
	if t == TokenTypeRefresh {
		return m.refreshSecret
	}
	return m.accessSecret
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
