package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"itembuildup/internal/apperr"
	"itembuildup/internal/registry"
	"itembuildup/internal/users"
)

// UserFinder loads the credential record consulted at login.
type UserFinder interface {
	FindByEmployeeID(ctx context.Context, employeeID string) (users.User, error)
}

// PresenceWriter persists the ACTIVE/OFFLINE flag. It is a side effect of
// login and logout, kept apart from the token lifecycle.
type PresenceWriter interface {
	SetStatus(ctx context.Context, employeeID string, status users.Status) error
}

// Session is what a successful login hands back to the transport layer.
type Session struct {
	Claims           UserClaims
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Service is the only component that reads or mutates the refresh registry.
//
// Session states per user: ANONYMOUS -> AUTHENTICATED (Login) -> ANONYMOUS
// (Logout, or a failed Refresh on the client side).
type Service struct {
	tokens   *Manager
	registry registry.Registry
	users    UserFinder
	presence PresenceWriter
	clock    func() time.Time
}

func NewService(tokens *Manager, reg registry.Registry, finder UserFinder, presence PresenceWriter) *Service {
	return &Service{
		tokens:   tokens,
		registry: reg,
		users:    finder,
		presence: presence,
		clock:    time.Now,
	}
}

func (s *Service) Tokens() *Manager { return s.tokens }

// IssueRefreshToken mints a refresh token and registers it before returning it.
// A token that fails to register is never handed out.
func (s *Service) IssueRefreshToken(ctx context.Context, claims UserClaims) (string, time.Time, error) {
	tok, exp, err := s.tokens.mintRefreshToken(s.clock(), claims)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.registry.Register(ctx, tok, exp); err != nil {
		return "", time.Time{}, fmt.Errorf("register refresh token: %w", err)
	}
	return tok, exp, nil
}

// Login checks credentials, marks the user ACTIVE and returns a fresh token pair.
func (s *Service) Login(ctx context.Context, employeeID, password string) (Session, error) {
	employeeID = strings.TrimSpace(employeeID)

	u, err := s.users.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Session{}, apperr.NotFound("User not found")
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}

	if err := users.CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, users.ErrPasswordMismatch) {
			return Session{}, apperr.Unauthorized("Incorrect password")
		}
		return Session{}, fmt.Errorf("compare password: %w", err)
	}

	if err := s.presence.SetStatus(ctx, u.EmployeeID, users.StatusActive); err != nil {
		return Session{}, fmt.Errorf("mark active: %w", err)
	}

	claims := ClaimsFromUser(u)
	access, err := s.tokens.IssueAccessToken(s.clock(), claims)
	if err != nil {
		return Session{}, err
	}
	refresh, exp, err := s.IssueRefreshToken(ctx, claims)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Claims:           claims,
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: exp,
	}, nil
}

// Refresh mints a new access token from the claims inside a live refresh token.
// Claims are not re-read from storage and the refresh token is not rotated.
// When a well-formed token has been revoked the verified claims are still
// returned alongside the error.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, UserClaims, error) {
	if refreshToken == "" {
		return "", UserClaims{}, apperr.Forbidden("Refresh token required")
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken, s.clock())
	if err != nil {
		return "", UserClaims{}, apperr.Forbidden("Invalid refresh token")
	}

	live, err := s.registry.IsValid(ctx, refreshToken)
	if err != nil {
		return "", UserClaims{}, fmt.Errorf("registry lookup: %w", err)
	}
	if !live {
		return "", claims, apperr.Forbidden("Refresh token revoked")
	}

	access, err := s.tokens.IssueAccessToken(s.clock(), claims)
	if err != nil {
		return "", UserClaims{}, err
	}
	return access, claims, nil
}

// Logout revokes refreshToken and marks employeeID OFFLINE.
//
// The two writes are independent. Revocation happens first; if the presence
// write then fails the session is gone but the user still reads as ACTIVE.
// A user that no longer exists has no presence to update and is not an error.
// A refresh token that verifies must belong to employeeID; an unverifiable one
// is still revoked.
func (s *Service) Logout(ctx context.Context, employeeID, refreshToken string) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return apperr.BadRequest("Employee ID is required.")
	}

	if refreshToken != "" {
		if claims, err := s.tokens.VerifyRefreshToken(refreshToken, s.clock()); err == nil && claims.EmployeeID != employeeID {
			return apperr.Forbidden("Refresh token does not belong to this user.")
		}
		if err := s.registry.Revoke(ctx, refreshToken); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}

	if err := s.presence.SetStatus(ctx, employeeID, users.StatusOffline); err != nil && !errors.Is(err, users.ErrNotFound) {
		return fmt.Errorf("mark offline: %w", err)
	}
	return nil
}

// ReissueAccessToken returns an access token reflecting u as stored now.
// Used after profile edits so the caller's claims stop being stale.
func (s *Service) ReissueAccessToken(u users.User) (string, error) {
	return s.tokens.IssueAccessToken(s.clock(), ClaimsFromUser(u))
}
