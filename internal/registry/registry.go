// Package registry keeps the set of refresh tokens that are currently live.
//
// Membership is the only thing a Registry answers. It never checks signatures or
// expiry; callers pair IsValid with token verification.
package registry

import (
	"context"
	"time"
)

// Registry is the live refresh-token set.
//
// Register and Revoke must be atomic with respect to each other. Revoke is
// idempotent: removing a token that is not present is not an error.
type Registry interface {
	Register(ctx context.Context, token string, expiresAt time.Time) error
	Revoke(ctx context.Context, token string) error
	IsValid(ctx context.Context, token string) (bool, error)
}
