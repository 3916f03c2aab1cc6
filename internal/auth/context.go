package auth

import (
	"context"
	"errors"
)

type ctxKey struct{}

var errNoClaims = errors.New("claims not in context")

func WithClaims(ctx context.Context, c UserClaims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func ClaimsFrom(ctx context.Context) (UserClaims, error) {
	if c, ok := ctx.Value(ctxKey{}).(UserClaims); ok && c.EmployeeID != "" {
		return c, nil
	}
	return UserClaims{}, errNoClaims
}

func EmployeeID(ctx context.Context) (string, error) {
	c, err := ClaimsFrom(ctx)
	if err != nil {
		return "", err
	}
	return c.EmployeeID, nil
}
