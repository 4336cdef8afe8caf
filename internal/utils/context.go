package utils

import (
	"context"
	"errors"

	"github.com/InkwellHQ/inkwell-backend/internal/identity"
)

type contextKey string

const contextIdentityKey contextKey = "identityResult"

// ErrNotAuthenticated is the uniform failure handlers see when identity
// resolution did not produce a usable principal. The resolver's internal
// error kinds are deliberately not exposed past this point.
var ErrNotAuthenticated = errors.New("not authenticated")

// IdentityResult is the outcome of identity resolution, stored once per
// request by the resolver middleware. Either Identity or Err is set.
type IdentityResult struct {
	Identity identity.Identity
	Err      error
}

func WithIdentityResult(ctx context.Context, res IdentityResult) context.Context {
	return context.WithValue(ctx, contextIdentityKey, res)
}

func IdentityResultFromContext(ctx context.Context) (IdentityResult, bool) {
	res, ok := ctx.Value(contextIdentityKey).(IdentityResult)
	return res, ok
}

// RequireIdentity returns the resolved identity or ErrNotAuthenticated if
// resolution failed or never ran.
func RequireIdentity(ctx context.Context) (identity.Identity, error) {
	res, ok := IdentityResultFromContext(ctx)
	if !ok || res.Err != nil {
		return identity.Identity{}, ErrNotAuthenticated
	}
	return res.Identity, nil
}
