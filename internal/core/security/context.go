// Package security provides request identity and owner-scoping primitives.
//
// Every record in the system belongs to exactly one dealer account (the
// "owner"). The authenticated identity carried in context supplies that
// owner id, and the repository layer filters every statement by it.
package security

import (
	"context"

	"dealerdesk/internal/core/apperror"
)

// Identity contains the authenticated caller information.
type Identity struct {
	// OwnerID is the dealer account all reads/writes are scoped to.
	OwnerID string

	// UserID is the authenticated user within the account.
	UserID string

	// Email is the authenticated user's email (for audit entries).
	Email string
}

type identityKey struct{}

// WithIdentity adds Identity to context.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// GetIdentity returns Identity from context, or nil when unauthenticated.
func GetIdentity(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}

// RequireOwner returns the owner id from context.
// Fails with an UNAUTHORIZED error when no identity is present.
func RequireOwner(ctx context.Context) (string, error) {
	ident := GetIdentity(ctx)
	if ident == nil || ident.OwnerID == "" {
		return "", apperror.NewUnauthorized("no authenticated owner in request context")
	}
	return ident.OwnerID, nil
}

// UserID returns the authenticated user id or empty string.
func UserID(ctx context.Context) string {
	if ident := GetIdentity(ctx); ident != nil {
		return ident.UserID
	}
	return ""
}
