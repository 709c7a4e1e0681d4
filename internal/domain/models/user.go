package models

import (
	"context"

	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/google/uuid"
)

// User is an operator of the admin dashboard. Accounts live in the external
// identity provider; this struct is materialized from verified token claims.
type User struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  types.UserRole `json:"role"`
}

var anonymousUser = &User{}

func AnonymousUser() *User {
	return anonymousUser
}

func (u *User) IsAnonymous() bool {
	return u == anonymousUser
}

type userCtxKey struct{}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, ok := ctx.Value(userCtxKey{}).(*User)
	if !ok {
		return nil
	}
	return user
}
