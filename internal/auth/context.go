package auth

import (
	"context"
)

type ctxKey string

const userKey ctxKey = "auth.user"

type UserContext struct {
	OwnerID string
	UserID  string
	Role    string
}

func WithUser(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func FromContext(ctx context.Context) *UserContext {
	u, _ := ctx.Value(userKey).(*UserContext)
	return u
}

// GetOwnerID returns the tenant every query is scoped to, or "" for an
// unauthenticated context.
func GetOwnerID(ctx context.Context) string {
	if u := FromContext(ctx); u != nil {
		return u.OwnerID
	}
	return ""
}

// Performer names the caller in transaction history.
func Performer(ctx context.Context) string {
	u := FromContext(ctx)
	if u == nil {
		return ""
	}
	if u.UserID != "" {
		return u.UserID
	}
	return u.OwnerID
}
