// Package context holds the request-scoped identity and tracing values
// shared between the HTTP layer, the domain services and the loggers.
package context

import "context"

// UserContext is the authenticated caller as established by the auth
// middleware from a verified token.
type UserContext struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

type userKey struct{}

func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns the caller's id, or "" for unauthenticated contexts.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
