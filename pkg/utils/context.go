package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
	NameKey   contextKey = "name"
	TokenKey  contextKey = "token"
)

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// SetUserContext stores the signed-in user on the request context.
func SetUserContext(ctx context.Context, userID, email, name string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, EmailKey, email)
	ctx = context.WithValue(ctx, NameKey, name)
	return ctx
}

// GetUserFromContext returns id, email and name placed by SetUserContext.
func GetUserFromContext(ctx context.Context) (userID, email, name string, ok bool) {
	userID, ok = GetUserIDFromContext(ctx)
	if !ok {
		return "", "", "", false
	}
	email, _ = ctx.Value(EmailKey).(string)
	name, _ = ctx.Value(NameKey).(string)
	return userID, email, name, true
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
