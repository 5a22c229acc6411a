package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a session token to the signed-in identity.
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*entity.Identity, error)
}

// bearerToken returns the token from "Authorization: Bearer <token>".
// present is false when no Authorization header was sent.
func bearerToken(r *http.Request) (token string, present bool, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", true, false
	}
	return strings.TrimSpace(parts[1]), true, true
}

// AuthSession requires a valid session token.
func AuthSession(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return session(auth, logger, true)
}

// OptionalSession attaches the identity when a token is sent and lets
// anonymous requests through as guests. A bad token is still rejected.
func OptionalSession(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return session(auth, logger, false)
}

func session(auth Authenticator, logger *zap.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present, ok := bearerToken(r)
			if !present {
				if required {
					utils.ResponseUnauthorized(w, "Missing authorization token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			identity, err := auth.CurrentUser(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthenticated) {
					logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Invalid or expired session")
					return
				}
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), identity.UserID, identity.Email, identity.Name)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
