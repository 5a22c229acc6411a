package wire

import (
	"petcare-booking/internal/adaptor"
	"petcare-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	auth middleware.Authenticator,
	log *zap.Logger,
) {
	r.With(middleware.AuthSession(auth, log)).Get("/api/user/profile", userHandler.GetProfile)
}
