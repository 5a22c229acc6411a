package wire

import (
	"petcare-booking/internal/adaptor"
	"petcare-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	auth middleware.Authenticator,
	log *zap.Logger,
) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/sign-up", authHandler.SignUp)
		r.Post("/sign-in", authHandler.SignIn)
		r.Post("/otp", authHandler.SendOTP)
		r.Post("/otp/verify", authHandler.VerifyOTP)

		// ==================== PROTECTED ROUTES ====================
		r.With(middleware.AuthSession(auth, log)).Post("/sign-out", authHandler.SignOut)
	})
}
