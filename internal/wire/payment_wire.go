package wire

import (
	"petcare-booking/internal/adaptor"
	"petcare-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wirePayment mounts the public payment relay. Intent creation resolves the
// booking in the caller's partition, so it reads the optional session; the
// provider webhook never carries one.
func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	auth middleware.Authenticator,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(auth, log))
		r.Post("/api/create-payment-intent", paymentHandler.CreatePaymentIntent)
		r.Post("/api/confirm-payment", paymentHandler.ConfirmPayment)
	})
	r.Post("/api/webhook", paymentHandler.Webhook)
}
