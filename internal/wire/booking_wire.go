package wire

import (
	"petcare-booking/internal/adaptor"
	"petcare-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireBooking mounts the draft flow and booking records. Guests may use
// both; signed-in callers see only their own partition.
func wireBooking(
	r chi.Router,
	draftHandler *adaptor.DraftHandler,
	bookingHandler *adaptor.BookingHandler,
	auth middleware.Authenticator,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(auth, log))

		r.Route("/api/drafts", func(r chi.Router) {
			r.Post("/", draftHandler.Start)
			r.Get("/{id}", draftHandler.Get)
			r.Delete("/{id}", draftHandler.Discard)
			r.Post("/{id}/services/{serviceID}", draftHandler.ToggleService)
			r.Put("/{id}/date", draftHandler.SetDate)
			r.Put("/{id}/time", draftHandler.SetTime)
			r.Put("/{id}/address", draftHandler.SetAddress)
			r.Put("/{id}/telephone", draftHandler.SetTelephone)
			r.Put("/{id}/email", draftHandler.SetEmail)
			r.Put("/{id}/pet", draftHandler.SetPet)
			r.Put("/{id}/notes", draftHandler.SetNotes)
			r.Get("/{id}/validation", draftHandler.Validate)
			r.Post("/{id}/submit", draftHandler.Submit)
		})

		r.Route("/api/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/", bookingHandler.ListBookings)
			r.Get("/{id}", bookingHandler.GetBooking)
			r.Delete("/{id}", bookingHandler.DeleteBooking)
		})
	})
}
