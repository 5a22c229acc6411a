package adaptor

import (
	"petcare-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Catalog *CatalogHandler
	Auth    *AuthHandler
	User    *UserHandler
	Draft   *DraftHandler
	Booking *BookingHandler
	Pet     *PetHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Catalog: NewCatalogHandler(service.Engine, log),
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Draft:   NewDraftHandler(service.Draft, log),
		Booking: NewBookingHandler(service.Booking, log),
		Pet:     NewPetHandler(service.Pet, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}
