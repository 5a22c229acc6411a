package usecase

import (
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/sheets"
	"petcare-booking/pkg/imagestore"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Engine  *DraftEngine
	Auth    AuthService
	User    UserService
	Booking BookingService
	Draft   DraftService
	Pet     PetService
	Payment PaymentService
}

// Deps are the collaborators the services need besides the repositories.
type Deps struct {
	Engine    *DraftEngine
	Identity  IdentityProvider
	Publisher sheets.Publisher
	Gateway   payment.Gateway
	Images    *imagestore.Store
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	if deps.Identity == nil {
		deps.Identity = ContextIdentity{}
	}

	booking := NewBookingService(repo.Booking, repo.Pet, deps.Engine, deps.Identity, deps.Publisher, log)

	return &Service{
		Engine:  deps.Engine,
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, deps.Identity, log),
		Booking: booking,
		Draft:   NewDraftService(deps.Engine, booking, repo.Pet, deps.Identity, config.Booking.DraftTTL(), log),
		Pet:     NewPetService(repo.Pet, deps.Images, deps.Engine, deps.Identity, log),
		Payment: NewPaymentService(deps.Gateway, booking, config.Payment.Currency, log),
	}
}
