// internal/wire/wire.go
package wire

import (
	"petcare-booking/internal/adaptor"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/middleware"
	"petcare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, deps usecase.Deps, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, deps, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, deps, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	deps usecase.Deps,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.NewRateLimiter(config.RateLimit, logger).Handler)

	r.Get("/health", handler.Catalog.Health)

	wireCatalog(r, handler.Catalog)
	wireAuth(r, handler.Auth, service.Auth, logger)
	wireUser(r, handler.User, service.Auth, logger)
	wireBooking(r, handler.Draft, handler.Booking, service.Auth, logger)
	wirePet(r, handler.Pet, deps, service.Auth, logger)
	wirePayment(r, handler.Payment, service.Auth, logger)

	return r
}
