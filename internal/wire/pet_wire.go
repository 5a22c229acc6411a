package wire

import (
	"net/http"

	"petcare-booking/internal/adaptor"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePet(
	r chi.Router,
	petHandler *adaptor.PetHandler,
	deps usecase.Deps,
	auth middleware.Authenticator,
	log *zap.Logger,
) {
	r.With(middleware.OptionalSession(auth, log)).Route("/api/pets", func(r chi.Router) {
		r.Post("/", petHandler.CreatePet)
		r.Get("/", petHandler.ListPets)
		r.Get("/{id}", petHandler.GetPet)
		r.Delete("/{id}", petHandler.DeletePet)
	})

	if deps.Images != nil {
		r.Handle(deps.Images.URLPrefix()+"/*", http.StripPrefix(deps.Images.URLPrefix(), deps.Images.Handler()))
	}
}
