package adaptor

import (
	"net/http"

	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PetHandler struct {
	service usecase.PetService
	log     *zap.Logger
}

func NewPetHandler(service usecase.PetService, log *zap.Logger) *PetHandler {
	return &PetHandler{
		service: service,
		log:     log.With(zap.String("handler", "pet")),
	}
}

// CreatePet handles POST /api/pets
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pet, err := h.service.CreatePet(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create pet")
		return
	}

	utils.ResponseCreated(w, "Pet added", pet)
}

// ListPets handles GET /api/pets
func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	req := request.PaginationFromQuery(r)

	pets, err := h.service.ListPets(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list pets")
		return
	}

	utils.ResponseSuccess(w, "success", pets)
}

// GetPet handles GET /api/pets/{id}
func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	pet, err := h.service.GetPet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get pet")
		return
	}

	utils.ResponseSuccess(w, "success", pet)
}

// DeletePet handles DELETE /api/pets/{id}
func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePet(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete pet")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
