package adaptor

import (
	"net/http"
	"strconv"

	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DraftHandler exposes the interactive booking flow: start a draft, edit
// it field by field, then submit.
type DraftHandler struct {
	service usecase.DraftService
	log     *zap.Logger
}

func NewDraftHandler(service usecase.DraftService, log *zap.Logger) *DraftHandler {
	return &DraftHandler{
		service: service,
		log:     log.With(zap.String("handler", "draft")),
	}
}

// Start handles POST /api/drafts
func (h *DraftHandler) Start(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Start(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "start draft")
		return
	}
	utils.ResponseCreated(w, "success", draft)
}

// Get handles GET /api/drafts/{id}
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get draft")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// Discard handles DELETE /api/drafts/{id}
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "discard draft")
		return
	}
	utils.ResponseSuccess(w, "success", nil)
}

// ToggleService handles POST /api/drafts/{id}/services/{serviceID}
func (h *DraftHandler) ToggleService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.Atoi(chi.URLParam(r, "serviceID"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid service ID", nil)
		return
	}

	draft, err := h.service.ToggleService(r.Context(), chi.URLParam(r, "id"), serviceID)
	if err != nil {
		handleServiceError(w, h.log, err, "toggle service")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetDate handles PUT /api/drafts/{id}/date
func (h *DraftHandler) SetDate(w http.ResponseWriter, r *http.Request) {
	var req request.SetDateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetDate(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set date")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetTime handles PUT /api/drafts/{id}/time
func (h *DraftHandler) SetTime(w http.ResponseWriter, r *http.Request) {
	var req request.SetTimeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetTime(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set time")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetAddress handles PUT /api/drafts/{id}/address
func (h *DraftHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var req request.SetAddressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetAddress(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set address")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetTelephone handles PUT /api/drafts/{id}/telephone
func (h *DraftHandler) SetTelephone(w http.ResponseWriter, r *http.Request) {
	var req request.SetTelephoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetTelephone(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set telephone")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetEmail handles PUT /api/drafts/{id}/email
func (h *DraftHandler) SetEmail(w http.ResponseWriter, r *http.Request) {
	var req request.SetEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetEmail(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set email")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetPet handles PUT /api/drafts/{id}/pet
func (h *DraftHandler) SetPet(w http.ResponseWriter, r *http.Request) {
	var req request.SetPetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetPet(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set pet")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// SetNotes handles PUT /api/drafts/{id}/notes
func (h *DraftHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req request.SetNotesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	draft, err := h.service.SetNotes(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set notes")
		return
	}
	utils.ResponseSuccess(w, "success", draft)
}

// Validate handles GET /api/drafts/{id}/validation
func (h *DraftHandler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "validate draft")
		return
	}
	utils.ResponseSuccess(w, "success", result)
}

// Submit handles POST /api/drafts/{id}/submit
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "submit booking")
		return
	}
	utils.ResponseCreated(w, "Booking created", booking)
}
