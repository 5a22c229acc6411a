package adaptor

import (
	"net/http"

	"petcare-booking/internal/dto/response"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

// CatalogHandler serves the read-only lookups the booking form needs.
type CatalogHandler struct {
	engine *usecase.DraftEngine
	log    *zap.Logger
}

func NewCatalogHandler(engine *usecase.DraftEngine, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		engine: engine,
		log:    log.With(zap.String("handler", "catalog")),
	}
}

// Health handles GET /health
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "OK", map[string]string{"time": h.engine.Now().Format("2006-01-02T15:04:05Z07:00")})
}

// Services handles GET /api/services
func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", response.ServicesToResponse(h.engine.Catalog().All()))
}

// TimeSlots handles GET /api/time-slots
func (h *CatalogHandler) TimeSlots(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", usecase.TimeSlots())
}

// Addresses handles GET /api/addresses?q=
func (h *CatalogHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.engine.Addresses(r.URL.Query().Get("q")))
}
