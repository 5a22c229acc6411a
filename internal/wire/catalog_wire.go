package wire

import (
	"petcare-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	r.Get("/api/services", catalogHandler.Services)
	r.Get("/api/time-slots", catalogHandler.TimeSlots)
	r.Get("/api/addresses", catalogHandler.Addresses)
}
