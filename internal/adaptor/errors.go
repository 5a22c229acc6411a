package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"petcare-booking/internal/data/store"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 8 << 20

// decodeJSON reads a JSON body into dst. Bodies above maxBodyBytes are refused.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// handleServiceError maps usecase errors to the response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		ve *usecase.ValidationError
		ne *payment.NetworkError
		pe *store.PersistenceError
	)

	switch {
	case errors.As(err, &ve):
		log.Warn(operation+" validation failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, ve.Error(), ve.Failures)

	case errors.Is(err, usecase.ErrPastDate),
		errors.Is(err, usecase.ErrInvalidSlot),
		errors.Is(err, usecase.ErrUnknownService):
		log.Warn("Invalid input for "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrDraftNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrPetNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrDraftSubmitted),
		errors.Is(err, usecase.ErrDraftBusy),
		errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrAmountMismatch):
		log.Warn(operation+" failed - conflict", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidOTP),
		errors.Is(err, usecase.ErrUnauthenticated):
		log.Warn(operation+" failed - unauthorized", zap.Error(err), zap.String("operation", operation))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.As(err, &ne):
		log.Error(operation+" failed - payment provider", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadGateway(w, err.Error())

	case errors.Is(err, payment.ErrDisabled):
		utils.ResponseUnavailable(w, err.Error())

	case errors.As(err, &pe):
		log.Error("Failed to "+operation+" - storage",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("collection", pe.Collection),
		)
		utils.ResponseInternalError(w, "Failed to "+operation)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
