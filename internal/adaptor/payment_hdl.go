package adaptor

import (
	"errors"
	"io"
	"net/http"

	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

// PaymentHandler is the payment-intent relay. Bodies are bare JSON objects
// with clientSecret at the top level, not the envelope.
type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// CreatePaymentIntent handles POST /api/create-payment-intent
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePaymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, errorBody{"Invalid amount"})
		return
	}

	resp, err := h.service.CreatePaymentIntent(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "create payment intent")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// ConfirmPayment handles POST /api/confirm-payment
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, errorBody{"PaymentIntent ID required"})
		return
	}

	resp, err := h.service.ConfirmPayment(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "confirm payment")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Webhook handles POST /api/webhook
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, errorBody{"Invalid payload"})
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.writeError(w, err, "handle webhook")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, err error, operation string) {
	var (
		ve *usecase.ValidationError
		ne *payment.NetworkError
	)

	switch {
	case errors.As(err, &ve):
		utils.WriteJSON(w, http.StatusBadRequest, errorBody{ve.Error()})
	case errors.Is(err, payment.ErrInvalidSignature), errors.Is(err, payment.ErrInvalidPayload):
		h.log.Warn(operation+" rejected", zap.Error(err))
		utils.WriteJSON(w, http.StatusBadRequest, errorBody{err.Error()})
	case errors.Is(err, usecase.ErrBookingNotFound):
		utils.WriteJSON(w, http.StatusNotFound, errorBody{err.Error()})
	case errors.Is(err, payment.ErrDisabled):
		utils.WriteJSON(w, http.StatusServiceUnavailable, errorBody{err.Error()})
	case errors.As(err, &ne):
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.WriteJSON(w, http.StatusBadGateway, errorBody{err.Error()})
	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, errorBody{err.Error()})
	}
}
