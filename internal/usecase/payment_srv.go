package usecase

import (
	"context"
	"errors"
	"strings"

	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/dto/response"
	"petcare-booking/internal/payment"

	"go.uber.org/zap"
)

const (
	metadataBookingID = "bookingId"
	metadataApp       = "app"
	appName           = "pet-care"
	unknownBooking    = "unknown"
)

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, req *request.ConfirmPaymentRequest) (*response.ConfirmPaymentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	gateway  payment.Gateway
	bookings BookingService
	currency string
	log      *zap.Logger
}

func NewPaymentService(gateway payment.Gateway, bookings BookingService, currency string, log *zap.Logger) PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &paymentService{
		gateway:  gateway,
		bookings: bookings,
		currency: strings.ToLower(currency),
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error) {
	if !req.Amount.IsPositive() || payment.ToMinorUnits(req.Amount) <= 0 {
		return nil, &ValidationError{Failures: []FieldError{{"amount", "Invalid amount"}}}
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.currency
	}

	bookingID := req.BookingID
	if bookingID == "" {
		bookingID = unknownBooking
	} else {
		booking, err := s.bookings.GetBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if payment.ToMinorUnits(booking.Amount) != payment.ToMinorUnits(req.Amount) {
			return nil, &ValidationError{Failures: []FieldError{{"amount", "Amount does not match booking"}}}
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, payment.CreateIntentParams{
		Amount:   payment.ToMinorUnits(req.Amount),
		Currency: currency,
		Metadata: map[string]string{
			metadataBookingID: bookingID,
			metadataApp:       appName,
		},
	})
	if err != nil {
		return nil, err
	}

	if req.BookingID != "" {
		if err := s.bookings.AttachPaymentIntent(ctx, req.BookingID, intent.ID); err != nil {
			s.log.Warn("Payment intent not recorded on booking",
				zap.Error(err),
				zap.String("booking_id", req.BookingID),
				zap.String("payment_intent_id", intent.ID),
			)
		}
	}

	s.log.Info("Payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.String("booking_id", bookingID),
		zap.Int64("amount_minor", intent.Amount),
		zap.String("currency", currency),
	)

	return &response.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, req *request.ConfirmPaymentRequest) (*response.ConfirmPaymentResponse, error) {
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		return nil, &ValidationError{Failures: []FieldError{{"paymentIntentId", "PaymentIntent ID required"}}}
	}

	intent, err := s.gateway.GetIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	if intent.Status == payment.StatusSucceeded {
		s.confirmBooking(ctx, intent)
	}

	return &response.ConfirmPaymentResponse{
		Status:   intent.Status,
		Amount:   payment.FromMinorUnits(intent.Amount),
		Currency: intent.Currency,
	}, nil
}

// HandleWebhook applies a provider event. Only an unverifiable or unreadable
// payload is an error; everything else is acknowledged. Bookings change only
// on signed events or after the intent was re-read from the provider.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		s.log.Warn("Rejected webhook", zap.Error(err))
		return err
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		s.log.Info("Payment succeeded", zap.String("event_id", event.ID), zap.String("payment_intent_id", intentID(event)))
		if event.Intent == nil {
			break
		}
		if event.Verified {
			s.confirmBooking(ctx, event.Intent)
			break
		}
		intent, err := s.gateway.GetIntent(ctx, event.Intent.ID)
		if err != nil {
			s.log.Warn("Unsigned webhook not applied",
				zap.Error(err),
				zap.String("event_id", event.ID),
				zap.String("payment_intent_id", event.Intent.ID),
			)
			break
		}
		if intent.Status == payment.StatusSucceeded {
			s.confirmBooking(ctx, intent)
		}
	case payment.EventPaymentFailed:
		s.log.Warn("Payment failed", zap.String("event_id", event.ID), zap.String("payment_intent_id", intentID(event)))
	default:
		s.log.Debug("Unhandled webhook event", zap.String("event_id", event.ID), zap.String("type", event.Type))
	}
	return nil
}

// confirmBooking moves the booking named in the intent metadata to confirmed
// when the intent paid its full amount. Failures are logged; the payment
// itself already went through.
func (s *paymentService) confirmBooking(ctx context.Context, intent *payment.Intent) {
	bookingID := intent.Metadata[metadataBookingID]
	if bookingID == "" || bookingID == unknownBooking {
		return
	}

	_, err := s.bookings.ConfirmPaid(ctx, bookingID, intent.Amount)
	if err != nil {
		level := s.log.Error
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrAmountMismatch) {
			level = s.log.Warn
		}
		level("Booking not confirmed",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("payment_intent_id", intent.ID),
		)
	}
}

func intentID(e *payment.Event) string {
	if e.Intent == nil {
		return ""
	}
	return e.Intent.ID
}
