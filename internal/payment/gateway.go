// Package payment wraps the Stripe payment-intent API behind a small gateway.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"petcare-booking/pkg/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"

	StatusSucceeded = "succeeded"
)

var (
	// ErrDisabled is returned when no Stripe secret key is configured.
	ErrDisabled         = errors.New("payments are not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// NetworkError is any failure talking to the payment provider. Its message
// is the provider's message, unchanged.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	var serr *stripe.Error
	if errors.As(e.Err, &serr) && serr.Msg != "" {
		return serr.Msg
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64 // minor units
	Currency     string
	Metadata     map[string]string
}

type Event struct {
	ID     string
	Type   string
	Intent *Intent
	// Verified is set when the payload carried a valid signature. Unverified
	// event contents are only good for logging.
	Verified bool
}

type CreateIntentParams struct {
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string
}

type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ParseEvent(payload []byte, signature string) (*Event, error)
	Enabled() bool
}

type stripeGateway struct {
	api           *client.API
	webhookSecret string
	log           *zap.Logger
}

// NewStripeGateway returns a gateway backed by Stripe. With an empty secret
// key intent calls fail with ErrDisabled; webhook parsing still works.
func NewStripeGateway(config utils.PaymentConfig, log *zap.Logger) Gateway {
	g := &stripeGateway{
		webhookSecret: config.WebhookSecret,
		log:           log.With(zap.String("gateway", "stripe")),
	}
	if config.StripeSecretKey != "" {
		g.api = &client.API{}
		g.api.Init(config.StripeSecretKey, nil)
	} else {
		g.log.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
	}
	return g
}

func (g *stripeGateway) Enabled() bool {
	return g.api != nil
}

func (g *stripeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error) {
	if g.api == nil {
		return nil, ErrDisabled
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.log.Error("Failed to create payment intent", zap.Error(err), zap.Int64("amount", p.Amount))
		return nil, &NetworkError{Op: "create payment intent", Err: err}
	}
	return toIntent(pi), nil
}

func (g *stripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	if g.api == nil {
		return nil, ErrDisabled
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		g.log.Error("Failed to retrieve payment intent", zap.Error(err), zap.String("payment_intent_id", id))
		return nil, &NetworkError{Op: "retrieve payment intent", Err: err}
	}
	return toIntent(pi), nil
}

// ParseEvent verifies the Stripe-Signature header when a webhook secret is
// configured, otherwise it accepts the raw JSON event as unverified.
func (g *stripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	var (
		event stripe.Event
		err   error
	)
	if g.webhookSecret != "" {
		event, err = webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type), Verified: g.webhookSecret != ""}
	if event.Data != nil && len(event.Data.Raw) > 0 && (out.Type == EventPaymentSucceeded || out.Type == EventPaymentFailed) {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		out.Intent = toIntent(&pi)
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
