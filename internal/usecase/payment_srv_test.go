package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/payment"
	"petcare-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
	if err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{}
	svc := NewPaymentService(gw, f.bookings, "USD", zap.NewNop())

	tests := []struct {
		name      string
		req       request.CreatePaymentIntentRequest
		wantErr   bool
		wantMinor int64
		wantCur   string
		wantMeta  string
	}{
		{"zero amount", request.CreatePaymentIntentRequest{Amount: decimal.Zero}, true, 0, "", ""},
		{"negative", request.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(-5)}, true, 0, "", ""},
		{"rounds to zero", request.CreatePaymentIntentRequest{Amount: decimal.RequireFromString("0.004")}, true, 0, "", ""},
		{"default currency", request.CreatePaymentIntentRequest{Amount: decimal.RequireFromString("19.995")}, false, 2000, "usd", "unknown"},
		{"booking", request.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(100), BookingID: b.ID, Currency: "EUR"}, false, 10000, "eur", b.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.CreatePaymentIntent(ctx, &tt.req)
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Error() != "Invalid amount" {
					t.Fatalf("err = %v, want Invalid amount", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if resp.PaymentIntentID != "pi_1" || resp.ClientSecret != "pi_1_secret" {
				t.Errorf("resp = %+v", resp)
			}
			got := gw.created[len(gw.created)-1]
			if got.Amount != tt.wantMinor || got.Currency != tt.wantCur {
				t.Errorf("params = %+v", got)
			}
			if got.Metadata["bookingId"] != tt.wantMeta || got.Metadata["app"] != "pet-care" {
				t.Errorf("metadata = %v", got.Metadata)
			}
		})
	}

	stored, err := f.repo.Booking.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.PaymentIntentID != "pi_1" {
		t.Errorf("paymentIntentId = %q", stored.PaymentIntentID)
	}
}

func TestCreatePaymentIntentNetworkError(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{err: &payment.NetworkError{Op: "create payment intent", Err: errors.New("card declined")}}
	svc := NewPaymentService(gw, f.bookings, "usd", zap.NewNop())

	_, err := svc.CreatePaymentIntent(context.Background(), &request.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(10)})
	var ne *payment.NetworkError
	if !errors.As(err, &ne) || err.Error() != "card declined" {
		t.Errorf("err = %v, want NetworkError card declined", err)
	}
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
	if err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{intents: map[string]*payment.Intent{
		"pi_ok": {ID: "pi_ok", Status: payment.StatusSucceeded, Amount: 10000, Currency: "usd", Metadata: map[string]string{"bookingId": b.ID}},
	}}
	svc := NewPaymentService(gw, f.bookings, "usd", zap.NewNop())

	if _, err := svc.ConfirmPayment(ctx, &request.ConfirmPaymentRequest{}); err == nil || err.Error() != "PaymentIntent ID required" {
		t.Errorf("empty id err = %v", err)
	}

	resp, err := svc.ConfirmPayment(ctx, &request.ConfirmPaymentRequest{PaymentIntentID: "pi_ok"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != "succeeded" || !resp.Amount.Equal(decimal.NewFromInt(100)) || resp.Currency != "usd" {
		t.Errorf("resp = %+v", resp)
	}

	stored, _ := f.repo.Booking.FindByID(ctx, b.ID)
	if stored.Status != entity.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", stored.Status)
	}

	if _, err := svc.ConfirmPayment(ctx, &request.ConfirmPaymentRequest{PaymentIntentID: "pi_missing"}); err == nil {
		t.Error("missing intent confirmed")
	}
}

func TestHandleWebhook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
	if err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{}
	svc := NewPaymentService(gw, f.bookings, "usd", zap.NewNop())

	gw.eventErr = payment.ErrInvalidSignature
	if err := svc.HandleWebhook(ctx, nil, "bad"); !errors.Is(err, payment.ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}

	gw.eventErr = nil
	gw.event = &payment.Event{ID: "evt_2", Type: payment.EventPaymentFailed, Intent: &payment.Intent{ID: "pi_2", Metadata: map[string]string{"bookingId": b.ID}}}
	if err := svc.HandleWebhook(ctx, nil, ""); err != nil {
		t.Fatal(err)
	}
	stored, _ := f.repo.Booking.FindByID(ctx, b.ID)
	if stored.Status != entity.BookingStatusPending {
		t.Errorf("failed payment changed status to %s", stored.Status)
	}

	gw.event = &payment.Event{ID: "evt_1", Type: payment.EventPaymentSucceeded, Verified: true, Intent: &payment.Intent{ID: "pi_1", Amount: 10000, Metadata: map[string]string{"bookingId": b.ID}}}
	if err := svc.HandleWebhook(ctx, nil, ""); err != nil {
		t.Fatal(err)
	}
	stored, _ = f.repo.Booking.FindByID(ctx, b.ID)
	if stored.Status != entity.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", stored.Status)
	}

	gw.event = &payment.Event{ID: "evt_3", Type: "charge.refunded"}
	if err := svc.HandleWebhook(ctx, nil, ""); err != nil {
		t.Errorf("unhandled event err = %v", err)
	}
}

func TestHandleWebhookUnverified(t *testing.T) {
	meta := func(id string) map[string]string { return map[string]string{"bookingId": id} }

	tests := []struct {
		name    string
		intents func(bookingID string) map[string]*payment.Intent
		want    entity.BookingStatus
	}{
		{"intent unknown to provider", func(string) map[string]*payment.Intent { return nil }, entity.BookingStatusPending},
		{"intent still processing", func(id string) map[string]*payment.Intent {
			return map[string]*payment.Intent{"pi_1": {ID: "pi_1", Status: "processing", Amount: 10000, Metadata: meta(id)}}
		}, entity.BookingStatusPending},
		{"intent paid", func(id string) map[string]*payment.Intent {
			return map[string]*payment.Intent{"pi_1": {ID: "pi_1", Status: payment.StatusSucceeded, Amount: 10000, Metadata: meta(id)}}
		}, entity.BookingStatusConfirmed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
			if err != nil {
				t.Fatal(err)
			}

			// the event body claims success; only the provider's copy counts
			gw := &fakeGateway{intents: tt.intents(b.ID)}
			gw.event = &payment.Event{ID: "evt_1", Type: payment.EventPaymentSucceeded, Intent: &payment.Intent{ID: "pi_1", Status: payment.StatusSucceeded, Amount: 10000, Metadata: meta(b.ID)}}
			svc := NewPaymentService(gw, f.bookings, "usd", zap.NewNop())

			if err := svc.HandleWebhook(ctx, nil, ""); err != nil {
				t.Fatal(err)
			}
			stored, _ := f.repo.Booking.FindByID(ctx, b.ID)
			if stored.Status != tt.want {
				t.Errorf("status = %s, want %s", stored.Status, tt.want)
			}
		})
	}
}

func TestHandleWebhookWithoutSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
	if err != nil {
		t.Fatal(err)
	}

	svc := NewPaymentService(payment.NewStripeGateway(utils.PaymentConfig{}, zap.NewNop()), f.bookings, "usd", zap.NewNop())
	payload := fmt.Sprintf(`{"type":"payment_intent.succeeded","data":{"object":{"metadata":{"bookingId":%q}}}}`, b.ID)

	if err := svc.HandleWebhook(ctx, []byte(payload), ""); err != nil {
		t.Fatalf("HandleWebhook() error = %v", err)
	}
	stored, _ := f.repo.Booking.FindByID(ctx, b.ID)
	if stored.Status != entity.BookingStatusPending {
		t.Errorf("unsigned webhook changed status to %s", stored.Status)
	}
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
	if err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{intents: map[string]*payment.Intent{
		"pi_cheap": {ID: "pi_cheap", Status: payment.StatusSucceeded, Amount: 1, Currency: "usd", Metadata: map[string]string{"bookingId": b.ID}},
	}}
	svc := NewPaymentService(gw, f.bookings, "usd", zap.NewNop())

	if _, err := svc.ConfirmPayment(ctx, &request.ConfirmPaymentRequest{PaymentIntentID: "pi_cheap"}); err != nil {
		t.Fatal(err)
	}
	stored, _ := f.repo.Booking.FindByID(ctx, b.ID)
	if stored.Status != entity.BookingStatusPending {
		t.Errorf("underpaid booking status = %s, want pending", stored.Status)
	}
}

func TestCreatePaymentIntentBookingChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Submit(ctx, filledDraft(t, f.engine, entity.GuestPartition))
	if err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{}
	svc := NewPaymentService(gw, f.bookings, "usd", zap.NewNop())

	_, err = svc.CreatePaymentIntent(ctx, &request.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(1), BookingID: b.ID})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Error() != "Amount does not match booking" {
		t.Errorf("err = %v, want amount mismatch", err)
	}

	f.identity.Identity = &entity.Identity{UserID: "user_x"}
	_, err = svc.CreatePaymentIntent(ctx, &request.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(100), BookingID: b.ID})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("foreign booking err = %v, want ErrBookingNotFound", err)
	}
	if err := f.bookings.AttachPaymentIntent(ctx, b.ID, "pi_evil"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("foreign attach err = %v, want ErrBookingNotFound", err)
	}

	if len(gw.created) != 0 {
		t.Errorf("%d intents created, want 0", len(gw.created))
	}
	stored, _ := f.repo.Booking.FindByID(ctx, b.ID)
	if stored.PaymentIntentID != "" {
		t.Errorf("paymentIntentId = %q, want empty", stored.PaymentIntentID)
	}
}
