package wire

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/data/store"
	"petcare-booking/internal/payment"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/imagestore"
	"petcare-booking/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	log := zap.NewNop()
	s := store.New(store.NewMemoryBackend(), log)
	t.Cleanup(func() { s.Close() })

	images, err := imagestore.New(afero.NewMemMapFs(), "/uploads", "/uploads", 64)
	if err != nil {
		t.Fatal(err)
	}

	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 1},
		OTP:     utils.OTPConfig{ExpiryMinutes: 5, Length: 6},
		Payment: utils.PaymentConfig{Currency: "usd"},
	}
	engine := usecase.NewDraftEngine(entity.DefaultCatalog(), usecase.DefaultAddresses, time.UTC, nil)

	return Wiring(repository.NewRepository(s, log), config, usecase.Deps{
		Engine:  engine,
		Gateway: payment.NewStripeGateway(config.Payment, log),
		Images:  images,
	}, log)
}

func do(t *testing.T, app *App, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodGet, "/api/services", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var services []struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	if err := json.Unmarshal(env.Data, &services); err != nil {
		t.Fatal(err)
	}
	if len(services) != 4 {
		t.Errorf("services = %+v", services)
	}

	_, env = do(t, app, http.MethodGet, "/api/time-slots", "", nil)
	var slots []string
	json.Unmarshal(env.Data, &slots)
	if len(slots) != 24 {
		t.Errorf("slots = %d", len(slots))
	}

	_, env = do(t, app, http.MethodGet, "/api/addresses?q=broadway", "", nil)
	var addresses []string
	json.Unmarshal(env.Data, &addresses)
	if len(addresses) != 1 {
		t.Errorf("addresses = %v", addresses)
	}

	if rec, _ := do(t, app, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
}

func TestDraftFlowAsGuest(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodPost, "/api/drafts", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start = %d %s", rec.Code, rec.Body)
	}
	var draft struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	json.Unmarshal(env.Data, &draft)
	base := "/api/drafts/" + draft.ID

	do(t, app, http.MethodPost, base+"/services/2", "", nil)
	do(t, app, http.MethodPost, base+"/services/3", "", nil)

	rec, env = do(t, app, http.MethodPut, base+"/telephone", "", map[string]string{"telephone": "555123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("telephone = %d", rec.Code)
	}

	rec, env = do(t, app, http.MethodPost, base+"/submit", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid submit = %d", rec.Code)
	}
	var failures []usecase.FieldError
	json.Unmarshal(env.Errors, &failures)
	if len(failures) == 0 || failures[0].Field != usecase.FieldAddress {
		t.Errorf("failures = %+v", failures)
	}

	if rec, _ := do(t, app, http.MethodPut, base+"/time", "", map[string]string{"time": "21:00"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad slot = %d", rec.Code)
	}
	yesterday := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	if rec, _ := do(t, app, http.MethodPut, base+"/date", "", map[string]string{"date": yesterday}); rec.Code != http.StatusBadRequest {
		t.Errorf("past date = %d", rec.Code)
	}

	do(t, app, http.MethodPut, base+"/telephone", "", map[string]string{"telephone": "555-123-4567"})
	do(t, app, http.MethodPut, base+"/address", "", map[string]string{"address": "789 Broadway, New York, NY 10003"})
	do(t, app, http.MethodPut, base+"/email", "", map[string]string{"email": "guest@example.com"})

	_, env = do(t, app, http.MethodGet, base+"/validation", "", nil)
	var validation struct {
		Valid bool `json:"valid"`
	}
	json.Unmarshal(env.Data, &validation)
	if !validation.Valid {
		t.Fatalf("validation = %s", env.Data)
	}

	rec, env = do(t, app, http.MethodPost, base+"/submit", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body)
	}
	var booking struct {
		ID           string `json:"id"`
		ServiceNames string `json:"serviceNames"`
		Amount       string `json:"amount"`
		Status       string `json:"status"`
		OwnerID      string `json:"ownerId"`
	}
	json.Unmarshal(env.Data, &booking)
	if booking.ServiceNames != "Walking, Sitting" || booking.Amount != "100" || booking.Status != "pending" || booking.OwnerID != entity.GuestPartition {
		t.Errorf("booking = %+v", booking)
	}

	if rec, _ := do(t, app, http.MethodPost, base+"/submit", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("resubmit = %d", rec.Code)
	}

	rec, env = do(t, app, http.MethodGet, "/api/bookings", "", nil)
	var page struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	json.Unmarshal(env.Data, &page)
	if rec.Code != http.StatusOK || page.Pagination.Total != 1 {
		t.Errorf("list = %d %s", rec.Code, env.Data)
	}

	if rec, _ := do(t, app, http.MethodDelete, "/api/bookings/"+booking.ID, "", nil); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec, _ := do(t, app, http.MethodDelete, "/api/bookings/"+booking.ID, "", nil); rec.Code != http.StatusOK {
		t.Errorf("delete absent = %d", rec.Code)
	}
	if rec, _ := do(t, app, http.MethodGet, "/api/bookings/"+booking.ID, "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", rec.Code)
	}
}

func TestAuthAndOwnership(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "owner@example.com", "password": "secret1", "name": "Owner",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign up = %d %s", rec.Code, rec.Body)
	}
	var auth struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &auth)

	if rec, _ := do(t, app, http.MethodPost, "/api/auth/sign-up", "", map[string]string{"email": "owner@example.com", "password": "secret1"}); rec.Code != http.StatusConflict {
		t.Errorf("duplicate sign up = %d", rec.Code)
	}
	if rec, _ := do(t, app, http.MethodPost, "/api/auth/sign-in", "", map[string]string{"email": "owner@example.com", "password": "nope123"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad sign in = %d", rec.Code)
	}

	if rec, _ := do(t, app, http.MethodGet, "/api/user/profile", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous profile = %d", rec.Code)
	}
	rec, env = do(t, app, http.MethodGet, "/api/user/profile", auth.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile = %d", rec.Code)
	}

	rec, _ = do(t, app, http.MethodPost, "/api/bookings", auth.Token, map[string]any{
		"serviceIds": []int{1},
		"address":    "1 Main St",
		"telephone":  "5551234567",
		"email":      "owner@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking = %d %s", rec.Code, rec.Body)
	}

	_, env = do(t, app, http.MethodGet, "/api/bookings", "", nil)
	var guestPage struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	json.Unmarshal(env.Data, &guestPage)
	if guestPage.Pagination.Total != 0 {
		t.Errorf("guest sees %d bookings", guestPage.Pagination.Total)
	}

	if rec, _ := do(t, app, http.MethodGet, "/api/bookings", "not-a-token", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d", rec.Code)
	}

	if rec, _ := do(t, app, http.MethodPost, "/api/auth/sign-out", auth.Token, nil); rec.Code != http.StatusOK {
		t.Errorf("sign out = %d", rec.Code)
	}
	if rec, _ := do(t, app, http.MethodGet, "/api/user/profile", auth.Token, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("profile after sign out = %d", rec.Code)
	}
}

func TestPetRoutes(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodPost, "/api/pets", "", map[string]any{
		"name": "Rex", "type": "Dog", "breed": "Beagle", "age": 3, "gender": "Male", "weight": 11.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pet = %d %s", rec.Code, rec.Body)
	}
	var pet struct {
		ID      string `json:"id"`
		OwnerID string `json:"ownerId"`
	}
	json.Unmarshal(env.Data, &pet)
	if pet.OwnerID != entity.GuestPartition {
		t.Errorf("owner = %q", pet.OwnerID)
	}

	if rec, _ := do(t, app, http.MethodPost, "/api/pets", "", map[string]any{"name": "Rex", "type": "Fish"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid pet = %d", rec.Code)
	}

	if rec, _ := do(t, app, http.MethodGet, "/api/pets/"+pet.ID, "", nil); rec.Code != http.StatusOK {
		t.Errorf("get pet = %d", rec.Code)
	}
	if rec, _ := do(t, app, http.MethodDelete, "/api/pets/"+pet.ID, "", nil); rec.Code != http.StatusOK {
		t.Errorf("delete pet = %d", rec.Code)
	}
	if rec, _ := do(t, app, http.MethodGet, "/api/pets/"+pet.ID, "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted pet = %d", rec.Code)
	}
}

func TestPaymentRelayWithoutStripe(t *testing.T) {
	app := newTestApp(t)

	rec, _ := do(t, app, http.MethodPost, "/api/create-payment-intent", "", map[string]any{"amount": 0})
	if rec.Code != http.StatusBadRequest || !bytes.Contains(rec.Body.Bytes(), []byte(`"error":"Invalid amount"`)) {
		t.Errorf("zero amount = %d %s", rec.Code, rec.Body)
	}

	rec, _ = do(t, app, http.MethodPost, "/api/create-payment-intent", "", map[string]any{"amount": 25})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled gateway = %d", rec.Code)
	}

	rec, _ = do(t, app, http.MethodPost, "/api/confirm-payment", "", map[string]any{})
	if rec.Code != http.StatusBadRequest || !bytes.Contains(rec.Body.Bytes(), []byte("PaymentIntent ID required")) {
		t.Errorf("confirm without id = %d %s", rec.Code, rec.Body)
	}

	rec, _ = do(t, app, http.MethodPost, "/api/webhook", "", map[string]any{
		"id": "evt_1", "type": "payment_intent.payment_failed", "object": "event",
		"data": map[string]any{"object": map[string]any{"id": "pi_1", "object": "payment_intent"}},
	})
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"received":true`)) {
		t.Errorf("webhook = %d %s", rec.Code, rec.Body)
	}
}

func TestUnsignedWebhookLeavesBookingPending(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodPost, "/api/bookings", "", map[string]any{
		"serviceIds": []int{1},
		"address":    "1 Main St",
		"telephone":  "5551234567",
		"email":      "guest@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking = %d %s", rec.Code, rec.Body)
	}
	var booking struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	json.Unmarshal(env.Data, &booking)

	rec, _ = do(t, app, http.MethodPost, "/api/webhook", "", map[string]any{
		"type": "payment_intent.succeeded",
		"data": map[string]any{"object": map[string]any{"metadata": map[string]string{"bookingId": booking.ID}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook = %d %s", rec.Code, rec.Body)
	}

	_, env = do(t, app, http.MethodGet, "/api/bookings/"+booking.ID, "", nil)
	json.Unmarshal(env.Data, &booking)
	if booking.Status != "pending" {
		t.Errorf("status = %q after unsigned webhook, want pending", booking.Status)
	}
}
