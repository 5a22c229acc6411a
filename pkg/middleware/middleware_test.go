package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/usecase"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

type fakeAuth struct {
	tokens map[string]*entity.Identity
	err    error
}

func (f fakeAuth) CurrentUser(_ context.Context, token string) (*entity.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, usecase.ErrUnauthenticated
	}
	return id, nil
}

// whoami echoes the user id placed on the context, or "guest".
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		id = "guest"
	}
	w.Write([]byte(id))
})

func TestSessionMiddleware(t *testing.T) {
	auth := fakeAuth{tokens: map[string]*entity.Identity{"tok": {UserID: "user_1", Email: "a@b.co"}}}

	tests := []struct {
		name     string
		required bool
		header   string
		wantCode int
		wantBody string
	}{
		{"optional anonymous", false, "", http.StatusOK, "guest"},
		{"optional valid", false, "Bearer tok", http.StatusOK, "user_1"},
		{"optional lowercase scheme", false, "bearer tok", http.StatusOK, "user_1"},
		{"optional bad token", false, "Bearer nope", http.StatusUnauthorized, ""},
		{"optional malformed", false, "Token tok", http.StatusUnauthorized, ""},
		{"required anonymous", true, "", http.StatusUnauthorized, ""},
		{"required valid", true, "Bearer tok", http.StatusOK, "user_1"},
		{"required empty token", true, "Bearer ", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := OptionalSession(auth, zap.NewNop())
			if tt.required {
				mw = AuthSession(auth, zap.NewNop())
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw(whoami).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSessionMiddlewareStoreError(t *testing.T) {
	mw := AuthSession(fakeAuth{err: errors.New("store down")}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	mw(whoami).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(utils.RateLimitConfig{RPS: 0.001, Burst: 2}, zap.NewNop())
	h := rl.Handler(whoami)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("second client = %d", rec.Code)
	}

	disabled := NewRateLimiter(utils.RateLimitConfig{}, zap.NewNop()).Handler(whoami)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter returned %d", rec.Code)
		}
	}
}
