package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bkhost/pkg/client"
	"bkhost/pkg/config"
	"bkhost/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		database   Pinger
		cache      Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "mongo only", database: fakePinger{}, wantStatus: http.StatusOK, wantBody: `"status":"ready"`},
		{name: "mongo and redis", database: fakePinger{}, cache: fakePinger{}, wantStatus: http.StatusOK, wantBody: `"cache":"ok"`},
		{name: "mongo down", database: fakePinger{err: errors.New("no primary")}, wantStatus: http.StatusServiceUnavailable, wantBody: `"database":"error"`},
		{name: "redis down", database: fakePinger{}, cache: fakePinger{err: errors.New("refused")}, wantStatus: http.StatusServiceUnavailable, wantBody: `"cache":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{database: tt.database, cache: tt.cache, log: logger.Discard()}
			w := httptest.NewRecorder()

			h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil), nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signin", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})
	router.GET("/api/v1/dashboard", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowedOrigins: []string{"https://staff.example.org"},
		RateLimitRequests:  1,
		RateLimitWindow:    time.Minute,
		RateLimitBurst:     1,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Minute,
		MaxRequestSize:     1 << 20,
		Log:                logger.Discard(),
		Client:             client.NewClient(),
	}
}

func TestAppHandler_Chain(t *testing.T) {
	a := NewApplication(testConfig())
	a.setAppHandler(pingRoutes{})
	defer a.rateLimiter.Stop()
	defer a.idempotencyStore.Stop()

	signin := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		a.appHandler.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, signin())
	assert.Equal(t, http.StatusTooManyRequests, signin())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		a.appHandler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAppHandler_CORSPreflight(t *testing.T) {
	a := NewApplication(testConfig())
	a.setAppHandler(pingRoutes{})
	defer a.rateLimiter.Stop()
	defer a.idempotencyStore.Stop()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard", nil)
	req.Header.Set("Origin", "https://staff.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	w := httptest.NewRecorder()

	a.appHandler.ServeHTTP(w, req)

	assert.Equal(t, "https://staff.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()

	a.appHandler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
