package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bkhost/internal/availability/service"
	"bkhost/internal/availability/validator"
	"bkhost/internal/scheduling"
	"bkhost/pkg/auth"
	"bkhost/pkg/config"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAvailabilityService struct {
	monthFunc func(ctx context.Context, month, now time.Time) (*service.MonthView, error)
	saveFunc  func(ctx context.Context, identity model.Identity, dates []time.Time, now time.Time, confirm service.ConfirmFunc) (*service.SaveResult, error)
}

func (m *mockAvailabilityService) Month(ctx context.Context, month, now time.Time) (*service.MonthView, error) {
	if m.monthFunc != nil {
		return m.monthFunc(ctx, month, now)
	}
	return &service.MonthView{}, nil
}

func (m *mockAvailabilityService) DaySlots(ctx context.Context, day time.Time) (*service.DaySlotsView, error) {
	return &service.DaySlotsView{}, nil
}

func (m *mockAvailabilityService) Save(ctx context.Context, identity model.Identity, dates []time.Time, now time.Time, confirm service.ConfirmFunc) (*service.SaveResult, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, identity, dates, now, confirm)
	}
	return &service.SaveResult{}, nil
}

type staticResolver struct {
	identity model.Identity
}

func (s staticResolver) ResolveIdentity(context.Context, string) (model.Identity, error) {
	return s.identity, nil
}

var admin = model.Identity{UID: "u1", Email: "admin@shop.nl", DisplayName: "Ada", Role: model.RoleAdmin, Status: model.StatusApproved}

func newTestHandler(t *testing.T, svc service.AvailabilityService, resolved model.Identity) (*AvailabilityHandler, *auth.TokenManager) {
	t.Helper()
	cal, err := scheduling.NewCalendar(config.DefaultCalendar())
	require.NoError(t, err)

	log := logger.Discard()
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, "bkhost")
	authenticator := middleware.NewAuthenticator(tokens, auth.NewMemoryDenylist(), staticResolver{identity: resolved}, log)

	h := NewAvailabilityHandler(svc, validator.NewAvailabilityValidator(log), cal, authenticator, log)
	h.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, cal.Location) }
	return h, tokens
}

func withIdentity(r *http.Request, identity model.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), identity))
}

func TestSave_ConfirmationFromRequest(t *testing.T) {
	var gotDates []time.Time
	var confirmedJune2, confirmedJune4 bool
	svc := &mockAvailabilityService{
		saveFunc: func(_ context.Context, identity model.Identity, dates []time.Time, _ time.Time, confirm service.ConfirmFunc) (*service.SaveResult, error) {
			assert.Equal(t, admin.UID, identity.UID)
			gotDates = dates
			confirmedJune2 = confirm("2025-06-02", 2)
			confirmedJune4 = confirm("2025-06-04", 1)
			return &service.SaveResult{}, nil
		},
	}
	h, _ := newTestHandler(t, svc, admin)

	body := `{"dates":["2025-06-02"," 2025-06-04","2025-06-02"],"confirmed":["2025-06-02"]}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/availability/save", bytes.NewBufferString(body)), admin)
	w := httptest.NewRecorder()

	h.Save(w, req, httprouter.Params{})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, gotDates, 2)
	assert.Equal(t, "2025-06-02", gotDates[0].Format("2006-01-02"))
	assert.Equal(t, "2025-06-04", gotDates[1].Format("2006-01-02"))
	assert.True(t, confirmedJune2)
	assert.False(t, confirmedJune4)
}

func TestSave_ConfirmationRequiredResponse(t *testing.T) {
	svc := &mockAvailabilityService{
		saveFunc: func(context.Context, model.Identity, []time.Time, time.Time, service.ConfirmFunc) (*service.SaveResult, error) {
			return nil, apperrors.ConfirmationRequired("confirm", map[string]any{"2025-06-02": int64(2)})
		},
	}
	h, _ := newTestHandler(t, svc, admin)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/availability/save", bytes.NewBufferString(`{"dates":["2025-06-02"]}`)), admin)
	w := httptest.NewRecorder()

	h.Save(w, req, httprouter.Params{})

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeConfirmationRequired, resp.Code)
	assert.Equal(t, float64(2), resp.Details["2025-06-02"])
}

func TestSave_InvalidRequests(t *testing.T) {
	called := false
	svc := &mockAvailabilityService{
		saveFunc: func(context.Context, model.Identity, []time.Time, time.Time, service.ConfirmFunc) (*service.SaveResult, error) {
			called = true
			return &service.SaveResult{}, nil
		},
	}
	h, _ := newTestHandler(t, svc, admin)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"days":["2025-06-02"]}`, wantStatus: http.StatusBadRequest},
		{name: "no dates", body: `{"dates":[]}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad date format", body: `{"dates":["02-06-2025"]}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/availability/save", bytes.NewBufferString(tt.body)), admin)
			w := httptest.NewRecorder()

			h.Save(w, req, httprouter.Params{})

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
	assert.False(t, called)
}

func TestMonth_DefaultsToCurrentMonth(t *testing.T) {
	var got time.Time
	svc := &mockAvailabilityService{
		monthFunc: func(_ context.Context, month, _ time.Time) (*service.MonthView, error) {
			got = month
			return &service.MonthView{Month: "2025-06"}, nil
		},
	}
	h, _ := newTestHandler(t, svc, admin)

	w := httptest.NewRecorder()
	h.Month(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability/month", nil), httprouter.Params{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.June, got.Month())

	w = httptest.NewRecorder()
	h.Month(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability/month?month=2025-13", nil), httprouter.Params{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRoutes_AdminOnly(t *testing.T) {
	host := model.Identity{UID: "u2", Email: "host@shop.nl", Role: model.RoleHost, Status: model.StatusApproved}

	tests := []struct {
		name       string
		resolved   model.Identity
		withToken  bool
		wantStatus int
	}{
		{name: "no token", resolved: admin, withToken: false, wantStatus: http.StatusUnauthorized},
		{name: "host", resolved: host, withToken: true, wantStatus: http.StatusForbidden},
		{name: "admin", resolved: admin, withToken: true, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, tokens := newTestHandler(t, &mockAvailabilityService{}, tt.resolved)
			router := httprouter.New()
			h.RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/availability/month?month=2025-06", nil)
			if tt.withToken {
				issued, err := tokens.Issue(tt.resolved.UID, tt.resolved.Email)
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+issued.Token)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
