package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bkhost/internal/scheduling"
	"bkhost/internal/shifts/service"
	"bkhost/internal/shifts/validator"
	"bkhost/pkg/auth"
	"bkhost/pkg/config"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockShiftService struct {
	monthFunc func(ctx context.Context, identity model.Identity, month, now time.Time) (*service.MonthView, error)
	saveFunc  func(ctx context.Context, identity model.Identity, add, remove []time.Time, now time.Time) (*service.SaveResult, error)
}

func (m *mockShiftService) Month(ctx context.Context, identity model.Identity, month, now time.Time) (*service.MonthView, error) {
	if m.monthFunc != nil {
		return m.monthFunc(ctx, identity, month, now)
	}
	return &service.MonthView{}, nil
}

func (m *mockShiftService) Save(ctx context.Context, identity model.Identity, add, remove []time.Time, now time.Time) (*service.SaveResult, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, identity, add, remove, now)
	}
	return &service.SaveResult{}, nil
}

func (m *mockShiftService) Seed(context.Context, time.Time, time.Time) (*service.SeedResult, error) {
	return &service.SeedResult{}, nil
}

type staticResolver struct {
	identity model.Identity
}

func (s staticResolver) ResolveIdentity(context.Context, string) (model.Identity, error) {
	return s.identity, nil
}

var host = model.Identity{UID: "u1", Email: "sam@shop.nl", DisplayName: "Sam", Role: model.RoleHost, Status: model.StatusApproved}

func newTestHandler(t *testing.T, svc service.ShiftService, resolved model.Identity) (*ShiftHandler, *auth.TokenManager) {
	t.Helper()
	cal, err := scheduling.NewCalendar(config.DefaultCalendar())
	require.NoError(t, err)

	log := logger.Discard()
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, "bkhost")
	authenticator := middleware.NewAuthenticator(tokens, auth.NewMemoryDenylist(), staticResolver{identity: resolved}, log)

	h := NewShiftHandler(svc, validator.NewShiftValidator(log), cal, authenticator, log)
	h.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, cal.Location) }
	return h, tokens
}

func serve(h httprouter.Handle, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), host))
	w := httptest.NewRecorder()
	h(w, req, nil)
	return w
}

func TestMonth_PassesIdentity(t *testing.T) {
	var gotIdentity model.Identity
	var gotMonth time.Time
	h, _ := newTestHandler(t, &mockShiftService{monthFunc: func(_ context.Context, identity model.Identity, month, _ time.Time) (*service.MonthView, error) {
		gotIdentity, gotMonth = identity, month
		return &service.MonthView{Month: "2025-07"}, nil
	}}, host)

	w := serve(h.Month, http.MethodGet, "/api/v1/shifts/month?month=2025-07", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, host.Email, gotIdentity.Email)
	assert.Equal(t, time.July, gotMonth.Month())
}

func TestSave(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAdd    int
		wantRemove int
	}{
		{name: "add and remove", body: `{"add":["2025-06-04"," 2025-06-05 "],"remove":["2025-06-11"]}`, wantStatus: http.StatusOK, wantAdd: 2, wantRemove: 1},
		{name: "duplicates collapse", body: `{"add":["2025-06-04","2025-06-04"]}`, wantStatus: http.StatusOK, wantAdd: 1},
		{name: "bad date", body: `{"add":["04-06-2025"]}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown field", body: `{"dates":["2025-06-04"]}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var add, remove []time.Time
			h, _ := newTestHandler(t, &mockShiftService{saveFunc: func(_ context.Context, _ model.Identity, a, r []time.Time, _ time.Time) (*service.SaveResult, error) {
				add, remove = a, r
				return &service.SaveResult{}, nil
			}}, host)

			w := serve(h.Save, http.MethodPost, "/api/v1/shifts/save", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Len(t, add, tt.wantAdd)
			assert.Len(t, remove, tt.wantRemove)
		})
	}
}

func TestRegisterRoutes_AnyApprovedStaff(t *testing.T) {
	tests := []struct {
		name       string
		resolved   model.Identity
		wantStatus int
	}{
		{name: "host", resolved: host, wantStatus: http.StatusOK},
		{name: "awaiting approval", resolved: model.Identity{UID: "u2", Email: "new@shop.nl", Role: model.RoleUnset, Status: model.StatusAwaitingApproval}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, tokens := newTestHandler(t, &mockShiftService{}, tt.resolved)
			router := httprouter.New()
			h.RegisterRoutes(router)

			issued, err := tokens.Issue(tt.resolved.UID, tt.resolved.Email)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/shifts/month", nil)
			req.Header.Set("Authorization", "Bearer "+issued.Token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
