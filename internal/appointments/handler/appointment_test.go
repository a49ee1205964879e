package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bkhost/internal/appointments/service"
	"bkhost/internal/scheduling"
	"bkhost/pkg/config"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAppointmentService struct {
	dayFunc        func(ctx context.Context, day time.Time) (*service.Dashboard, error)
	transitionFunc func(ctx context.Context, identity model.Identity, id string, action scheduling.Action) (*service.AppointmentView, error)
	deleteFunc     func(ctx context.Context, identity model.Identity, id string, confirmed bool) error
}

func (m *mockAppointmentService) Day(ctx context.Context, day time.Time) (*service.Dashboard, error) {
	if m.dayFunc != nil {
		return m.dayFunc(ctx, day)
	}
	return &service.Dashboard{}, nil
}

func (m *mockAppointmentService) GetByID(ctx context.Context, id string) (*service.AppointmentView, error) {
	return &service.AppointmentView{}, nil
}

func (m *mockAppointmentService) Transition(ctx context.Context, identity model.Identity, id string, action scheduling.Action) (*service.AppointmentView, error) {
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, identity, id, action)
	}
	return &service.AppointmentView{}, nil
}

func (m *mockAppointmentService) Delete(ctx context.Context, identity model.Identity, id string, confirmed bool) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, identity, id, confirmed)
	}
	return nil
}

var staff = model.Identity{UID: "u1", Email: "sam@shop.nl", Role: model.RoleHost, Status: model.StatusApproved}

func newTestHandler(t *testing.T, svc service.AppointmentService) *AppointmentHandler {
	t.Helper()
	cal, err := scheduling.NewCalendar(config.DefaultCalendar())
	require.NoError(t, err)
	h := &AppointmentHandler{service: svc, calendar: cal, log: logger.Discard(), now: func() time.Time {
		return time.Date(2025, 6, 2, 12, 0, 0, 0, cal.Location)
	}}
	return h
}

func serve(h httprouter.Handle, method, target, body string, ps httprouter.Params) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), staff))
	w := httptest.NewRecorder()
	h(w, req, ps)
	return w
}

func TestDashboard_Date(t *testing.T) {
	var got time.Time
	h := newTestHandler(t, &mockAppointmentService{dayFunc: func(_ context.Context, day time.Time) (*service.Dashboard, error) {
		got = day
		return &service.Dashboard{Date: "2025-06-04"}, nil
	}})

	w := serve(h.Dashboard, http.MethodGet, "/api/v1/dashboard?date=2025-06-04", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-06-04", got.Format("2006-01-02"))

	w = serve(h.Dashboard, http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-06-02", got.Format("2006-01-02"))

	w = serve(h.Dashboard, http.MethodGet, "/api/v1/dashboard?date=tomorrow", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransition_Actions(t *testing.T) {
	var gotAction scheduling.Action
	h := newTestHandler(t, &mockAppointmentService{transitionFunc: func(_ context.Context, identity model.Identity, id string, action scheduling.Action) (*service.AppointmentView, error) {
		assert.Equal(t, staff.Email, identity.Email)
		assert.Equal(t, "a1", id)
		gotAction = action
		return &service.AppointmentView{}, nil
	}})
	ps := httprouter.Params{{Key: "id", Value: "a1"}}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAction scheduling.Action
	}{
		{name: "mark paid", body: `{"action":"mark_paid"}`, wantStatus: http.StatusOK, wantAction: scheduling.ActionMarkPaid},
		{name: "undo", body: `{"action":"undo"}`, wantStatus: http.StatusOK, wantAction: scheduling.ActionUndo},
		{name: "delete is not a status", body: `{"action":"delete"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown", body: `{"action":"refund"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"action":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAction = ""
			w := serve(h.Transition, http.MethodPost, "/api/v1/appointments/id/a1/status", tt.body, ps)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAction, gotAction)
		})
	}
}

func TestDelete_ConfirmParameter(t *testing.T) {
	var gotConfirmed *bool
	h := newTestHandler(t, &mockAppointmentService{deleteFunc: func(_ context.Context, _ model.Identity, _ string, confirmed bool) error {
		gotConfirmed = &confirmed
		return nil
	}})
	ps := httprouter.Params{{Key: "id", Value: "a1"}}

	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantConfirmed *bool
	}{
		{name: "confirmed", query: "?confirm=true", wantStatus: http.StatusNoContent, wantConfirmed: ptr(true)},
		{name: "missing", query: "", wantStatus: http.StatusNoContent, wantConfirmed: ptr(false)},
		{name: "garbage", query: "?confirm=yesplease", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotConfirmed = nil
			w := serve(h.Delete, http.MethodDelete, "/api/v1/appointments/id/a1"+tt.query, "", ps)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantConfirmed, gotConfirmed)
		})
	}
}

func ptr(b bool) *bool { return &b }
