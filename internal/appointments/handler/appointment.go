package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"bkhost/internal/appointments/service"
	"bkhost/internal/scheduling"
	apperrors "bkhost/pkg/errors"
	httputil "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
)

type transitionRequest struct {
	Action string `json:"action"`
}

type AppointmentHandler struct {
	service  service.AppointmentService
	calendar *scheduling.Calendar
	auth     *middleware.Authenticator
	log      *logger.Logger
	now      func() time.Time
}

func NewAppointmentHandler(service service.AppointmentService, calendar *scheduling.Calendar, auth *middleware.Authenticator, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service:  service,
		calendar: calendar,
		auth:     auth,
		log:      log,
		now:      time.Now,
	}
}

func (h *AppointmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AppointmentHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.QueryDate(r, "date", h.calendar.Location, h.now())
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	dashboard, err := h.service.Day(r.Context(), day)
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	if err := httputil.WriteSuccess(w, dashboard); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "GetByID", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	view, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Transition", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var req transitionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	action, err := scheduling.ParseAction(req.Action)
	if err != nil || action == scheduling.ActionDelete {
		h.writeError(w, "Transition", apperrors.InvalidInput("Unknown status action: "+req.Action))
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	view, err := h.service.Transition(r.Context(), identity, id, action)
	if err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Transition", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Delete", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	confirmed := false
	if raw := r.URL.Query().Get("confirm"); raw != "" {
		var err error
		confirmed, err = strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, "Delete", apperrors.InvalidInput("invalid confirm parameter: "+raw))
			return
		}
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.service.Delete(r.Context(), identity, id, confirmed); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	staff := h.auth.Approved()
	router.GET("/api/v1/dashboard", staff(h.Dashboard))
	router.GET("/api/v1/appointments/id/:id", staff(h.GetByID))
	router.POST("/api/v1/appointments/id/:id/status", staff(h.Transition))
	router.DELETE("/api/v1/appointments/id/:id", staff(h.Delete))
}
