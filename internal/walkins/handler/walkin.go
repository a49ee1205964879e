package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"bkhost/internal/scheduling"
	"bkhost/internal/walkins/service"
	apperrors "bkhost/pkg/errors"
	httputil "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"
)

type WalkInHandler struct {
	service  service.WalkInService
	calendar *scheduling.Calendar
	auth     *middleware.Authenticator
	log      *logger.Logger
	now      func() time.Time
}

func NewWalkInHandler(service service.WalkInService, calendar *scheduling.Calendar, auth *middleware.Authenticator, log *logger.Logger) *WalkInHandler {
	return &WalkInHandler{
		service:  service,
		calendar: calendar,
		auth:     auth,
		log:      log,
		now:      time.Now,
	}
}

func (h *WalkInHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *WalkInHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.WalkInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	walkIn, err := h.service.Create(r.Context(), identity, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, walkIn); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *WalkInHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.QueryDate(r, "date", h.calendar.Location, h.now())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	from, to := h.calendar.DayBounds(day)
	walkIns, err := h.service.ListBetween(r.Context(), from, to)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, walkIns); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WalkInHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Update", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var updates model.WalkInUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	walkIn, err := h.service.Update(r.Context(), identity, id, &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, walkIn); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WalkInHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Delete", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *WalkInHandler) RegisterRoutes(router *httprouter.Router) {
	staff := h.auth.Approved()
	router.POST("/api/v1/walk-ins", staff(h.Create))
	router.GET("/api/v1/walk-ins", staff(h.List))
	router.PATCH("/api/v1/walk-ins/id/:id", staff(h.Update))
	router.DELETE("/api/v1/walk-ins/id/:id", staff(h.Delete))
}
