package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"bkhost/internal/availability/service"
	"bkhost/internal/availability/validator"
	"bkhost/internal/scheduling"
	apperrors "bkhost/pkg/errors"
	httputil "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"
	"bkhost/pkg/sanitizer"
	"bkhost/pkg/validation"
)

type AvailabilityHandler struct {
	service   service.AvailabilityService
	validator *validator.AvailabilityValidator
	calendar  *scheduling.Calendar
	auth      *middleware.Authenticator
	log       *logger.Logger
	now       func() time.Time
}

func NewAvailabilityHandler(
	service service.AvailabilityService,
	validator *validator.AvailabilityValidator,
	calendar *scheduling.Calendar,
	auth *middleware.Authenticator,
	log *logger.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		service:   service,
		validator: validator,
		calendar:  calendar,
		auth:      auth,
		log:       log,
		now:       time.Now,
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	now := h.now()
	month, err := httputil.QueryMonth(r, "month", h.calendar.Location, now)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	view, err := h.service.Month(r.Context(), month, now)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Month", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.QueryDate(r, "date", h.calendar.Location, h.now())
	if err != nil {
		h.writeError(w, "Day", err)
		return
	}

	view, err := h.service.DaySlots(r.Context(), day)
	if err != nil {
		h.writeError(w, "Day", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Day", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.SaveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Save", err)
		return
	}

	req.Dates = sanitizer.NormalizeDates(req.Dates)
	req.Confirmed = sanitizer.NormalizeDates(req.Confirmed)
	if err := h.validator.ValidateSave(&req); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			h.writeError(w, "Save", apperrors.Validation("Availability request is invalid", verrs.Details()))
			return
		}
		h.writeError(w, "Save", apperrors.InvalidInput(err.Error()))
		return
	}

	dates, err := httputil.ParseDates(req.Dates, h.calendar.Location)
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}

	confirmed := make(map[string]bool, len(req.Confirmed))
	for _, d := range req.Confirmed {
		confirmed[d] = true
	}
	confirm := func(date string, _ int64) bool { return confirmed[date] }

	identity, _ := middleware.IdentityFrom(r.Context())
	result, err := h.service.Save(r.Context(), identity, dates, h.now(), confirm)
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Save", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	admin := h.auth.Approved(model.RoleAdmin)
	router.GET("/api/v1/availability/month", admin(h.Month))
	router.GET("/api/v1/availability/day", admin(h.Day))
	router.POST("/api/v1/availability/save", admin(h.Save))
}
