package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"bkhost/internal/scheduling"
	"bkhost/internal/shifts/service"
	"bkhost/internal/shifts/validator"
	apperrors "bkhost/pkg/errors"
	httputil "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/sanitizer"
	"bkhost/pkg/validation"
)

type ShiftHandler struct {
	service   service.ShiftService
	validator *validator.ShiftValidator
	calendar  *scheduling.Calendar
	auth      *middleware.Authenticator
	log       *logger.Logger
	now       func() time.Time
}

func NewShiftHandler(
	service service.ShiftService,
	validator *validator.ShiftValidator,
	calendar *scheduling.Calendar,
	auth *middleware.Authenticator,
	log *logger.Logger,
) *ShiftHandler {
	return &ShiftHandler{
		service:   service,
		validator: validator,
		calendar:  calendar,
		auth:      auth,
		log:       log,
		now:       time.Now,
	}
}

func (h *ShiftHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ShiftHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	now := h.now()
	month, err := httputil.QueryMonth(r, "month", h.calendar.Location, now)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	view, err := h.service.Month(r.Context(), identity, month, now)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Month", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ShiftHandler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.SaveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Save", err)
		return
	}

	req.Add = sanitizer.NormalizeDates(req.Add)
	req.Remove = sanitizer.NormalizeDates(req.Remove)
	if err := h.validator.ValidateSave(&req); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			h.writeError(w, "Save", apperrors.Validation("Shift request is invalid", verrs.Details()))
			return
		}
		h.writeError(w, "Save", apperrors.InvalidInput(err.Error()))
		return
	}

	add, err := httputil.ParseDates(req.Add, h.calendar.Location)
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}
	remove, err := httputil.ParseDates(req.Remove, h.calendar.Location)
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	result, err := h.service.Save(r.Context(), identity, add, remove, h.now())
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Save", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ShiftHandler) RegisterRoutes(router *httprouter.Router) {
	staff := h.auth.Approved()
	router.GET("/api/v1/shifts/month", staff(h.Month))
	router.POST("/api/v1/shifts/save", staff(h.Save))
}
