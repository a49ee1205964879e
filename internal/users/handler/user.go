package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bkhost/internal/users/service"
	apperrors "bkhost/pkg/errors"
	httputil "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"
)

type UserHandler struct {
	service service.UserService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, auth *middleware.Authenticator, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SignUpRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SignUp", err)
		return
	}

	session, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		h.writeError(w, "SignUp", err)
		return
	}

	if err := httputil.WriteCreated(w, session); err != nil {
		h.log.Error("failed to write created response", "handler", "SignUp", "operation", "WriteCreated", "error", err)
	}
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SignInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SignIn", err)
		return
	}

	session, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		h.writeError(w, "SignIn", err)
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "SignIn", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) SignOut(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		h.writeError(w, "SignOut", apperrors.Unauthorized("Missing session"))
		return
	}

	if err := h.service.SignOut(r.Context(), claims); err != nil {
		h.writeError(w, "SignOut", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFrom(r.Context())
	profile, err := h.service.GetProfile(r.Context(), identity)
	if err != nil {
		h.writeError(w, "GetProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetProfile", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.ProfileUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	profile, err := h.service.UpdateProfile(r.Context(), identity, &update)
	if err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateProfile", "operation", "WriteSuccess", "error", err)
	}
}

// RegisterRoutes leaves profile routes open to accounts awaiting approval so
// new staff can fill in their name and role.
func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signup", h.SignUp)
	router.POST("/api/v1/auth/signin", h.SignIn)
	router.POST("/api/v1/auth/signout", h.auth.Authenticated(h.SignOut))
	router.GET("/api/v1/profile", h.auth.Authenticated(h.GetProfile))
	router.PUT("/api/v1/profile", h.auth.Authenticated(h.UpdateProfile))
}
