package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bkhost/internal/export/service"
	httputil "bkhost/pkg/http"
	"bkhost/pkg/logger"
	"bkhost/pkg/middleware"
	"bkhost/pkg/model"
)

const ExportFilename = "data.json"

type ExportHandler struct {
	service service.ExportService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewExportHandler(service service.ExportService, auth *middleware.Authenticator, log *logger.Logger) *ExportHandler {
	return &ExportHandler{service: service, auth: auth, log: log}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFrom(r.Context())
	snapshot, err := h.service.Export(r.Context(), identity)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Export", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteAttachment(w, ExportFilename, snapshot); err != nil {
		h.log.Error("failed to write export", "handler", "Export", "operation", "WriteAttachment", "error", err)
	}
}

func (h *ExportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/export", h.auth.Approved(model.RoleAdmin)(h.Export))
}
