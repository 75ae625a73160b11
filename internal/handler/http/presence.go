package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/presence"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PresenceHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
}

type presenceHandlerImpl struct {
	presenceService presence.PresenceService
}

func NewPresenceHandler(presenceService presence.PresenceService) PresenceHandler {
	return &presenceHandlerImpl{
		presenceService: presenceService,
	}
}

// Report implements PresenceHandler.
func (h *presenceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	var req presence.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode presence report", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.Source == "" {
		req.Source = "mobile_scanner"
	}

	result, err := h.presenceService.ReportPresence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Presence reported successfully", result)
}

// GetStatus implements PresenceHandler.
func (h *presenceHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	employeeCode := chi.URLParam(r, "employeeCode")

	status, err := h.presenceService.GetPresenceStatus(r.Context(), employeeCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}
