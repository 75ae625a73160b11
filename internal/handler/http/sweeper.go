package http

import (
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/service/sweeper"
)

type SweeperHandler interface {
	GetStatus(w http.ResponseWriter, r *http.Request)
	Trigger(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Stop(w http.ResponseWriter, r *http.Request)
}

type sweeperHandlerImpl struct {
	sweeper *sweeper.Sweeper
}

func NewSweeperHandler(s *sweeper.Sweeper) SweeperHandler {
	return &sweeperHandlerImpl{sweeper: s}
}

// GetStatus implements SweeperHandler.
func (h *sweeperHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.sweeper.GetStatus())
}

// Trigger implements SweeperHandler. Runs one sweep synchronously;
// serializes behind any sweep already in flight.
func (h *sweeperHandlerImpl) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.sweeper.RunOnce(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Presence sweep completed", nil)
}

// Start implements SweeperHandler.
func (h *sweeperHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	h.sweeper.Start()
	response.SuccessWithMessage(w, "Presence sweeper started", h.sweeper.GetStatus())
}

// Stop implements SweeperHandler.
func (h *sweeperHandlerImpl) Stop(w http.ResponseWriter, r *http.Request) {
	h.sweeper.Stop()
	response.SuccessWithMessage(w, "Presence sweeper stopped", h.sweeper.GetStatus())
}
