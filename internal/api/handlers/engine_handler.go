package handlers

import (
	"net/http"

	api "citysync-v0/internal/api/application"
)

// EngineHandler handles poller and cache control
type EngineHandler struct {
	service *api.EngineService
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(service *api.EngineService) *EngineHandler {
	return &EngineHandler{
		service: service,
	}
}

// GetStatus handles GET /api/v1/status
// @Summary      Engine status
// @Description  Get poller state and cache statistics
// @Tags         engine
// @Accept       json
// @Produce      json
// @Success      200  {object}  application.StatusResponse
// @Security     ApiKeyAuth
// @Router       /status [get]
func (h *EngineHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// Refresh handles POST /api/v1/refresh
// @Summary      Run a sync cycle now
// @Description  Trigger an immediate sync cycle outside the polling cadence
// @Tags         engine
// @Accept       json
// @Produce      json
// @Success      200  {object}  application.StatusResponse
// @Failure      409  {object}  application.ErrorResponse
// @Failure      502  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /refresh [post]
func (h *EngineHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	if err := h.service.Refresh(r.Context()); err != nil {
		if api.IsCycleInFlight(err) {
			respondJSONError(w, http.StatusConflict, "A sync cycle is already in flight")
			return
		}
		logger.Warn("Manual refresh failed", "err", err)
		respondJSONError(w, http.StatusBadGateway, "Refresh failed: "+err.Error())
		return
	}

	logger.Info("Manual refresh completed")
	respondJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// ClearCache handles POST /api/v1/cache/clear
// @Summary      Clear the cache
// @Description  Drop all cached buildings, footprints and identity mappings; the journal is kept
// @Tags         engine
// @Accept       json
// @Produce      json
// @Success      200  {object}  application.StatusResponse
// @Security     ApiKeyAuth
// @Router       /cache/clear [post]
func (h *EngineHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	h.service.ClearCache(r.Context())

	logger.Info("Cache cleared")
	respondJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// StartPoller handles POST /api/v1/poller/start
// @Summary      Start the poller
// @Description  Start the polling loop; a running poller is left untouched
// @Tags         engine
// @Accept       json
// @Produce      json
// @Success      200  {object}  application.StatusResponse
// @Security     ApiKeyAuth
// @Router       /poller/start [post]
func (h *EngineHandler) StartPoller(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	h.service.StartPoller(r.Context())

	logger.Info("Poller started via API")
	respondJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// StopPoller handles POST /api/v1/poller/stop
// @Summary      Stop the poller
// @Description  Stop the polling loop; a cycle in flight is discarded
// @Tags         engine
// @Accept       json
// @Produce      json
// @Success      200  {object}  application.StatusResponse
// @Failure      500  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /poller/stop [post]
func (h *EngineHandler) StopPoller(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	if err := h.service.StopPoller(r.Context()); err != nil {
		logger.Error("Failed to stop poller", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to stop poller: "+err.Error())
		return
	}

	logger.Info("Poller stopped via API")
	respondJSON(w, http.StatusOK, h.service.Status(r.Context()))
}
