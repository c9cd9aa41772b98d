package handlers

import (
	"net/http"
	"strconv"
	"time"

	api "citysync-v0/internal/api/application"
)

// JournalHandler handles sync history queries
type JournalHandler struct {
	service *api.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(service *api.JournalService) *JournalHandler {
	return &JournalHandler{
		service: service,
	}
}

// ListChanges handles GET /api/v1/changes
// @Summary      List journaled changes
// @Description  Get classified changes with optional filtering
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        key     query     string  false  "Filter by building key"
// @Param        kind    query     string  false  "Filter by change kind (new, attribute_changed, color_changed, removed)"
// @Param        from    query     string  false  "Start time (RFC3339)"
// @Param        to      query     string  false  "End time (RFC3339)"
// @Param        limit   query     int     false  "Limit results"
// @Param        offset  query     int     false  "Offset results"
// @Success      200     {array}   application.ChangeResponse
// @Failure      500     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /changes [get]
func (h *JournalHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	req := api.ListChangesRequest{}

	if key := r.URL.Query().Get("key"); key != "" {
		req.Key = &key
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		req.Kind = &kind
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			req.From = &from
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			req.To = &to
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			req.Offset = offset
		}
	}

	changes, err := h.service.ListChanges(r.Context(), req)
	if err != nil {
		logger.Error("Failed to list changes", "err", err, "filters", req)
		respondJSONError(w, http.StatusInternalServerError, "Failed to list changes: "+err.Error())
		return
	}

	logger.Debug("Listed changes", "count", len(changes))
	respondJSON(w, http.StatusOK, changes)
}

// ListCycles handles GET /api/v1/cycles
// @Summary      List sync cycles
// @Description  Get sync cycle summaries with optional filtering
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        mode    query     string  false  "Filter by polling mode (fast, slow)"
// @Param        from    query     string  false  "Start time (RFC3339)"
// @Param        to      query     string  false  "End time (RFC3339)"
// @Param        limit   query     int     false  "Limit results"
// @Param        offset  query     int     false  "Offset results"
// @Success      200     {array}   application.CycleResponse
// @Failure      500     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /cycles [get]
func (h *JournalHandler) ListCycles(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	req := api.ListCyclesRequest{}

	if mode := r.URL.Query().Get("mode"); mode != "" {
		req.Mode = &mode
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			req.From = &from
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			req.To = &to
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			req.Offset = offset
		}
	}

	cycles, err := h.service.ListCycles(r.Context(), req)
	if err != nil {
		logger.Error("Failed to list cycles", "err", err, "filters", req)
		respondJSONError(w, http.StatusInternalServerError, "Failed to list cycles: "+err.Error())
		return
	}

	logger.Debug("Listed cycles", "count", len(cycles))
	respondJSON(w, http.StatusOK, cycles)
}
