package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	api "citysync-v0/internal/api/application"
	enginedomain "citysync-v0/internal/engine/domain"
	"citysync-v0/internal/metrics"
)

// BuildingHandler handles building queries
type BuildingHandler struct {
	service          *api.BuildingService
	defaultTolerance float64
}

// NewBuildingHandler creates a new building handler
func NewBuildingHandler(service *api.BuildingService, defaultTolerance float64) *BuildingHandler {
	return &BuildingHandler{
		service:          service,
		defaultTolerance: defaultTolerance,
	}
}

// ListBuildings handles GET /api/v1/buildings
// @Summary      List cached buildings
// @Description  Get all buildings currently in the cache, ordered by primary key
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        limit   query     int  false  "Limit results"
// @Param        offset  query     int  false  "Offset results"
// @Success      200     {array}   application.BuildingResponse
// @Failure      500     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /buildings [get]
func (h *BuildingHandler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	limit, offset := 0, 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}

	buildings, err := h.service.ListBuildings(r.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list buildings", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to list buildings: "+err.Error())
		return
	}

	logger.Debug("Listed buildings", "count", len(buildings))
	respondJSON(w, http.StatusOK, buildings)
}

// GetBuilding handles GET /api/v1/buildings/{key}
// @Summary      Get building by key
// @Description  Get a building by its primary or secondary identifier
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        key  path      string  true  "Building key (either identifier form)"
// @Success      200  {object}  application.BuildingResponse
// @Failure      400  {object}  application.ErrorResponse
// @Failure      404  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /buildings/{key} [get]
func (h *BuildingHandler) GetBuilding(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	key := chi.URLParam(r, "key")
	if key == "" {
		logger.Warn("Missing building key in request")
		respondJSONError(w, http.StatusBadRequest, "Missing building key")
		return
	}

	building, err := h.service.GetBuilding(r.Context(), key)
	if err != nil {
		if errors.Is(err, enginedomain.ErrNotFound) {
			logger.Debug("Building not found", "key", key)
			metrics.LookupsTotal.WithLabelValues("key", "miss").Inc()
			respondJSONError(w, http.StatusNotFound, "Building not found")
			return
		}
		logger.Error("Failed to get building", "key", key, "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to get building: "+err.Error())
		return
	}

	metrics.LookupsTotal.WithLabelValues("key", "hit").Inc()
	logger.Debug("Retrieved building", "key", key)
	respondJSON(w, http.StatusOK, building)
}

// LookupBuilding handles GET /api/v1/buildings/lookup
// @Summary      Look up a building by coordinate
// @Description  Resolve a 3D point to the building whose footprint contains it
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        x          query     number  true   "X coordinate"
// @Param        y          query     number  true   "Y coordinate"
// @Param        z          query     number  false  "Z coordinate"
// @Param        tolerance  query     number  false  "Search tolerance in meters"
// @Success      200        {object}  application.BuildingResponse
// @Failure      400        {object}  application.ErrorResponse
// @Failure      404        {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /buildings/lookup [get]
func (h *BuildingHandler) LookupBuilding(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		logger.Warn("Invalid lookup coordinates", "x", r.URL.Query().Get("x"), "y", r.URL.Query().Get("y"))
		respondJSONError(w, http.StatusBadRequest, "Query parameters x and y must be numbers")
		return
	}

	pt := enginedomain.Point{X: x, Y: y}
	if zStr := r.URL.Query().Get("z"); zStr != "" {
		if z, err := strconv.ParseFloat(zStr, 64); err == nil {
			pt.Z = z
		}
	}

	tolerance := h.defaultTolerance
	if tolStr := r.URL.Query().Get("tolerance"); tolStr != "" {
		if v, err := strconv.ParseFloat(tolStr, 64); err == nil && v >= 0 {
			tolerance = v
		}
	}

	building, err := h.service.LookupBuilding(r.Context(), pt, tolerance)
	if err != nil {
		if errors.Is(err, enginedomain.ErrNotFound) {
			logger.Debug("No building at point", "x", x, "y", y, "tolerance", tolerance)
			metrics.LookupsTotal.WithLabelValues("point", "miss").Inc()
			respondJSONError(w, http.StatusNotFound, "No building at this point")
			return
		}
		logger.Error("Failed to look up building", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to look up building: "+err.Error())
		return
	}

	metrics.LookupsTotal.WithLabelValues("point", "hit").Inc()
	logger.Debug("Resolved building by point", "key", building.PrimaryKey, "x", x, "y", y)
	respondJSON(w, http.StatusOK, building)
}

// DeleteBuilding handles DELETE /api/v1/buildings/{key}
// @Summary      Evict a building
// @Description  Remove a building from the cache; the next sync cycle may re-add it
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        key  path  string  true  "Building key (either identifier form)"
// @Success      204
// @Failure      404  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /buildings/{key} [delete]
func (h *BuildingHandler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	key := chi.URLParam(r, "key")
	if key == "" {
		respondJSONError(w, http.StatusBadRequest, "Missing building key")
		return
	}

	if err := h.service.DeleteBuilding(r.Context(), key); err != nil {
		if errors.Is(err, enginedomain.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Building not found")
			return
		}
		logger.Error("Failed to delete building", "key", key, "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to delete building: "+err.Error())
		return
	}

	logger.Debug("Deleted building", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// GetAttributes handles GET /api/v1/buildings/{key}/attributes
// @Summary      Get building detail attributes
// @Description  Fetch the per-building detail document from the source
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        key  path      string  true  "Building key (either identifier form)"
// @Success      200  {object}  object
// @Failure      404  {object}  application.ErrorResponse
// @Failure      502  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /buildings/{key}/attributes [get]
func (h *BuildingHandler) GetAttributes(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	key := chi.URLParam(r, "key")
	if key == "" {
		respondJSONError(w, http.StatusBadRequest, "Missing building key")
		return
	}

	attrs, err := h.service.GetAttributes(r.Context(), key)
	if err != nil {
		if errors.Is(err, enginedomain.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Building not found")
			return
		}
		logger.Error("Failed to fetch attributes", "key", key, "err", err)
		respondJSONError(w, http.StatusBadGateway, "Failed to fetch attributes: "+err.Error())
		return
	}

	logger.Debug("Fetched attributes", "key", key)
	respondJSON(w, http.StatusOK, attrs)
}
