package handler

import (
	"net/http"

	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the admin-only surface: full property listings,
// verification, and platform analytics. Role checks happen in the router's
// middleware chain.
type AdminHandler struct {
	properties service.PropertyService
	analytics  service.AnalyticsService
	log        logger.Logger
}

func NewAdminHandler(properties service.PropertyService, analytics service.AnalyticsService, log logger.Logger) *AdminHandler {
	return &AdminHandler{properties: properties, analytics: analytics, log: log}
}

// ListProperties returns every listing, verified or not.
func (h *AdminHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.properties.ListAll(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyList(properties))
}

func (h *AdminHandler) SetVerified(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verified *bool `json:"verified"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Verified == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "verified flag is required"})
		return
	}

	property, err := h.properties.SetVerified(r.Context(), chi.URLParam(r, "id"), *req.Verified)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(property))
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Platform(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
