package handler

import (
	"net/http"

	"github.com/commercialspace/backend/internal/middleware"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	favorites service.FavoriteService
	log       logger.Logger
}

func NewFavoriteHandler(favorites service.FavoriteService, log logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, log: log}
}

type favoriteResponse struct {
	ID              string `json:"id"`
	PropertyID      string `json:"property_id"`
	PropertyTitle   string `json:"property_title"`
	PropertyAddress string `json:"property_address"`
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	favorites, err := h.favorites.List(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := make([]favoriteResponse, len(favorites))
	for i, favorite := range favorites {
		out[i] = favoriteResponse{
			ID:              favorite.ID,
			PropertyID:      favorite.PropertyID,
			PropertyTitle:   favorite.PropertyTitle,
			PropertyAddress: favorite.PropertyAddress,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	favorite, err := h.favorites.Add(r.Context(), identity.UserID, chi.URLParam(r, "propertyID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, favoriteResponse{
		ID:              favorite.ID,
		PropertyID:      favorite.PropertyID,
		PropertyTitle:   favorite.PropertyTitle,
		PropertyAddress: favorite.PropertyAddress,
	})
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	if err := h.favorites.Remove(r.Context(), identity.UserID, chi.URLParam(r, "propertyID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
