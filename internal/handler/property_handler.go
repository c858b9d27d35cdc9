package handler

import (
	"net/http"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/middleware"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	properties service.PropertyService
	reviews    service.ReviewService
	log        logger.Logger
}

func NewPropertyHandler(properties service.PropertyService, reviews service.ReviewService, log logger.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, reviews: reviews, log: log}
}

type propertyResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Country       string   `json:"country"`
	Type          string   `json:"type"`
	Area          int      `json:"area"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Verified      bool     `json:"verified"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	OwnerName     string   `json:"owner_name"`
	ReviewCount   *int64   `json:"review_count,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}

func toPropertyResponse(p *entity.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		Country:     p.Country,
		Type:        string(p.Type),
		Area:        p.Area,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Verified:    p.Verified,
		PhotoURL:    p.PhotoURL,
		OwnerName:   p.Owner.Name,
	}
}

func toPropertyList(properties []entity.Property) []propertyResponse {
	out := make([]propertyResponse, len(properties))
	for i := range properties {
		out[i] = toPropertyResponse(&properties[i])
	}
	return out
}

// ListVerified is the public browse/search endpoint.
func (h *PropertyHandler) ListVerified(w http.ResponseWriter, r *http.Request) {
	properties, err := h.properties.ListVerified(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyList(properties))
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	property, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := toPropertyResponse(property)
	if stats, err := h.reviews.StatsForProperty(r.Context(), id); err == nil {
		resp.ReviewCount = &stats.Count
		resp.AverageRating = &stats.AverageRating
	} else {
		h.log.Warnf("Failed to load review stats for property %s: %v", id, err)
	}

	writeJSON(w, http.StatusOK, resp)
}

type createPropertyRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Type        string   `json:"type"`
	Area        int      `json:"area"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req createPropertyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	property, err := h.properties.Create(r.Context(), identity.Email, service.CreatePropertyParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Type:        req.Type,
		Area:        req.Area,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPropertyResponse(property))
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	properties, err := h.properties.ListByOwner(r.Context(), identity.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyList(properties))
}

func (h *PropertyHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	fileName, contentType, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	property, err := h.properties.UploadPhoto(r.Context(), id, identity.Email, fileName, contentType, data)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"photo_url": property.PhotoURL})
}

type reviewResponse struct {
	ID           string `json:"id"`
	PropertyID   string `json:"property_id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func (h *PropertyHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reviews, err := h.reviews.ListForProperty(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = reviewResponse{
			ID:           review.ID,
			PropertyID:   review.PropertyID,
			ReviewerName: review.Reviewer.Name,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PropertyHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	review, err := h.reviews.Add(r.Context(), id, identity.Email, req.Rating, req.Comment)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, reviewResponse{
		ID:           review.ID,
		PropertyID:   review.PropertyID,
		ReviewerName: review.Reviewer.Name,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
