package handler

import (
	"net/http"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/middleware"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	bookings service.BookingService
	log      logger.Logger
}

func NewBookingHandler(bookings service.BookingService, log logger.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, log: log}
}

type bookingResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	Title      string  `json:"property_title"`
	Address    string  `json:"property_address"`
	Customer   string  `json:"customer_name"`
	Owner      string  `json:"owner_name"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Status     string  `json:"status"`
	Days       int64   `json:"days"`
	Months     int64   `json:"months"`
	TotalPrice float64 `json:"total_price"`
}

func toBookingResponse(b *entity.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		PropertyID: b.Property.ID,
		Title:      b.Property.Title,
		Address:    b.Property.Address,
		Customer:   b.Customer.Name,
		Owner:      b.Owner.Name,
		StartDate:  b.StartDate.Format(dateLayout),
		EndDate:    b.EndDate.Format(dateLayout),
		Status:     string(b.Status),
		Days:       b.Days(),
		Months:     b.Months(),
		TotalPrice: b.TotalPrice(),
	}
}

func toBookingList(bookings []entity.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bookings))
	for i := range bookings {
		out[i] = toBookingResponse(&bookings[i])
	}
	return out
}

type createBookingRequest struct {
	PropertyID string `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "end_date must be YYYY-MM-DD"})
		return
	}

	booking, err := h.bookings.Create(r.Context(), service.CreateBookingParams{
		PropertyID:    req.PropertyID,
		CustomerEmail: identity.Email,
		StartDate:     start,
		EndDate:       end,
		Status:        req.Status,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	booking, err := h.bookings.Accept(r.Context(), chi.URLParam(r, "id"), identity.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	booking, err := h.bookings.Reject(r.Context(), chi.URLParam(r, "id"), identity.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

// ListMine returns the caller's bookings as a customer.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	bookings, err := h.bookings.ListByCustomer(r.Context(), identity.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingList(bookings))
}

// ListForOwner returns booking requests against the caller's properties.
func (h *BookingHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	bookings, err := h.bookings.ListByOwner(r.Context(), identity.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingList(bookings))
}
