package router

import (
	"net/http"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/handler"
	"github.com/commercialspace/backend/internal/middleware"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/platform/metrics"
	"github.com/commercialspace/backend/internal/platform/token"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Property *handler.PropertyHandler
	Booking  *handler.BookingHandler
	Favorite *handler.FavoriteHandler
	Admin    *handler.AdminHandler
}

func New(h Handlers, tokens *token.Manager, m *metrics.Manager, log logger.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log, m))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// Public surface.
	r.Post("/api/auth/signup", h.Auth.Signup)
	r.Post("/api/auth/login", h.Auth.Login)
	r.Post("/api/auth/forgot-password", h.Auth.ForgotPassword)
	r.Post("/api/auth/reset-password", h.Auth.ResetPassword)

	r.Get("/api/properties", h.Property.ListVerified)
	r.Get("/api/properties/{id}", h.Property.GetByID)
	r.Get("/api/properties/{id}/reviews", h.Property.ListReviews)

	// Authenticated surface.
	r.Group(func(auth chi.Router) {
		auth.Use(middleware.JWTAuth(tokens))

		auth.Get("/api/user/profile", h.User.GetProfile)
		auth.Put("/api/user/profile", h.User.UpdateProfile)
		auth.Post("/api/user/avatar", h.User.UploadAvatar)

		auth.Post("/api/properties", h.Property.Create)
		auth.Get("/api/properties/mine", h.Property.ListMine)
		auth.Post("/api/properties/{id}/photo", h.Property.UploadPhoto)
		auth.Post("/api/properties/{id}/reviews", h.Property.AddReview)

		auth.Get("/api/favorites", h.Favorite.List)
		auth.Post("/api/favorites/{propertyID}", h.Favorite.Add)
		auth.Delete("/api/favorites/{propertyID}", h.Favorite.Remove)

		auth.Post("/api/bookings", h.Booking.Create)
		auth.Post("/api/bookings/{id}/accept", h.Booking.Accept)
		auth.Post("/api/bookings/{id}/reject", h.Booking.Reject)
		auth.Get("/api/bookings/me", h.Booking.ListMine)
		auth.Get("/api/bookings/owner", h.Booking.ListForOwner)

		// Admin-only surface.
		auth.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(entity.Role.CanViewAnalytics))

			admin.Get("/api/admin/properties", h.Admin.ListProperties)
			admin.Patch("/api/admin/properties/{id}/verify", h.Admin.SetVerified)
			admin.Get("/api/admin/analytics", h.Admin.Analytics)
		})
	})

	return r
}
