package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/platform/metrics"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs every request with its status and duration, and feeds
// the HTTP metrics when a manager is wired.
func RequestLogger(log logger.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			route := r.Method + " " + r.URL.Path

			log.Infof("%s -> %d (%s)", route, status, elapsed)
			if m != nil {
				m.HTTPRequestLatency.WithLabelValues(route).Observe(elapsed.Seconds())
				if status >= 400 {
					m.HTTPErrorsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
				}
			}
		})
	}
}
