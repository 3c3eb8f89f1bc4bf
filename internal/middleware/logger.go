package middleware

import (
	"net/http"
	"time"

	"Cestas/internal/logging"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger пишет одну строку на запрос. Ставится после chi RequestID.
func RequestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				args := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", chimw.GetReqID(r.Context()),
				}
				if status >= http.StatusInternalServerError {
					log.Error(r.Context(), "request", args...)
				} else {
					log.Info(r.Context(), "request", args...)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
