package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

// requestLogger logs one line per request and tags the request context with
// its id so downstream log lines can be correlated.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logger.WithFields(r.Context(), "request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info(ctx, "%s %s %d %dB %s", r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start).Round(time.Millisecond))
		})
	}
}
