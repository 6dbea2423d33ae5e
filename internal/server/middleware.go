package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/vvakame/foodexpress/internal/graph"
	"github.com/vvakame/foodexpress/internal/log"
)

// requestLogger puts a request scoped logger into the context and logs every completed request.
func requestLogger(logger logr.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.WithValues("requestID", middleware.GetReqID(r.Context()))
			r = r.WithContext(log.WithLogger(r.Context(), reqLogger))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			reqLogger.V(1).Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// identity reads the caller from the Authorization header. It is a placeholder, the value is not verified.
func identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get("Authorization"); userID != "" {
			r = r.WithContext(graph.WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
