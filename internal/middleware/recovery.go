package middleware

import (
	"net/http"
	"runtime/debug"

	"itemhub-rest-api/pkg/apierror"

	"go.uber.org/zap"
)

// Recovery returns a middleware that recovers from panics and responds with
// the standard internal-error body instead of propagating.
func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						zap.Any("panic", err),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write(apierror.Internal("").ToJSON())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
