package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/monotours24/tour-search-service/internal/pkg/exception"
	"github.com/monotours24/tour-search-service/internal/pkg/logger"
)

const AdminSecretHeader = "X-Admin-Secret"

var ErrUnauthorized = exception.ApplicationError{
	Message:    "unauthorized",
	StatusCode: http.StatusUnauthorized,
}

type MiddlewareFunc func(http.Handler) http.Handler

func Recoverer(logger *slog.Logger) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if err, _ := rvr.(error); errors.Is(err, http.ErrAbortHandler) {
						// we don't recover http.ErrAbortHandler so the response
						// to the client is aborted, this should not be logged
						panic(rvr)
					}

					logger.ErrorContext(req.Context(), "panic occurred", slog.Any("message", rvr), slog.String("stack_trace", string(debug.Stack())))
					respWriter.WriteHeader(http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}

// CORSMiddleware set CORS related headers. No origins allows the site's
// local dev server only.
func CORSMiddleware(origins []string) func(next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Origin", "Content-Type", AdminSecretHeader},
		ExposedHeaders: []string{"X-Request-Id"},
	})
}

// AdminAuth requires the shared admin secret in the X-Admin-Secret header
// or the secret query parameter. An empty secret disables the check.
func AdminAuth(secret string) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			given := r.Header.Get(AdminSecretHeader)
			if given == "" {
				given = r.URL.Query().Get("secret")
			}

			if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				slog.WarnContext(r.Context(), "admin request rejected", slog.String("path", r.URL.Path))
				ErrorResponse(r.Context(), ErrUnauthorized, w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestID add request id to context and response header.
func RequestID() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
			w.Header().Set("X-Request-Id", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
