package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/exception"
)

// StatusCoder is a response that picks its own HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ResponseWithBody is the common method to encode all response types to the client.
func ResponseWithBody(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if sc, ok := response.(StatusCoder); ok {
		w.WriteHeader(sc.StatusCode())
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("encode response body: %w", err)
	}

	return nil
}

// ErrorResponse encodes the error response to the client. it will check if it's a sentinel error or unknown error.
func ErrorResponse(ctx context.Context, err error, respWriter http.ResponseWriter) {
	var (
		appErr exception.ApplicationError
		body   dto.ErrorResponse
		status int
	)

	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		body = dto.ErrorResponse{Error: appErr.Message, Detail: appErr.Detail}

		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, appErr.Message, slog.Any("error", err))
		}
	} else {
		status = http.StatusInternalServerError
		body = dto.ErrorResponse{Error: err.Error()}

		slog.ErrorContext(ctx, err.Error(), slog.Any("error", err))
	}

	respWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	respWriter.WriteHeader(status)

	//nolint:errcheck,errchkjson
	json.NewEncoder(respWriter).Encode(body)
}
