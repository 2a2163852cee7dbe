package service

import (
	"net/http"

	"github.com/monotours24/tour-search-service/internal/pkg/exception"
)

var ErrLoadConfig = exception.ApplicationError{
	Message:    "failed to load api config",
	StatusCode: http.StatusInternalServerError,
}

var ErrSaveConfig = exception.ApplicationError{
	Message:    "failed to save api config",
	StatusCode: http.StatusInternalServerError,
}

var ErrInvalidConfig = exception.ApplicationError{
	Message:    "invalid api config",
	StatusCode: http.StatusBadRequest,
}

var ErrUpstreamStatus = exception.ApplicationError{
	Message:    "upstream search failed",
	StatusCode: http.StatusBadGateway,
}
