package tourprovider

import (
	"fmt"
	"net/http"

	"github.com/monotours24/tour-search-service/internal/pkg/exception"
)

var ErrConnectivity = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "upstream connection failed",
}

// ErrInvalidResponse is a 2xx answer whose body is not a search response.
var ErrInvalidResponse = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Message:    "upstream returned an invalid response",
}

var ErrRateLimitExceeded = exception.ApplicationError{
	StatusCode: http.StatusTooManyRequests,
	Message:    "upstream rate limit exceeded",
}

// StatusError is a non-2xx answer from the upstream.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.StatusCode)
}
