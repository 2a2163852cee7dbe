package dto

import (
	"net/http"
	"time"

	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/exception"
)

// GetConfigRequest has no fields, the stored config is always returned.
type GetConfigRequest struct{}

// SaveConfigRequest is a partial config. Omitted fields keep their value.
type SaveConfigRequest struct {
	apiconfig.Patch
}

func (s *SaveConfigRequest) Bind(_ *http.Request) error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// ConfigResponse is the stored config with the credential masked.
type ConfigResponse struct {
	apiconfig.APIConfig
}

type SaveConfigResponse struct {
	OK    bool               `json:"ok"`
	Saved apiconfig.APIConfig `json:"saved"`
}

// TestConnectionRequest overrides stored values for a single probe. Blank
// fields, and an auth key equal to the masked placeholder, use the stored
// values.
type TestConnectionRequest struct {
	Endpoint string `json:"endpoint" validate:"omitempty,url"`
	AgencyID string `json:"agencyId"`
	DomainID string `json:"domainId"`
	AuthKey  string `json:"authKey"`
	Currency string `json:"currency"`
}

func (t *TestConnectionRequest) Bind(_ *http.Request) error {
	if err := ValidateSingleError(t); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// ProbeResult is the outcome of a live connection test. The URL never
// contains the credential.
type ProbeResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
	Details         string `json:"details,omitempty"`
	URL             string `json:"url,omitempty"`
	HTTPStatus      int    `json:"httpStatus"`
	ResponseSnippet string `json:"responseSnippet,omitempty"`
	DurationMs      int64  `json:"durationMs"`
}

// StatusCode is used by the response encoder.
func (p ProbeResult) StatusCode() int {
	if p.Success {
		return http.StatusOK
	}

	return http.StatusBadGateway
}

type DebugRequest struct{}

type LastRequest struct {
	URL        string     `json:"url"`
	HTTPStatus int        `json:"httpStatus"`
	Error      *string    `json:"error"`
	TestedAt   *time.Time `json:"testedAt"`
}

type DebugResponse struct {
	ConstructedURL string              `json:"constructedUrl"`
	SavedConfig    apiconfig.APIConfig `json:"savedConfig"`
	LastRequest    LastRequest         `json:"lastRequest"`
}
