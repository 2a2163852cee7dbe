package tourprovider

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
)

// Credentials are the per call upstream settings. They are read from the
// stored config at the start of every request and never mutated.
type Credentials struct {
	Endpoint string
	AuthKey  string
	Currency string
}

func CredentialsFrom(cfg apiconfig.APIConfig) Credentials {
	return Credentials{
		Endpoint: cfg.Endpoint,
		AuthKey:  cfg.AuthKey,
		Currency: cfg.Currency,
	}
}

// Limiter throttles outbound calls, implemented by *redis_rate.Limiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// config for tour provider
type ProviderConfig struct {
	Timeout      time.Duration
	ProbeTimeout time.Duration
	PollDelay    time.Duration
	RateLimitRPS int
	UserAgent    string
	Limiter      Limiter
	HTTPClient   *http.Client
	Diagnostics  DiagnosticSink
}

// PollOptions bound a progressive search.
type PollOptions struct {
	// MaxPolls is the maximum number of upstream calls.
	MaxPolls int
	// Target stops polling once this many tours are collected. Zero disables it.
	Target int
}

type PollResult struct {
	Tours []dto.Tour
	// Total is the upstream's own result count of the last successful poll.
	Total    int
	Polls    int
	Complete bool
}

type TourProvider interface {
	Poll(ctx context.Context, creds Credentials, params dto.SearchParams, opts PollOptions) (PollResult, error)
	Probe(ctx context.Context, creds Credentials) dto.ProbeResult
	// ProbeURL is the request Probe would send, with the credential redacted.
	ProbeURL(creds Credentials) string
}
