package otpusk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
)

const (
	ProviderName = "otpusk"

	defaultTimeout   = 12 * time.Second
	defaultUserAgent = "Monotours24/1.0"
	maxBodyBytes     = 16 << 20
	errorBodyBytes   = 300
)

// Client performs single upstream calls.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	timeout      time.Duration
	limiter      tourprovider.Limiter
	rateLimitRPS int
	diagnostics  tourprovider.DiagnosticSink
	now          func() time.Time
}

func NewClient(config tourprovider.ProviderConfig) *Client {
	c := &Client{
		httpClient:   config.HTTPClient,
		userAgent:    config.UserAgent,
		timeout:      config.Timeout,
		limiter:      config.Limiter,
		rateLimitRPS: config.RateLimitRPS,
		diagnostics:  config.Diagnostics,
		now:          time.Now,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.diagnostics == nil {
		c.diagnostics = tourprovider.NopSink{}
	}

	return c
}

// Fetch runs one poll. Non-2xx answers give a *tourprovider.StatusError,
// transport failures and timeouts give tourprovider.ErrConnectivity and a
// body that is not valid JSON gives tourprovider.ErrInvalidResponse.
func (c *Client) Fetch(ctx context.Context,
	creds tourprovider.Credentials,
	params dto.SearchParams,
) (Response, error) {
	if err := c.allow(ctx); err != nil {
		return Response{}, err
	}

	reqURL := RequestURL(creds.Endpoint, BuildQuery(creds, params))
	redacted := RedactURL(reqURL)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, body, err := c.get(ctx, reqURL)
	if err != nil {
		c.record(ctx, redacted, 0, err.Error())
		return Response{}, fmt.Errorf("%w: %w", tourprovider.ErrConnectivity, err)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		statusErr := &tourprovider.StatusError{
			StatusCode: status,
			Body:       snippet(body, errorBodyBytes),
		}
		c.record(ctx, redacted, status, statusErr.Error())

		return Response{}, statusErr
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		c.record(ctx, redacted, status, fmt.Sprintf("invalid JSON response: %s", err))

		return Response{}, fmt.Errorf("%w: %w", tourprovider.ErrInvalidResponse, err)
	}

	c.record(ctx, redacted, status, "")

	if msg := resp.Error.String(); msg != "" && msg != "false" {
		slog.WarnContext(ctx, "upstream reported an error",
			slog.String("error", msg),
			slog.String("message", resp.Message.String()))
	}

	return resp, nil
}

// get performs the request. Errors never contain the access token.
func (c *Client) get(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", redactError(err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", redactError(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// allow applies the outbound rate limit. Limiter failures are logged and
// let the call through.
func (c *Client) allow(ctx context.Context) error {
	if c.limiter == nil || c.rateLimitRPS <= 0 {
		return nil
	}

	res, err := c.limiter.Allow(ctx, fmt.Sprintf("limit:%s", ProviderName),
		redis_rate.PerSecond(c.rateLimitRPS))
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable", slog.String("error", err.Error()))
		return nil
	}

	if res.Allowed == 0 {
		return tourprovider.ErrRateLimitExceeded
	}

	return nil
}

func (c *Client) record(ctx context.Context, redactedURL string, status int, errMsg string) {
	c.diagnostics.Record(ctx, tourprovider.Diagnostic{
		URL:        redactedURL,
		HTTPStatus: status,
		Error:      errMsg,
		At:         c.now(),
	})
}

// redactError hides the access token in the URL that net/http puts into
// its errors. The wrapped cause is kept for errors.Is checks.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: RedactURL(urlErr.URL), Err: urlErr.Err}
	}

	return err
}

func snippet(body []byte, n int) string {
	if len(body) > n {
		return string(body[:n])
	}

	return string(body)
}
