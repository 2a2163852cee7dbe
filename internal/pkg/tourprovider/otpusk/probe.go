package otpusk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
)

const probeSnippetBytes = 500

// ProbeURL is the request a connection test sends.
func ProbeURL(creds tourprovider.Credentials, now time.Time) string {
	return RequestURL(creds.Endpoint, BuildQuery(creds, ProbeParams(now)))
}

// ProbeURL returns the redacted request Probe sends for creds.
func (p *Provider) ProbeURL(creds tourprovider.Credentials) string {
	return RedactURL(ProbeURL(creds, p.now()))
}

// Probe sends one live request and reports whether the upstream answered
// with a usable search response. The result never contains the token.
func (p *Provider) Probe(ctx context.Context, creds tourprovider.Credentials) dto.ProbeResult {
	now := p.now()
	reqURL := ProbeURL(creds, now)
	redacted := RedactURL(reqURL)

	slog.InfoContext(ctx, "testing upstream connection", slog.String("url", redacted))

	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	start := time.Now()
	status, body, err := p.client.get(ctx, reqURL)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		details := p.describeTransportError(err)
		p.diagnostics.Record(ctx, tourprovider.Diagnostic{URL: redacted, Error: details, At: now})

		slog.ErrorContext(ctx, "upstream connection failed", slog.String("details", details))

		return dto.ProbeResult{
			Success:    false,
			Error:      "Connection failed",
			Details:    details,
			URL:        redacted,
			DurationMs: durationMs,
		}
	}

	result := dto.ProbeResult{
		URL:             redacted,
		HTTPStatus:      status,
		ResponseSnippet: snippet(body, probeSnippetBytes),
		DurationMs:      durationMs,
	}

	if reason, ok := ValidateProbeResponse(status, body); !ok {
		p.diagnostics.Record(ctx, tourprovider.Diagnostic{URL: redacted, HTTPStatus: status, Error: reason, At: now})

		result.Error = "Connection failed"
		result.Details = reason

		return result
	}

	p.diagnostics.Record(ctx, tourprovider.Diagnostic{URL: redacted, HTTPStatus: status, At: now})

	result.Success = true
	result.Message = "Otpusk API connected"

	return result
}

// ValidateProbeResponse checks that a probe answer is a real search
// response. reason explains a failure.
func ValidateProbeResponse(status int, body []byte) (reason string, ok bool) {
	switch {
	case status == http.StatusUnauthorized:
		return "invalid access token (401 Unauthorized)", false
	case status == http.StatusForbidden:
		return "access denied (403 Forbidden), check access_token", false
	case status == http.StatusNotFound:
		return "endpoint not found (404), check the URL", false
	case status >= http.StatusInternalServerError:
		return fmt.Sprintf("upstream server error (%d)", status), false
	case status != http.StatusOK:
		return fmt.Sprintf("unexpected HTTP status: %d", status), false
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Sprintf("invalid JSON response: %s", err), false
	}

	if msg := resp.Error.String(); msg != "" && msg != "false" {
		return fmt.Sprintf("API returned an error: %s - %s", msg, resp.Message.String()), false
	}

	if isNull(resp.Hotels) || isNull(resp.Results) {
		return "response does not contain hotels or results", false
	}

	return "", true
}

func (p *Provider) describeTransportError(err error) string {
	var dnsErr *net.DNSError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("timeout after %s, upstream did not respond", p.probeTimeout)
	case errors.As(err, &dnsErr):
		return fmt.Sprintf("DNS lookup failed, host unreachable: %s", err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Sprintf("network error, connection refused: %s", err)
	case errors.Is(err, syscall.ETIMEDOUT):
		return fmt.Sprintf("connection timed out: %s", err)
	}

	return err.Error()
}
