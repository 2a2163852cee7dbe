package otpusk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
)

const defaultProbeTimeout = 15 * time.Second

// Provider runs progressive searches against the Otpusk tours API.
type Provider struct {
	client       *Client
	pollDelay    time.Duration
	probeTimeout time.Duration
	diagnostics  tourprovider.DiagnosticSink
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewProvider(config tourprovider.ProviderConfig) *Provider {
	p := &Provider{
		client:       NewClient(config),
		pollDelay:    config.PollDelay,
		probeTimeout: config.ProbeTimeout,
		diagnostics:  config.Diagnostics,
		now:          time.Now,
		sleep:        sleepContext,
	}

	if p.pollDelay < 0 {
		p.pollDelay = 0
	}
	if p.probeTimeout <= 0 {
		p.probeTimeout = defaultProbeTimeout
	}
	if p.diagnostics == nil {
		p.diagnostics = tourprovider.NopSink{}
	}

	return p
}

// Poll calls the upstream with an increasing sequence number until it
// reports the search complete, enough tours were collected or MaxPolls
// calls were made. The upstream answers cumulatively so every successful
// poll replaces the tours of the previous one.
//
// A failed call ends polling. The tours of the last successful poll are
// returned together with the error.
func (p *Provider) Poll(ctx context.Context,
	creds tourprovider.Credentials,
	params dto.SearchParams,
	opts tourprovider.PollOptions,
) (tourprovider.PollResult, error) {
	var result tourprovider.PollResult

	for pollNum := 0; pollNum < opts.MaxPolls; pollNum++ {
		params.Number = pollNum

		resp, err := p.client.Fetch(ctx, creds, params)
		result.Polls++
		if err != nil {
			slog.WarnContext(ctx, "upstream poll failed",
				slog.String("country", params.Country),
				slog.Int("poll", pollNum),
				slog.String("error", err.Error()))

			return result, err
		}

		result.Tours = ExtractTours(resp, NormalizeOptions{
			Currency: creds.Currency,
			Now:      p.now(),
		})
		result.Total = resp.Total.Int()
		result.Complete = resp.LastResult.Bool()

		slog.DebugContext(ctx, "upstream poll done",
			slog.String("country", params.Country),
			slog.Int("poll", pollNum),
			slog.Int("tours", len(result.Tours)),
			slog.Bool("last_result", result.Complete))

		if result.Complete || (opts.Target > 0 && len(result.Tours) >= opts.Target) {
			break
		}

		if pollNum == opts.MaxPolls-1 {
			break
		}

		if err := p.sleep(ctx, p.pollDelay); err != nil {
			return result, fmt.Errorf("wait for next poll: %w", err)
		}
	}

	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
