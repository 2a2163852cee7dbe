package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/tour"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/monotours24/tour-search-service/internal/pkg/utils"
)

type ConfigStore interface {
	Load() (apiconfig.APIConfig, error)
	Save(cfg apiconfig.APIConfig) error
}

type TourCacher interface {
	GetSearchLockKey(params dto.SearchParams, creds tourprovider.Credentials) string
	GetSearchCacheKey(params dto.SearchParams, creds tourprovider.Credentials) string
	GetHotToursLockKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string
	GetHotToursCacheKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetTours(ctx context.Context, key string) ([]dto.Tour, error)
	GetMetadata(ctx context.Context, key string) (dto.Metadata, error)
	SetTours(ctx context.Context,
		key string,
		tours []dto.Tour,
		metadata dto.Metadata,
		expiration time.Duration,
	) error
}

// hot tours search shape
var (
	DefaultHotCountries = []string{"115", "43"} // Turkey, Egypt
	hotToursMeal        = "uai,ai,fb,hb"
)

const (
	hotToursNightsFrom = 7
	hotToursNightsTo   = 14
	hotToursAdults     = 2
)

type TourServiceConfig struct {
	SearchMaxPolls          int
	SearchTargetResults     int
	SearchCacheExpiration   time.Duration
	HotToursMaxPolls        int
	HotToursTargetResults   int
	HotToursLimit           int
	HotToursCacheExpiration time.Duration
	CacheLockTimeout        time.Duration
}

type countryResult struct {
	Index   int
	Country string
	Tours   []dto.Tour
	Error   error
}

type TourService struct {
	Store    ConfigStore
	Provider tourprovider.TourProvider
	Cache    TourCacher
	Config   TourServiceConfig
	now      func() time.Time
}

func NewTourService(store ConfigStore,
	provider tourprovider.TourProvider,
	cache TourCacher,
	config TourServiceConfig,
) *TourService {
	return &TourService{
		Store:    store,
		Provider: provider,
		Cache:    cache,
		Config:   config,
		now:      time.Now,
	}
}

// SearchTours runs a progressive upstream search and post-processes it
// SearchTours godoc
// @Summary      Search tours
// @Tags         Tours
// @Description  Search tours on the upstream API, filter, sort and limit them
// @Param        request  query     dto.SearchRequest  true  "Search query"
// @Success      200      {object}  dto.SearchToursResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      502      {object}  dto.ErrorResponse
// @Router       /api/v1/tours/search [get]
func (s *TourService) SearchTours(
	ctx context.Context,
	req dto.SearchRequest,
) (dto.SearchToursResponse, error) {
	cfg, err := s.Store.Load()
	if err != nil {
		return dto.SearchToursResponse{}, ErrLoadConfig.WithCause(err)
	}

	// no credential, no outbound call
	if !cfg.Configured() {
		return dto.SearchToursResponse{
			Tours:  []dto.Tour{},
			Source: dto.SourceUnconfigured,
		}, nil
	}

	creds := tourprovider.CredentialsFrom(cfg)
	params := req.Params(s.now())

	tours, metadata, err := s.searchTours(ctx, creds, params)
	if err != nil {
		return dto.SearchToursResponse{}, err
	}

	tours = tour.FilterTours(tours, req.Filter())
	tours = tour.SortTours(tours, req.Sort)
	if req.Unique {
		tours = tour.DedupeTours(tours)
	}
	tours = tour.Truncate(tours, req.ResultLimit())

	total := metadata.Total
	if total == 0 {
		total = len(tours)
	}

	return dto.SearchToursResponse{
		Tours:  tours,
		Total:  total,
		Source: dto.SourceOtpusk,
	}, nil
}

// searchTours returns the raw poll result for params, from cache when
// possible. Only error free polls are cached.
func (s *TourService) searchTours(ctx context.Context,
	creds tourprovider.Credentials,
	params dto.SearchParams,
) ([]dto.Tour, dto.Metadata, error) {
	cacheKey := s.Cache.GetSearchCacheKey(params, creds)
	lockKey := s.Cache.GetSearchLockKey(params, creds)

	tours, err := s.Cache.GetTours(ctx, cacheKey)
	if err == nil {
		metadata, err := s.Cache.GetMetadata(ctx, cacheKey)
		if err != nil {
			slog.WarnContext(ctx, "failed to get metadata from cache", slog.String("error", err.Error()))
		}

		return tours, metadata, nil
	}

	slog.DebugContext(ctx, "search cache miss", slog.String("key", cacheKey), slog.String("error", err.Error()))

	result, pollErr := s.Provider.Poll(ctx, creds, params, tourprovider.PollOptions{
		MaxPolls: s.Config.SearchMaxPolls,
		Target:   s.Config.SearchTargetResults,
	})

	metadata := dto.Metadata{
		Total:    result.Total,
		Polls:    result.Polls,
		Complete: result.Complete,
		CachedAt: s.now(),
	}

	if pollErr != nil {
		if len(result.Tours) > 0 {
			slog.WarnContext(ctx, "upstream search stopped early, serving collected tours",
				slog.Int("tours", len(result.Tours)),
				slog.String("error", pollErr.Error()))

			return result.Tours, metadata, nil
		}

		if err := searchError(pollErr); err != nil {
			return nil, dto.Metadata{}, err
		}

		slog.ErrorContext(ctx, "upstream unreachable, serving empty result",
			slog.String("error", pollErr.Error()))

		return []dto.Tour{}, dto.Metadata{}, nil
	}

	s.storeTours(ctx, lockKey, cacheKey, result.Tours, metadata, s.Config.SearchCacheExpiration)

	return result.Tours, metadata, nil
}

// searchError maps a failed first poll. Upstream statuses, invalid bodies
// and rate limits reach the client, connectivity failures degrade to an
// empty result.
func searchError(err error) error {
	var statusErr *tourprovider.StatusError
	if errors.As(err, &statusErr) {
		status := statusErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}

		appErr := ErrUpstreamStatus.WithCause(err).WithDetail(statusErr.Body)
		appErr.Message = fmt.Sprintf("upstream returned HTTP %d", statusErr.StatusCode)
		appErr.StatusCode = status

		return appErr
	}

	if errors.Is(err, tourprovider.ErrRateLimitExceeded) {
		return tourprovider.ErrRateLimitExceeded
	}

	if errors.Is(err, tourprovider.ErrInvalidResponse) {
		return tourprovider.ErrInvalidResponse.WithCause(err)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// storeTours saves tours under the cache lock. Only one of several
// concurrent identical requests writes the entry, cache failures are logged
// and never fail the request.
func (s *TourService) storeTours(ctx context.Context,
	lockKey, cacheKey string,
	tours []dto.Tour,
	metadata dto.Metadata,
	expiration time.Duration,
) {
	acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.Config.CacheLockTimeout)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire cache lock", slog.String("error", err.Error()))
		return
	}

	if !acquired {
		return
	}

	defer func() {
		if err := s.Cache.ReleaseLock(ctx, lockKey); err != nil {
			slog.WarnContext(ctx, "failed to release cache lock", slog.String("error", err.Error()))
		}
	}()

	if err := s.Cache.SetTours(ctx, cacheKey, tours, metadata, expiration); err != nil {
		slog.WarnContext(ctx, "failed to set tours to cache", slog.String("error", err.Error()))
	}
}

// HotTours returns the landing page selection
// HotTours godoc
// @Summary      Hot tours
// @Tags         Tours
// @Description  Cheapest tour per hotel across the configured countries
// @Success      200      {object}  dto.HotToursResponse
// @Router       /api/v1/tours/hot [get]
func (s *TourService) HotTours(ctx context.Context) (dto.HotToursResponse, error) {
	cfg, err := s.Store.Load()
	if err != nil {
		return dto.HotToursResponse{}, ErrLoadConfig.WithCause(err)
	}

	if !cfg.Configured() {
		return dto.HotToursResponse{
			Tours:      []dto.Tour{},
			Configured: false,
			Source:     dto.SourceUnconfigured,
		}, nil
	}

	now := s.now()
	creds := tourprovider.CredentialsFrom(cfg)
	settings := cfg.HotToursSettings
	day := utils.FormatDate(now)

	cacheKey := s.Cache.GetHotToursCacheKey(settings, creds, day)
	lockKey := s.Cache.GetHotToursLockKey(settings, creds, day)

	if tours, err := s.Cache.GetTours(ctx, cacheKey); err == nil {
		metadata, err := s.Cache.GetMetadata(ctx, cacheKey)
		if err != nil {
			slog.WarnContext(ctx, "failed to get metadata from cache", slog.String("error", err.Error()))
			metadata.CachedAt = now
		}

		return hotToursResponse(tours, metadata.CachedAt), nil
	}

	tours, failed := s.pollCountries(ctx, creds, HotCountries(settings), HotToursParams(settings, now))

	tours = tour.FilterTours(tours, &dto.FilterOption{
		MinPrice:    positive(settings.MinPrice),
		MaxPrice:    positive(settings.MaxPrice),
		InstantOnly: settings.InstantConfirmOnly,
	})
	tours = tour.SortTours(tours, dto.SortPriceAsc)
	tours = tour.DedupeTours(tours)
	tours = tour.Truncate(tours, s.Config.HotToursLimit)

	metadata := dto.Metadata{Total: len(tours), CachedAt: now}

	// a partial selection is served but not kept
	if failed == 0 {
		s.storeTours(ctx, lockKey, cacheKey, tours, metadata, s.Config.HotToursCacheExpiration)
	}

	return hotToursResponse(tours, now), nil
}

// HotToursParams is the search run for every hot tours country. Country is
// left empty.
func HotToursParams(settings apiconfig.HotToursSettings, now time.Time) dto.SearchParams {
	return dto.SearchParams{
		DepartureCity: dto.DefaultDepartureCity,
		DateFrom:      utils.AddDays(now, settings.DepartureDaysFrom),
		DateTo:        utils.AddDays(now, settings.DepartureDaysTo),
		NightsFrom:    hotToursNightsFrom,
		NightsTo:      hotToursNightsTo,
		Adults:        hotToursAdults,
		Meal:          hotToursMeal,
		Transport:     dto.DefaultTransport,
	}
}

// HotCountries returns the configured priority countries or the defaults.
func HotCountries(settings apiconfig.HotToursSettings) []string {
	if len(settings.PriorityCountries) > 0 {
		return settings.PriorityCountries
	}

	return DefaultHotCountries
}

// pollCountries polls every country concurrently and merges the tours in
// country order. A failed country contributes the tours it collected
// before failing.
func (s *TourService) pollCountries(ctx context.Context,
	creds tourprovider.Credentials,
	countries []string,
	params dto.SearchParams,
) ([]dto.Tour, int) {
	results := make(chan countryResult, len(countries))
	var wg sync.WaitGroup

	// each country loop is sequential, loops run side by side
	wg.Add(len(countries))
	for i, country := range countries {
		go func(index int, country string) {
			defer wg.Done()

			p := params
			p.Country = country

			result, err := s.Provider.Poll(ctx, creds, p, tourprovider.PollOptions{
				MaxPolls: s.Config.HotToursMaxPolls,
				Target:   s.Config.HotToursTargetResults,
			})
			results <- countryResult{
				Index:   index,
				Country: country,
				Tours:   result.Tours,
				Error:   err,
			}
		}(i, country)
	}

	// wait all go routine finish
	go func() {
		wg.Wait()
		close(results)
	}()

	failed := 0
	byCountry := make([][]dto.Tour, len(countries))
	for result := range results {
		if result.Error != nil {
			slog.WarnContext(ctx, "hot tours country failed",
				slog.String("country", result.Country),
				slog.Any("error", result.Error))
			failed++
		}
		byCountry[result.Index] = result.Tours
	}

	allTours := []dto.Tour{}
	for _, tours := range byCountry {
		allTours = append(allTours, tours...)
	}

	return allTours, failed
}

func hotToursResponse(tours []dto.Tour, cachedAt time.Time) dto.HotToursResponse {
	if tours == nil {
		tours = []dto.Tour{}
	}

	return dto.HotToursResponse{
		Tours:      tours,
		Configured: true,
		Total:      len(tours),
		Source:     dto.SourceOtpusk,
		CachedAt:   &cachedAt,
	}
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}

	return &v
}
