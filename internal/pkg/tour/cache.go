package tour

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// TourCache stores polled tours in redis. Search entries hold the raw poll
// result so one entry serves every sort and filter of the same query.
type TourCache struct {
	redis RedisClient
}

func NewTourCache(redis RedisClient) *TourCache {
	return &TourCache{
		redis: redis,
	}
}

// accountKey identifies the upstream endpoint and credential, so entries
// written before an admin changes either are never served afterwards.
func accountKey(creds tourprovider.Credentials) string {
	sum := sha256.Sum256([]byte(creds.Endpoint + "\n" + creds.AuthKey))
	return hex.EncodeToString(sum[:6])
}

func searchKey(params dto.SearchParams, creds tourprovider.Credentials) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%d:%d:%d:%d:%d:%s:%s:%d:%s",
		accountKey(creds),
		params.Country, params.DepartureCity, params.DateFrom, params.DateTo,
		params.NightsFrom, params.NightsTo, params.Adults, params.Children, params.Stars,
		params.Meal, params.Transport, params.Page, strings.ToLower(creds.Currency))
}

func (c *TourCache) GetSearchLockKey(params dto.SearchParams, creds tourprovider.Credentials) string {
	return "tour:lock:search:" + searchKey(params, creds)
}

func (c *TourCache) GetSearchCacheKey(params dto.SearchParams, creds tourprovider.Credentials) string {
	return "tour:cache:search:" + searchKey(params, creds)
}

func hotToursKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d:%g:%g:%t:%s",
		accountKey(creds),
		day, strings.Join(settings.PriorityCountries, ","),
		settings.DepartureDaysFrom, settings.DepartureDaysTo,
		settings.MinPrice, settings.MaxPrice, settings.InstantConfirmOnly,
		strings.ToLower(creds.Currency))
}

// GetHotToursLockKey and GetHotToursCacheKey include the day so an entry
// never outlives the departure window it was built for.
func (c *TourCache) GetHotToursLockKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string {
	return "tour:lock:hot:" + hotToursKey(settings, creds, day)
}

func (c *TourCache) GetHotToursCacheKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string {
	return "tour:cache:hot:" + hotToursKey(settings, creds, day)
}

func (c *TourCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (c *TourCache) ReleaseLock(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

func (c *TourCache) SetTours(ctx context.Context,
	key string,
	tours []dto.Tour,
	metadata dto.Metadata,
	expiration time.Duration,
) error {
	data, err := json.Marshal(tours)
	if err != nil {
		return fmt.Errorf("failed to marshal tours: %w", err)
	}

	err = c.redis.Set(ctx, key, data, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set tours: %w", err)
	}

	metadataBytes, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	err = c.redis.Set(ctx, key+":metadata", metadataBytes, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}

func (c *TourCache) GetTours(ctx context.Context, key string) ([]dto.Tour, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var tours []dto.Tour
	if err := json.Unmarshal(data, &tours); err != nil {
		return nil, err
	}

	return tours, nil
}

func (c *TourCache) GetMetadata(ctx context.Context, key string) (dto.Metadata, error) {
	metadataBytes, err := c.redis.Get(ctx, key+":metadata").Bytes()
	if err != nil {
		return dto.Metadata{}, err
	}

	var metadata dto.Metadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return dto.Metadata{}, err
	}

	return metadata, nil
}
