package tour

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTourCache_Keys_Closure(t *testing.T) {
	c := &TourCache{}

	params := dto.SearchParams{
		Country:       "115",
		DepartureCity: "870",
		DateFrom:      "2026-11-01",
		DateTo:        "2026-12-01",
		NightsFrom:    7,
		NightsTo:      14,
		Adults:        2,
		Transport:     "air",
		Page:          1,
	}

	keyRequest := func(got, want string) func(t *testing.T) {
		return func(t *testing.T) {
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		}
	}

	creds := tourprovider.Credentials{Endpoint: "https://api.example.com/tours", AuthKey: "token", Currency: "EUR"}

	t.Run("search_lock_key", keyRequest(c.GetSearchLockKey(params, creds),
		"tour:lock:search:2649d49f432d:115:870:2026-11-01:2026-12-01:7:14:2:0:0::air:1:eur"))
	t.Run("search_cache_key", keyRequest(c.GetSearchCacheKey(params, creds),
		"tour:cache:search:2649d49f432d:115:870:2026-11-01:2026-12-01:7:14:2:0:0::air:1:eur"))

	settings := apiconfig.HotToursSettings{
		PriorityCountries: []string{"115", "43"},
		DepartureDaysFrom: 1,
		DepartureDaysTo:   14,
		MaxPrice:          1500,
	}
	t.Run("hot_cache_key", keyRequest(c.GetHotToursCacheKey(settings, creds, "2026-10-19"),
		"tour:cache:hot:2649d49f432d:2026-10-19:115,43:1:14:0:1500:false:eur"))
	t.Run("hot_lock_key", keyRequest(c.GetHotToursLockKey(settings, creds, "2026-10-19"),
		"tour:lock:hot:2649d49f432d:2026-10-19:115,43:1:14:0:1500:false:eur"))

	rotated := creds
	rotated.AuthKey = "rotated"
	t.Run("new_auth_key_changes_key", keyRequest(c.GetSearchCacheKey(params, rotated),
		"tour:cache:search:c5c0aa704678:115:870:2026-11-01:2026-12-01:7:14:2:0:0::air:1:eur"))

	moved := creds
	moved.Endpoint = "https://other.example.com/tours"
	t.Run("new_endpoint_changes_key", keyRequest(c.GetHotToursCacheKey(settings, moved, "2026-10-19"),
		"tour:cache:hot:6793aba179ad:2026-10-19:115,43:1:14:0:1500:false:eur"))

	params.Number = 3
	t.Run("poll_number_not_in_key", keyRequest(c.GetSearchCacheKey(params, creds),
		"tour:cache:search:2649d49f432d:115:870:2026-11-01:2026-12-01:7:14:2:0:0::air:1:eur"))

	assert.NotContains(t, c.GetSearchCacheKey(params, creds), "token")
}

func TestTourCache_AcquireLock_Closure(t *testing.T) {
	acquireLockRequest := func(key string, timeout time.Duration, mockSetup func(m *MockRedisClient), want bool) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockRedisClient(t)
			mockSetup(m)
			c := NewTourCache(m)

			got, err := c.AcquireLock(context.Background(), key, timeout)
			if err != nil {
				t.Fatalf("AcquireLock returned error: %v", err)
			}
			if got != want {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	}

	t.Run("lock_acquired", acquireLockRequest("test-key", 5*time.Second, func(m *MockRedisClient) {
		m.On("SetNX", mock.Anything, "test-key", "1", 5*time.Second).Return(redis.NewBoolResult(true, nil))
	}, true))

	t.Run("lock_not_acquired", acquireLockRequest("test-key", 5*time.Second, func(m *MockRedisClient) {
		m.On("SetNX", mock.Anything, "test-key", "1", 5*time.Second).Return(redis.NewBoolResult(false, nil))
	}, false))
}

func TestTourCache_ReleaseLock(t *testing.T) {
	m := NewMockRedisClient(t)
	m.On("Del", mock.Anything, []string{"test-key"}).Return(redis.NewIntResult(1, nil))

	err := NewTourCache(m).ReleaseLock(context.Background(), "test-key")
	assert.NoError(t, err)
}

func TestTourCache_SetTours_Closure(t *testing.T) {
	setToursRequest := func(mockSetup func(m *MockRedisClient), wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockRedisClient(t)
			mockSetup(m)
			c := NewTourCache(m)

			tours := []dto.Tour{{ID: "1-2-3"}}
			meta := dto.Metadata{Total: 1}

			err := c.SetTours(context.Background(), "test-cache", tours, meta, 10*time.Minute)
			if (err != nil) != wantErr {
				t.Fatalf("SetTours error = %v, wantErr %v", err, wantErr)
			}
		}
	}

	t.Run("success", setToursRequest(func(m *MockRedisClient) {
		m.On("Set", mock.Anything, "test-cache", mock.Anything, 10*time.Minute).Return(redis.NewStatusResult("OK", nil))
		m.On("Set", mock.Anything, "test-cache:metadata", mock.Anything, 10*time.Minute).Return(redis.NewStatusResult("OK", nil))
	}, false))

	t.Run("redis_down", setToursRequest(func(m *MockRedisClient) {
		m.On("Set", mock.Anything, "test-cache", mock.Anything, 10*time.Minute).Return(redis.NewStatusResult("", errors.New("connection refused")))
	}, true))
}

func TestTourCache_GetTours_Closure(t *testing.T) {
	getToursRequest := func(mockSetup func(m *MockRedisClient), want []dto.Tour, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockRedisClient(t)
			mockSetup(m)
			c := NewTourCache(m)

			got, err := c.GetTours(context.Background(), "test-cache")
			if (err != nil) != wantErr {
				t.Fatalf("GetTours error = %v, wantErr %v", err, wantErr)
			}
			if !wantErr {
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("GetTours mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	t.Run("success", getToursRequest(func(m *MockRedisClient) {
		m.On("Get", mock.Anything, "test-cache").Return(redis.NewStringResult(`[{"id":"1-2-3","price":450}]`, nil))
	}, []dto.Tour{{ID: "1-2-3", Price: 450}}, false))

	t.Run("cache_miss", getToursRequest(func(m *MockRedisClient) {
		m.On("Get", mock.Anything, "test-cache").Return(redis.NewStringResult("", redis.Nil))
	}, nil, true))

	t.Run("corrupt_entry", getToursRequest(func(m *MockRedisClient) {
		m.On("Get", mock.Anything, "test-cache").Return(redis.NewStringResult("{", nil))
	}, nil, true))
}

func TestTourCache_GetMetadata(t *testing.T) {
	cachedAt := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	m := NewMockRedisClient(t)
	m.On("Get", mock.Anything, "test-cache:metadata").
		Return(redis.NewStringResult(`{"total":42,"polls":3,"complete":true,"cachedAt":"2026-10-19T08:00:00Z"}`, nil))

	got, err := NewTourCache(m).GetMetadata(context.Background(), "test-cache")
	assert.NoError(t, err)
	assert.Equal(t, dto.Metadata{Total: 42, Polls: 3, Complete: true, CachedAt: cachedAt}, got)
}
