//go:build unit

package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/config"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/app/endpoints"
	"github.com/monotours24/tour-search-service/internal/app/service"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/tour"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider/otpusk"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := dto.InitValidator(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// memRedis is an in-memory tour.RedisClient.
type memRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string]string{}}
}

func (m *memRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)

	return redis.NewBoolResult(true, nil)
}

func (m *memRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}

	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *memRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}

	return redis.NewStatusResult("OK", nil)
}

func (m *memRedis) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(v, nil)
}

const upstreamBody = `{
	"lastResult": true,
	"total": 2,
	"dept": {"id": 870, "name": "Berlin"},
	"hotels": {
		"1": {"n": "Sunrise", "s": 5, "c": {"i": 1, "n": "Antalya"}, "t": {"i": 115, "n": "Turkey"}},
		"2": {"n": "Blue Bay", "s": 4, "c": {"i": 2, "n": "Side"}, "t": {"i": 115, "n": "Turkey"}}
	},
	"results": {"9": {
		"1": {"offers": {"a": {"i": "a", "d": "2026-12-01", "n": 7, "f": "ai", "p": 800, "u": "eur"}}},
		"2": {"offers": {"b": {"i": "b", "d": "2026-12-02", "n": 7, "f": "bb", "p": 500, "u": "eur"}}}
	}}
}`

type testServer struct {
	router    http.Handler
	store     *apiconfig.FileStore
	mu        sync.Mutex
	upQueries []map[string]string
}

func (s *testServer) queries() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]map[string]string{}, s.upQueries...)
}

func newTestServer(t *testing.T, upstreamStatus int, authKey string) *testServer {
	t.Helper()

	ts := &testServer{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.upQueries = append(ts.upQueries, map[string]string{
			"to":           r.URL.Query().Get("to"),
			"access_token": r.URL.Query().Get("access_token"),
		})
		ts.mu.Unlock()

		w.WriteHeader(upstreamStatus)
		if upstreamStatus == http.StatusOK {
			fmt.Fprint(w, upstreamBody)
		} else {
			fmt.Fprint(w, `{"error": "denied"}`)
		}
	}))
	t.Cleanup(upstream.Close)

	ts.store = apiconfig.NewFileStore(filepath.Join(t.TempDir(), "api-config.json"))
	stored := apiconfig.Default()
	stored.Endpoint = upstream.URL
	stored.AuthKey = authKey
	require.NoError(t, ts.store.Save(stored))

	cfg := config.Config{
		Admin: config.Admin{Secret: "admin-secret"},
	}

	sink := tourprovider.NewLastRequestSink()
	provider := otpusk.NewProvider(tourprovider.ProviderConfig{
		Timeout:     time.Second,
		Diagnostics: sink,
	})

	tourService := service.NewTourService(ts.store, provider, tour.NewTourCache(newMemRedis()), service.TourServiceConfig{
		SearchMaxPolls:          4,
		SearchTargetResults:     20,
		SearchCacheExpiration:   time.Minute,
		HotToursMaxPolls:        5,
		HotToursTargetResults:   10,
		HotToursLimit:           12,
		HotToursCacheExpiration: time.Hour,
		CacheLockTimeout:        time.Second,
	})
	adminService := service.NewAdminService(ts.store, provider, sink)

	ts.router = MakeHTTPRouter(&cfg, endpoints.Endpoints{
		TourEndpoint:  endpoints.MakeTourEndpoint(tourService),
		AdminEndpoint: endpoints.MakeAdminEndpoint(adminService),
	})

	return ts
}

func (s *testServer) do(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	return rec
}

var adminHeader = map[string]string{"X-Admin-Secret": "admin-secret"}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "token")

	rec := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_SearchTours(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "token")

	rec := ts.do(http.MethodGet, "/api/v1/tours/search?country=43&sort=price_desc&limit=1&priceFrom=", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var got dto.SearchToursResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, dto.SourceOtpusk, got.Source)
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Tours, 1)
	assert.Equal(t, "1-9-a", got.Tours[0].ID)
	assert.Equal(t, "Berlin", got.Tours[0].DepartureCity)

	queries := ts.queries()
	require.Len(t, queries, 1)
	assert.Equal(t, "43", queries[0]["to"])
	assert.Equal(t, "token", queries[0]["access_token"])

	// same query again is served from cache
	rec = ts.do(http.MethodGet, "/api/v1/tours/search?country=43", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ts.queries(), 1)
}

func TestRouter_SearchTours_Errors(t *testing.T) {
	searchRequest := func(upstreamStatus int, authKey, target string, wantStatus int, wantBody string) func(t *testing.T) {
		return func(t *testing.T) {
			ts := newTestServer(t, upstreamStatus, authKey)

			rec := ts.do(http.MethodGet, target, "", nil)
			assert.Equal(t, wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), wantBody)
		}
	}

	t.Run("invalid_sort", searchRequest(http.StatusOK, "token",
		"/api/v1/tours/search?sort=cheapest", http.StatusBadRequest, `"error"`))
	t.Run("malformed_number", searchRequest(http.StatusOK, "token",
		"/api/v1/tours/search?adults=two", http.StatusBadRequest, `"invalid request"`))
	t.Run("upstream_unauthorized", searchRequest(http.StatusUnauthorized, "token",
		"/api/v1/tours/search", http.StatusUnauthorized, `"upstream returned HTTP 401"`))
	t.Run("unconfigured", searchRequest(http.StatusOK, "",
		"/api/v1/tours/search", http.StatusOK, `"source":"unconfigured"`))
}

func TestRouter_HotTours(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "token")

	rec := ts.do(http.MethodGet, "/api/v1/tours/hot", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got dto.HotToursResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.True(t, got.Configured)
	assert.NotNil(t, got.CachedAt)
	// both default countries answer with the same two hotels
	require.Len(t, got.Tours, 2)
	assert.Equal(t, "Blue Bay", got.Tours[0].Hotel)
	assert.Equal(t, "Sunrise", got.Tours[1].Hotel)
	assert.Len(t, ts.queries(), 2)
}

func TestRouter_AdminAuth(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "token")

	rec := ts.do(http.MethodGet, "/api/v1/admin/config", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/admin/config?secret=admin-secret", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminConfig(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "token")

	rec := ts.do(http.MethodGet, "/api/v1/admin/config", "", adminHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authKey":"`+apiconfig.MaskedAuthKey+`"`)
	assert.NotContains(t, rec.Body.String(), "token")

	rec = ts.do(http.MethodPost, "/api/v1/admin/config",
		`{"authKey":"`+apiconfig.MaskedAuthKey+`","currency":"usd","hotToursSettings":{"priorityCountries":["43"]}}`,
		adminHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved dto.SaveConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.True(t, saved.OK)
	assert.Equal(t, apiconfig.MaskedAuthKey, saved.Saved.AuthKey)

	stored, err := ts.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "token", stored.AuthKey)
	assert.Equal(t, "usd", stored.Currency)
	assert.Equal(t, []string{"43"}, stored.HotToursSettings.PriorityCountries)
	assert.Equal(t, 14, stored.HotToursSettings.DepartureDaysTo)

	rec = ts.do(http.MethodPost, "/api/v1/admin/config", `{"endpoint":"not a url"}`, adminHeader)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/config", `{"currency":`, adminHeader)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TestConnectionAndDebug(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, "token")

	rec := ts.do(http.MethodPost, "/api/v1/admin/test-connection",
		`{"authKey":"`+apiconfig.MaskedAuthKey+`"}`, adminHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var probe dto.ProbeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &probe))
	assert.True(t, probe.Success)
	assert.Contains(t, probe.URL, "access_token=***")
	assert.Equal(t, "token", ts.queries()[0]["access_token"])

	rec = ts.do(http.MethodGet, "/api/v1/admin/debug", "", adminHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	var debug dto.DebugResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &debug))
	assert.Contains(t, debug.ConstructedURL, "access_token=***")
	assert.NotContains(t, debug.ConstructedURL, "token&")
	assert.Equal(t, apiconfig.MaskedAuthKey, debug.SavedConfig.AuthKey)
	assert.Equal(t, http.StatusOK, debug.LastRequest.HTTPStatus)
	assert.Nil(t, debug.LastRequest.Error)
	assert.NotNil(t, debug.LastRequest.TestedAt)
}

func TestRouter_TestConnection_Failure(t *testing.T) {
	ts := newTestServer(t, http.StatusForbidden, "token")

	rec := ts.do(http.MethodGet, "/api/v1/admin/test-connection", "", adminHeader)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var probe dto.ProbeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &probe))
	assert.False(t, probe.Success)
	assert.Equal(t, http.StatusForbidden, probe.HTTPStatus)
	assert.Contains(t, probe.Details, "403")
}
