package service

import (
	"context"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

type MockConfigStore struct {
	mock.Mock
}

func NewMockConfigStore(t mockT) *MockConfigStore {
	m := &MockConfigStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConfigStore) Load() (apiconfig.APIConfig, error) {
	args := m.Called()
	return args.Get(0).(apiconfig.APIConfig), args.Error(1)
}

func (m *MockConfigStore) Save(cfg apiconfig.APIConfig) error {
	return m.Called(cfg).Error(0)
}

type MockTourProvider struct {
	mock.Mock
}

func NewMockTourProvider(t mockT) *MockTourProvider {
	m := &MockTourProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTourProvider) Poll(ctx context.Context,
	creds tourprovider.Credentials,
	params dto.SearchParams,
	opts tourprovider.PollOptions,
) (tourprovider.PollResult, error) {
	args := m.Called(ctx, creds, params, opts)
	return args.Get(0).(tourprovider.PollResult), args.Error(1)
}

func (m *MockTourProvider) Probe(ctx context.Context, creds tourprovider.Credentials) dto.ProbeResult {
	args := m.Called(ctx, creds)
	return args.Get(0).(dto.ProbeResult)
}

func (m *MockTourProvider) ProbeURL(creds tourprovider.Credentials) string {
	return m.Called(creds).String(0)
}

type MockTourCacher struct {
	mock.Mock
}

func NewMockTourCacher(t mockT) *MockTourCacher {
	m := &MockTourCacher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTourCacher) GetSearchLockKey(params dto.SearchParams, creds tourprovider.Credentials) string {
	return m.Called(params, creds).String(0)
}

func (m *MockTourCacher) GetSearchCacheKey(params dto.SearchParams, creds tourprovider.Credentials) string {
	return m.Called(params, creds).String(0)
}

func (m *MockTourCacher) GetHotToursLockKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string {
	return m.Called(settings, creds, day).String(0)
}

func (m *MockTourCacher) GetHotToursCacheKey(settings apiconfig.HotToursSettings, creds tourprovider.Credentials, day string) string {
	return m.Called(settings, creds, day).String(0)
}

func (m *MockTourCacher) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	args := m.Called(ctx, key, timeout)
	return args.Bool(0), args.Error(1)
}

func (m *MockTourCacher) ReleaseLock(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockTourCacher) GetTours(ctx context.Context, key string) ([]dto.Tour, error) {
	args := m.Called(ctx, key)

	var tours []dto.Tour
	if v := args.Get(0); v != nil {
		tours = v.([]dto.Tour)
	}

	return tours, args.Error(1)
}

func (m *MockTourCacher) GetMetadata(ctx context.Context, key string) (dto.Metadata, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(dto.Metadata), args.Error(1)
}

func (m *MockTourCacher) SetTours(ctx context.Context,
	key string,
	tours []dto.Tour,
	metadata dto.Metadata,
	expiration time.Duration,
) error {
	return m.Called(ctx, key, tours, metadata, expiration).Error(0)
}

type MockLastRequester struct {
	mock.Mock
}

func NewMockLastRequester(t mockT) *MockLastRequester {
	m := &MockLastRequester{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLastRequester) Last() (tourprovider.Diagnostic, bool) {
	args := m.Called()
	return args.Get(0).(tourprovider.Diagnostic), args.Bool(1)
}
