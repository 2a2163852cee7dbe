package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
)

// LastRequester exposes the most recent upstream call.
type LastRequester interface {
	Last() (tourprovider.Diagnostic, bool)
}

type AdminService struct {
	Store       ConfigStore
	Provider    tourprovider.TourProvider
	Diagnostics LastRequester
}

func NewAdminService(store ConfigStore,
	provider tourprovider.TourProvider,
	diagnostics LastRequester,
) *AdminService {
	return &AdminService{
		Store:       store,
		Provider:    provider,
		Diagnostics: diagnostics,
	}
}

// GetConfig godoc
// @Summary      Read api config
// @Tags         Admin
// @Description  Stored upstream configuration with the credential masked
// @Success      200      {object}  dto.ConfigResponse
// @Router       /api/v1/admin/config [get]
func (s *AdminService) GetConfig(ctx context.Context, _ dto.GetConfigRequest) (dto.ConfigResponse, error) {
	cfg, err := s.Store.Load()
	if err != nil {
		return dto.ConfigResponse{}, ErrLoadConfig.WithCause(err)
	}

	return dto.ConfigResponse{APIConfig: cfg.Masked()}, nil
}

// SaveConfig merges the request onto the stored config
// SaveConfig godoc
// @Summary      Update api config
// @Tags         Admin
// @Description  Omitted fields keep their value, the masked auth key keeps the stored key
// @Param        request  body      dto.SaveConfigRequest  true  "Partial config"
// @Success      200      {object}  dto.SaveConfigResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/v1/admin/config [post]
func (s *AdminService) SaveConfig(ctx context.Context, req dto.SaveConfigRequest) (dto.SaveConfigResponse, error) {
	current, err := s.Store.Load()
	if err != nil {
		return dto.SaveConfigResponse{}, ErrLoadConfig.WithCause(err)
	}

	merged := current.Apply(req.Patch)

	if err := dto.ValidateSingleError(merged); err != nil {
		return dto.SaveConfigResponse{}, ErrInvalidConfig.WithDetail(err.Error())
	}

	if err := s.Store.Save(merged); err != nil {
		return dto.SaveConfigResponse{}, ErrSaveConfig.WithCause(err)
	}

	slog.InfoContext(ctx, "api config saved",
		slog.String("endpoint", merged.Endpoint),
		slog.Bool("configured", merged.Configured()))

	return dto.SaveConfigResponse{OK: true, Saved: merged.Masked()}, nil
}

// TestConnection probes the upstream with the stored config overridden by
// the request
// TestConnection godoc
// @Summary      Test upstream connection
// @Tags         Admin
// @Param        request  body      dto.TestConnectionRequest  false  "Overrides"
// @Success      200      {object}  dto.ProbeResult
// @Failure      502      {object}  dto.ProbeResult
// @Router       /api/v1/admin/test-connection [post]
func (s *AdminService) TestConnection(ctx context.Context, req dto.TestConnectionRequest) (dto.ProbeResult, error) {
	stored, err := s.Store.Load()
	if err != nil {
		return dto.ProbeResult{}, ErrLoadConfig.WithCause(err)
	}

	creds := ProbeCredentials(stored, req)

	result := s.Provider.Probe(ctx, creds)

	slog.InfoContext(ctx, "connection test finished",
		slog.Bool("success", result.Success),
		slog.Int("http_status", result.HTTPStatus),
		slog.Int64("duration_ms", result.DurationMs))

	return result, nil
}

// ProbeCredentials overlays the non-blank request fields on the stored
// config. The masked placeholder means the stored key.
func ProbeCredentials(stored apiconfig.APIConfig, req dto.TestConnectionRequest) tourprovider.Credentials {
	creds := tourprovider.CredentialsFrom(stored)

	if req.Endpoint != "" {
		creds.Endpoint = req.Endpoint
	}
	if req.AuthKey != "" && req.AuthKey != apiconfig.MaskedAuthKey {
		creds.AuthKey = req.AuthKey
	}
	if req.Currency != "" {
		creds.Currency = req.Currency
	}

	return creds
}

// Debug godoc
// @Summary      Upstream diagnostics
// @Tags         Admin
// @Success      200      {object}  dto.DebugResponse
// @Router       /api/v1/admin/debug [get]
func (s *AdminService) Debug(ctx context.Context, _ dto.DebugRequest) (dto.DebugResponse, error) {
	cfg, err := s.Store.Load()
	if err != nil {
		return dto.DebugResponse{}, ErrLoadConfig.WithCause(err)
	}

	resp := dto.DebugResponse{
		ConstructedURL: s.Provider.ProbeURL(tourprovider.CredentialsFrom(cfg)),
		SavedConfig:    cfg.Masked(),
	}

	if last, ok := s.Diagnostics.Last(); ok {
		resp.LastRequest = lastRequest(last)
	}

	return resp, nil
}

func lastRequest(d tourprovider.Diagnostic) dto.LastRequest {
	req := dto.LastRequest{
		URL:        d.URL,
		HTTPStatus: d.HTTPStatus,
	}

	if d.Error != "" {
		errMsg := d.Error
		req.Error = &errMsg
	}

	if !d.At.IsZero() {
		at := d.At.UTC().Truncate(time.Millisecond)
		req.TestedAt = &at
	}

	return req
}
