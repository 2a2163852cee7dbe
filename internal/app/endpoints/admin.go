package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/monotours24/tour-search-service/internal/app/dto"
)

type AdminService interface {
	GetConfig(ctx context.Context, req dto.GetConfigRequest) (dto.ConfigResponse, error)
	SaveConfig(ctx context.Context, req dto.SaveConfigRequest) (dto.SaveConfigResponse, error)
	TestConnection(ctx context.Context, req dto.TestConnectionRequest) (dto.ProbeResult, error)
	Debug(ctx context.Context, req dto.DebugRequest) (dto.DebugResponse, error)
}

type AdminEndpoint struct {
	GetConfig      endpoint.Endpoint
	SaveConfig     endpoint.Endpoint
	TestConnection endpoint.Endpoint
	Debug          endpoint.Endpoint
}

func MakeAdminEndpoint(service AdminService) AdminEndpoint {
	return AdminEndpoint{
		GetConfig:      makeGetConfigEndpoint(service),
		SaveConfig:     makeSaveConfigEndpoint(service),
		TestConnection: makeTestConnectionEndpoint(service),
		Debug:          makeDebugEndpoint(service),
	}
}

func makeGetConfigEndpoint(service AdminService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.GetConfigRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		cfg, err := service.GetConfig(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("admin service: %w", err)
		}

		return cfg, nil
	}
}

func makeSaveConfigEndpoint(service AdminService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SaveConfigRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		saved, err := service.SaveConfig(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("admin service: %w", err)
		}

		return saved, nil
	}
}

func makeTestConnectionEndpoint(service AdminService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.TestConnectionRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.TestConnection(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("admin service: %w", err)
		}

		return result, nil
	}
}

func makeDebugEndpoint(service AdminService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.DebugRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		debug, err := service.Debug(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("admin service: %w", err)
		}

		return debug, nil
	}
}
