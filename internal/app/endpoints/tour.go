package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/monotours24/tour-search-service/internal/app/dto"
)

type TourService interface {
	SearchTours(ctx context.Context, req dto.SearchRequest) (dto.SearchToursResponse, error)
	HotTours(ctx context.Context) (dto.HotToursResponse, error)
}

type TourEndpoint struct {
	SearchTours endpoint.Endpoint
	HotTours    endpoint.Endpoint
}

func MakeTourEndpoint(service TourService) TourEndpoint {
	return TourEndpoint{
		SearchTours: makeSearchToursEndpoint(service),
		HotTours:    makeHotToursEndpoint(service),
	}
}

func makeSearchToursEndpoint(service TourService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		tours, err := service.SearchTours(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("tour service: %w", err)
		}

		return tours, nil
	}
}

func makeHotToursEndpoint(service TourService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		tours, err := service.HotTours(ctx)
		if err != nil {
			return nil, fmt.Errorf("tour service: %w", err)
		}

		return tours, nil
	}
}
