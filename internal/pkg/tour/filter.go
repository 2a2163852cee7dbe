package tour

import (
	"github.com/monotours24/tour-search-service/internal/app/dto"
)

// FilterTours keeps the tours matching every set option. A nil option
// returns the input unchanged.
func FilterTours(tours []dto.Tour, filterOpts *dto.FilterOption) []dto.Tour {
	if filterOpts == nil {
		return tours
	}

	results := make([]dto.Tour, 0, len(tours))

	for _, tour := range tours {
		if filterOpts.MinPrice != nil && *filterOpts.MinPrice > 0 && tour.Price < *filterOpts.MinPrice {
			continue
		}

		if filterOpts.MaxPrice != nil && *filterOpts.MaxPrice > 0 && tour.Price > *filterOpts.MaxPrice {
			continue
		}

		if filterOpts.InstantOnly && !tour.Instant {
			continue
		}

		if filterOpts.MinStars > 0 && tour.HotelStars < filterOpts.MinStars {
			continue
		}

		results = append(results, tour)
	}

	return results
}
