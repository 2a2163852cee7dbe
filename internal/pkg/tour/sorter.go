package tour

import (
	"sort"

	"github.com/monotours24/tour-search-service/internal/app/dto"
)

// SortTours orders tours in place. Equal tours keep their order.
func SortTours(tours []dto.Tour, key dto.SortKey) []dto.Tour {
	switch key {
	case dto.SortPriceDesc:
		sort.SliceStable(tours, func(i, j int) bool {
			return tours[i].Price > tours[j].Price
		})
	case dto.SortRating:
		sort.SliceStable(tours, func(i, j int) bool {
			return tours[i].Rating > tours[j].Rating
		})
	case dto.SortRecommended:
		tours = RankTours(tours)
		sort.SliceStable(tours, func(i, j int) bool {
			return tours[i].Score < tours[j].Score
		})
	default:
		sort.SliceStable(tours, func(i, j int) bool {
			return tours[i].Price < tours[j].Price
		})
	}

	return tours
}
