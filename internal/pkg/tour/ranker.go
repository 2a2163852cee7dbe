package tour

import (
	"math"

	"github.com/monotours24/tour-search-service/internal/app/dto"
)

// weighted scoring using normalization
// ref: https://www.1000minds.com/decision-making/what-is-mcdm-mcda

// weights for each criteria
const (
	WeightPrice  = 0.6
	WeightRating = 0.25
	WeightStars  = 0.15
)

// RankTours scores every tour, 0 is the best tour and 1 the worst.
// Higher rating and more stars are better so both are inverted.
func RankTours(tours []dto.Tour) []dto.Tour {
	priceMin, priceMax := findRange(tours, func(t dto.Tour) float64 { return t.Price })
	ratingMin, ratingMax := findRange(tours, func(t dto.Tour) float64 { return t.Rating })
	starsMin, starsMax := findRange(tours, func(t dto.Tour) float64 { return float64(t.HotelStars) })

	for i, tour := range tours {
		priceScore := normalizeValue(tour.Price, priceMin, priceMax)
		ratingScore := 1 - normalizeValue(tour.Rating, ratingMin, ratingMax)
		starsScore := 1 - normalizeValue(float64(tour.HotelStars), starsMin, starsMax)

		// a flat criterion does not separate tours
		if ratingMin == ratingMax {
			ratingScore = 0
		}
		if starsMin == starsMax {
			starsScore = 0
		}

		tours[i].Score = WeightPrice*priceScore +
			WeightRating*ratingScore +
			WeightStars*starsScore
	}

	return tours
}

func findRange(tours []dto.Tour, value func(dto.Tour) float64) (float64, float64) {
	if len(tours) == 0 {
		return 0, 0
	}

	minValue := math.MaxFloat64
	maxValue := -math.MaxFloat64
	for _, tour := range tours {
		v := value(tour)
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}
	return minValue, maxValue
}

func normalizeValue(value float64, min float64, max float64) float64 {
	if max == min {
		return 0
	}

	return (value - min) / (max - min)
}
