package tour

import (
	"strings"

	"github.com/monotours24/tour-search-service/internal/app/dto"
)

// DedupeTours keeps the first tour of every hotel. Sort before calling to
// pick which one survives. Hotel names compare case-insensitively and tours
// without a hotel name are always kept.
func DedupeTours(tours []dto.Tour) []dto.Tour {
	seen := make(map[string]struct{}, len(tours))
	results := make([]dto.Tour, 0, len(tours))

	for _, tour := range tours {
		key := strings.ToLower(strings.TrimSpace(tour.Hotel))
		if key != "" {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}

		results = append(results, tour)
	}

	return results
}

// Truncate returns at most limit tours. A non-positive limit keeps all.
func Truncate(tours []dto.Tour, limit int) []dto.Tour {
	if limit <= 0 || len(tours) <= limit {
		return tours
	}

	return tours[:limit]
}
