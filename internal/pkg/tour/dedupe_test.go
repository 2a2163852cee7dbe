//go:build unit

package tour

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/stretchr/testify/assert"
)

func TestDedupeTours_AfterPriceSort(t *testing.T) {
	tours := []dto.Tour{
		{Hotel: "A", Price: 200},
		{Hotel: "A", Price: 150},
		{Hotel: "B", Price: 300},
	}

	got := DedupeTours(SortTours(tours, dto.SortPriceAsc))

	want := []dto.Tour{
		{Hotel: "A", Price: 150},
		{Hotel: "B", Price: 300},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DedupeTours mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupeTours(t *testing.T) {
	dedupeRequest := func(tours []dto.Tour, wantIDs []string) func(t *testing.T) {
		return func(t *testing.T) {
			got := DedupeTours(tours)
			if diff := cmp.Diff(wantIDs, tourIDs(got)); diff != "" {
				t.Fatalf("DedupeTours mismatch (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("empty", dedupeRequest(nil, []string{}))
	t.Run("case_insensitive", dedupeRequest([]dto.Tour{
		{ID: "1", Hotel: "Blue Bay"},
		{ID: "2", Hotel: " blue bay "},
		{ID: "3", Hotel: "Sunrise"},
	}, []string{"1", "3"}))
	t.Run("unnamed_hotels_kept", dedupeRequest([]dto.Tour{
		{ID: "1"},
		{ID: "2"},
	}, []string{"1", "2"}))
}

func TestTruncate(t *testing.T) {
	tours := []dto.Tour{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Equal(t, []string{"1", "2"}, tourIDs(Truncate(tours, 2)))
	assert.Equal(t, []string{"1", "2", "3"}, tourIDs(Truncate(tours, 10)))
	assert.Equal(t, []string{"1", "2", "3"}, tourIDs(Truncate(tours, 0)))
}
