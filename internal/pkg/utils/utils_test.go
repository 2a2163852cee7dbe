//go:build unit

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	formatRequest := func(amount float64, currency, want string) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, FormatPrice(amount, currency))
		}
	}

	t.Run("zero", formatRequest(0, "EUR", "0 EUR"))
	t.Run("hundreds", formatRequest(899, "EUR", "899 EUR"))
	t.Run("thousands", formatRequest(1299, "EUR", "1.299 EUR"))
	t.Run("millions_rounded", formatRequest(1234567.6, "UAH", "1.234.568 UAH"))
	t.Run("negative", formatRequest(-1500, "", "-1.500"))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	daysRequest := func(date string, wantDays int, wantOK bool) func(t *testing.T) {
		return func(t *testing.T) {
			days, ok := DaysUntil(date, now)
			assert.Equal(t, wantOK, ok)
			assert.Equal(t, wantDays, days)
		}
	}

	t.Run("tomorrow", daysRequest("2026-10-20", 1, true))
	t.Run("in_a_week", daysRequest("2026-10-26", 7, true))
	t.Run("in_eight_days", daysRequest("2026-10-27", 8, true))
	t.Run("today_is_past_midnight", daysRequest("2026-10-19", 0, true))
	t.Run("past", daysRequest("2026-10-10", -9, true))
	t.Run("invalid", daysRequest("soon", 0, false))
}

func TestAddDays(t *testing.T) {
	now := time.Date(2026, 12, 30, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-12-30", FormatDate(now))
	assert.Equal(t, "2027-01-13", AddDays(now, 14))
}
