package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the upstream API.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// FormatDate formats t as a calendar date
// Example: 2026-10-19T15:04:05Z -> "2026-10-19"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts t by n calendar days and returns the date string.
func AddDays(t time.Time, n int) string {
	return FormatDate(t.AddDate(0, 0, n))
}

// DaysUntil returns the number of days from now until date, rounded up.
// Dates in the past give zero or negative values. ok is false when date
// cannot be parsed.
func DaysUntil(date string, now time.Time) (days int, ok bool) {
	target, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return 0, false
	}

	return int(math.Ceil(float64(target.Sub(now)) / float64(day))), true
}

// FormatPrice formats an amount with dot thousand separators followed by
// the currency code.
// Example: (1299, "EUR") -> "1.299 EUR"
func FormatPrice(amount float64, currency string) string {
	rounded := int64(math.Round(amount))

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	var result []byte
	str := strconv.FormatInt(rounded, 10)

	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		result = append([]byte{str[i]}, result...)
		count++
		if count%3 == 0 && i != 0 {
			result = append([]byte{'.'}, result...)
		}
	}

	if negative {
		result = append([]byte{'-'}, result...)
	}

	if currency == "" {
		return string(result)
	}

	return string(result) + " " + currency
}
