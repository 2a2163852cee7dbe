package otpusk

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/utils"
)

const ImageBaseURL = "https://newimg.otpusk.com/2/"

const (
	dealDiscountPercent = 20
	trendingWithinDays  = 7
)

// NormalizeOptions are the inputs of normalization that do not come from
// the response itself.
type NormalizeOptions struct {
	// Currency is used when an offer carries no currency of its own.
	Currency string
	// Now is the reference time of the trending tag.
	Now time.Time
}

// ExtractTours flattens the operator -> hotel -> offer graph into one tour
// per offer. Buckets whose hotel has no metadata and entries that fail to
// decode are skipped. The output order only depends on the response.
func ExtractTours(resp Response, opts NormalizeOptions) []dto.Tour {
	tours := make([]dto.Tour, 0)

	if isNull(resp.Hotels) || isNull(resp.Results) {
		return tours
	}

	var hotels map[string]json.RawMessage
	if err := json.Unmarshal(resp.Hotels, &hotels); err != nil {
		return tours
	}

	var results map[string]json.RawMessage
	if err := json.Unmarshal(resp.Results, &results); err != nil {
		return tours
	}

	departure := resp.DepartureName()

	for _, operatorID := range sortedKeys(results) {
		var buckets map[string]json.RawMessage
		if err := json.Unmarshal(results[operatorID], &buckets); err != nil {
			continue
		}

		for _, hotelID := range sortedKeys(buckets) {
			rawHotel, ok := hotels[hotelID]
			if !ok || isNull(rawHotel) {
				continue
			}

			var hotel Hotel
			if err := json.Unmarshal(rawHotel, &hotel); err != nil {
				continue
			}

			var bucket HotelOffers
			if err := json.Unmarshal(buckets[hotelID], &bucket); err != nil {
				continue
			}

			for _, offerID := range sortedKeys(bucket.Offers) {
				rawOffer := bucket.Offers[offerID]
				if isNull(rawOffer) {
					continue
				}

				var offer Offer
				if err := json.Unmarshal(rawOffer, &offer); err != nil {
					continue
				}

				tours = append(tours, normalizeTour(tourKey{
					hotelID:    hotelID,
					operatorID: operatorID,
					offerID:    offerID,
				}, hotel, offer, departure, opts))
			}
		}
	}

	return tours
}

// tourKey holds the map keys an offer was found under.
type tourKey struct {
	hotelID    string
	operatorID string
	offerID    string
}

func normalizeTour(key tourKey, hotel Hotel, offer Offer, departure string, opts NormalizeOptions) dto.Tour {
	currency := strings.ToUpper(offer.Currency.String())
	if currency == "" {
		currency = strings.ToUpper(opts.Currency)
	}

	price := offer.Price.Float()

	tour := dto.Tour{
		ID: TourID(
			firstNonEmpty(offer.HotelID.String(), key.hotelID),
			firstNonEmpty(offer.OperatorID.String(), key.operatorID),
			firstNonEmpty(offer.ID.String(), key.offerID),
		),
		Destination:    hotel.Name.String(),
		CountryID:      hotel.Country.ID.String(),
		CountryName:    hotel.Country.Name.String(),
		Resort:         hotel.City.Name.String(),
		Hotel:          hotel.Name.String(),
		HotelStars:     hotel.Stars.Int(),
		Nights:         offer.Nights.Int(),
		DateFrom:       offer.Date.String(),
		Price:          price,
		PriceFormatted: utils.FormatPrice(price, currency),
		Currency:       currency,
		Rating:         hotel.Rating.Float(),
		Meal:           offer.FoodName.String(),
		MealCode:       offer.FoodCode.String(),
		Operator:       key.operatorID,
		Instant:        offer.Availability.Instant(),
		DepartureCity:  departure,
	}

	if photo := hotel.Photo.String(); photo != "" {
		tour.ImageURL = ImageBaseURL + strings.TrimPrefix(photo, "/")
	}

	tour.TagKey = ClassifyTag(tour, opts.Now)

	return tour
}

var idPartEscaper = strings.NewReplacer("%", "%25", "-", "%2D")

// TourID derives the stable id of an offer. Hyphens inside a part are
// escaped so distinct triples never share an id.
func TourID(hotelID, operatorID, offerID string) string {
	return fmt.Sprintf("%s-%s-%s",
		idPartEscaper.Replace(hotelID), idPartEscaper.Replace(operatorID), idPartEscaper.Replace(offerID))
}

// ClassifyTag picks the badge of a tour. Rules are checked in order and the
// first match wins.
func ClassifyTag(tour dto.Tour, now time.Time) dto.Tag {
	if tour.DiscountPercent >= dealDiscountPercent {
		return dto.TagDeal
	}

	if tour.Instant {
		return dto.TagPopular
	}

	if days, ok := utils.DaysUntil(tour.DateFrom, now); ok && days <= trendingWithinDays {
		return dto.TagTrending
	}

	return dto.TagNew
}

// sortedKeys orders numeric ids numerically and everything else lexically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case errA == nil && errB == nil && a != b:
			return a < b
		case errA == nil && errB != nil:
			return true
		case errA != nil && errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})

	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
