package dto

import (
	"net/http"
	"time"

	"github.com/monotours24/tour-search-service/internal/pkg/exception"
	"github.com/monotours24/tour-search-service/internal/pkg/utils"
)

// Tag classifies a tour for the landing page badges.
type Tag string

const (
	TagDeal     Tag = "deal"
	TagPopular  Tag = "popular"
	TagTrending Tag = "trending"
	TagNew      Tag = "new"
)

// Source tells the client where the tours came from.
type Source string

const (
	SourceOtpusk       Source = "otpusk"
	SourceUnconfigured Source = "unconfigured"
)

type SortKey string

const (
	SortPriceAsc    SortKey = "price_asc"
	SortPriceDesc   SortKey = "price_desc"
	SortRating      SortKey = "rating"
	SortRecommended SortKey = "recommended"
)

// Tour is a single upstream offer flattened for the site.
type Tour struct {
	ID              string  `json:"id"`
	Destination     string  `json:"destination"`
	CountryID       string  `json:"countryId"`
	CountryName     string  `json:"countryName"`
	Resort          string  `json:"resort"`
	Hotel           string  `json:"hotel"`
	HotelStars      int     `json:"hotelStars"`
	Nights          int     `json:"nights"`
	DateFrom        string  `json:"dateFrom"`
	Price           float64 `json:"price"`
	PriceFormatted  string  `json:"priceFormatted"`
	Currency        string  `json:"currency"`
	Discount        float64 `json:"discount"`
	DiscountPercent float64 `json:"discountPercent"`
	Rating          float64 `json:"rating"`
	Meal            string  `json:"meal"`
	MealCode        string  `json:"mealCode"`
	Operator        string  `json:"operator"`
	Instant         bool    `json:"instant"`
	DepartureCity   string  `json:"departureCity"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	TagKey          Tag     `json:"tagKey"`
	Score           float64 `json:"score,omitempty"`
}

// SearchParams is what the upstream understands. Zero values mean "not set".
type SearchParams struct {
	DepartureCity string
	Country       string
	DateFrom      string
	DateTo        string
	NightsFrom    int
	NightsTo      int
	Adults        int
	Children      int
	Stars         int
	Meal          string
	Transport     string
	Page          int
	// Number is the polling sequence number of a progressive search.
	Number int
}

type FilterOption struct {
	MinPrice    *float64
	MaxPrice    *float64
	InstantOnly bool
	MinStars    int
}

const (
	DefaultCountry       = "115" // Turkey
	DefaultDepartureCity = "870"
	DefaultTransport     = "air"
	DefaultSearchLimit   = 20
)

// SearchRequest is the inbound tour search query.
type SearchRequest struct {
	Country       string  `form:"country" json:"country"`
	DepartureCity string  `form:"departureCity" json:"departureCity"`
	DateFrom      string  `form:"dateFrom" json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo        string  `form:"dateTo" json:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	NightsFrom    int     `form:"nightsFrom" json:"nightsFrom"`
	NightsTo      int     `form:"nightsTo" json:"nightsTo"`
	Adults        int     `form:"adults" json:"adults" validate:"gte=0"`
	Children      int     `form:"children" json:"children" validate:"gte=0"`
	Stars         int     `form:"stars" json:"stars" validate:"gte=0,lte=5"`
	Meal          string  `form:"meal" json:"meal"`
	Transport     string  `form:"transport" json:"transport" validate:"omitempty,oneof=air bus"`
	Page          int     `form:"page" json:"page" validate:"gte=0"`
	PriceFrom     float64 `form:"priceFrom" json:"priceFrom" validate:"gte=0"`
	PriceTo       float64 `form:"priceTo" json:"priceTo" validate:"gte=0"`
	Sort          SortKey `form:"sort" json:"sort" validate:"omitempty,oneof=price_asc price_desc rating recommended"`
	Limit         int     `form:"limit" json:"limit" validate:"gte=0,lte=100"`
	Unique        bool    `form:"unique" json:"unique"`
}

func (s *SearchRequest) Bind(_ *http.Request) error {
	return s.Validate()
}

func (s *SearchRequest) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	if s.PriceFrom > 0 && s.PriceTo > 0 && s.PriceTo < s.PriceFrom {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    "priceTo must be greater than priceFrom",
		}
	}

	return nil
}

// Params applies the search defaults and returns the upstream parameters
// for the first poll.
func (s SearchRequest) Params(now time.Time) SearchParams {
	params := SearchParams{
		Country:       s.Country,
		DepartureCity: s.DepartureCity,
		DateFrom:      s.DateFrom,
		DateTo:        s.DateTo,
		NightsFrom:    s.NightsFrom,
		NightsTo:      s.NightsTo,
		Adults:        s.Adults,
		Children:      s.Children,
		Stars:         s.Stars,
		Meal:          s.Meal,
		Transport:     s.Transport,
		Page:          s.Page,
	}

	if params.Country == "" {
		params.Country = DefaultCountry
	}
	if params.DepartureCity == "" {
		params.DepartureCity = DefaultDepartureCity
	}
	if params.Transport == "" {
		params.Transport = DefaultTransport
	}
	if params.Adults == 0 {
		params.Adults = 2
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.NightsFrom == 0 {
		params.NightsFrom = 7
	}
	if params.NightsTo == 0 {
		params.NightsTo = 14
	}

	if params.DateFrom == "" {
		params.DateFrom = utils.FormatDate(now)
	}
	if params.DateTo == "" {
		from, err := time.Parse(utils.DateLayout, params.DateFrom)
		if err != nil {
			from = now
		}
		params.DateTo = utils.AddDays(from, 30)
	}

	return params
}

// Filter returns the post-processing filter for the request.
func (s SearchRequest) Filter() *FilterOption {
	opt := &FilterOption{}
	if s.PriceFrom > 0 {
		priceFrom := s.PriceFrom
		opt.MinPrice = &priceFrom
	}
	if s.PriceTo > 0 {
		priceTo := s.PriceTo
		opt.MaxPrice = &priceTo
	}

	return opt
}

// ResultLimit is the number of tours returned to the client.
func (s SearchRequest) ResultLimit() int {
	if s.Limit <= 0 {
		return DefaultSearchLimit
	}

	return s.Limit
}

// Metadata describes a cached result set.
type Metadata struct {
	Total    int       `json:"total"`
	Polls    int       `json:"polls"`
	Complete bool      `json:"complete"`
	CachedAt time.Time `json:"cachedAt"`
}

// SearchToursResponse is the response of the search endpoint.
type SearchToursResponse struct {
	Tours  []Tour `json:"tours"`
	Total  int    `json:"total"`
	Source Source `json:"source"`
}

// HotToursResponse is the response of the hot tours endpoint.
type HotToursResponse struct {
	Tours      []Tour     `json:"tours"`
	Configured bool       `json:"configured"`
	Total      int        `json:"total"`
	Source     Source     `json:"source"`
	CachedAt   *time.Time `json:"cachedAt,omitempty"`
}
