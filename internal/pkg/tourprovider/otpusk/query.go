package otpusk

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/monotours24/tour-search-service/internal/pkg/utils"
)

const (
	defaultCurrency = "eur"
	defaultAdults   = 2
)

var accessTokenPattern = regexp.MustCompile(`access_token=[^&]+`)

// BuildQuery maps search parameters to the upstream query. It does not
// validate anything: a missing token yields a request the upstream rejects
// and numeric ranges are passed through as given.
func BuildQuery(creds tourprovider.Credentials, params dto.SearchParams) url.Values {
	q := url.Values{}

	if creds.AuthKey != "" {
		q.Set("access_token", creds.AuthKey)
	}

	setIfNotEmpty(q, "from", params.DepartureCity)
	setIfNotEmpty(q, "to", params.Country)
	setIfNotEmpty(q, "checkIn", params.DateFrom)
	setIfNotEmpty(q, "checkTo", params.DateTo)
	setIfNotZero(q, "nights", params.NightsFrom)
	setIfNotZero(q, "nightsTo", params.NightsTo)

	q.Set("people", PeopleCode(params.Adults, params.Children))

	setIfNotEmpty(q, "food", params.Meal)
	setIfNotEmpty(q, "transport", params.Transport)

	currency := creds.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	q.Set("currencyLocal", currency)

	q.Set("group", "1")
	q.Set("availableFlight", "yes")
	q.Set("stopSale", "yes,request")
	q.Set("lang", "eng")
	q.Set("number", strconv.Itoa(params.Number))
	q.Set("data", "extlinks")

	if params.Stars > 0 {
		q.Set("rating", fmt.Sprintf("%d-%d", params.Stars, params.Stars+5))
	}

	setIfNotZero(q, "page", params.Page)

	return q
}

// PeopleCode concatenates the adult count and the child count, "20" being
// two adults without children. The code is ambiguous from ten people on.
// TODO: switch to the upstream's per child age encoding once it is confirmed.
func PeopleCode(adults, children int) string {
	if adults <= 0 {
		adults = defaultAdults
	}

	if children < 0 {
		children = 0
	}

	return strconv.Itoa(adults) + strconv.Itoa(children)
}

// RequestURL joins the endpoint and an encoded query.
func RequestURL(endpoint string, q url.Values) string {
	endpoint = strings.TrimRight(endpoint, "/")

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}

	return endpoint + sep + q.Encode()
}

// ProbeParams are the fixed parameters of a connection test: one week of
// seven night tours to Turkey for two adults.
func ProbeParams(now time.Time) dto.SearchParams {
	return dto.SearchParams{
		DepartureCity: dto.DefaultDepartureCity,
		Country:       dto.DefaultCountry,
		DateFrom:      utils.FormatDate(now),
		DateTo:        utils.AddDays(now, 7),
		NightsFrom:    7,
		NightsTo:      7,
		Adults:        defaultAdults,
		Page:          1,
	}
}

// RedactURL hides the access token of a request URL.
func RedactURL(rawURL string) string {
	return accessTokenPattern.ReplaceAllString(rawURL, "access_token=***")
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setIfNotZero(q url.Values, key string, value int) {
	if value != 0 {
		q.Set(key, strconv.Itoa(value))
	}
}
