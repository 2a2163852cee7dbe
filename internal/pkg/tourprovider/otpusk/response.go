package otpusk

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flex holds a scalar the upstream sends either as a string or as a JSON
// number or bool. The text form is kept.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}

	*f = Flex(b)

	return nil
}

func (f Flex) String() string {
	return strings.TrimSpace(string(f))
}

// Float returns the numeric value or zero.
func (f Flex) Float() float64 {
	v, err := strconv.ParseFloat(f.String(), 64)
	if err != nil {
		return 0
	}

	return v
}

func (f Flex) Int() int {
	return int(f.Float())
}

func (f Flex) Bool() bool {
	switch strings.ToLower(f.String()) {
	case "true", "1", "yes":
		return true
	}

	return false
}

// Ref is an {i, n} pair the upstream uses for countries, cities and the like.
type Ref struct {
	ID   Flex `json:"i"`
	Name Flex `json:"n"`
}

// Place is the {id, name} pair of the response envelope.
type Place struct {
	ID   Flex `json:"id"`
	Name Flex `json:"name"`
}

// Response is one poll of the progressive search. Hotels and results are
// kept raw and decoded entry by entry so one malformed entry cannot spoil
// the rest. An empty collection may arrive as [] instead of {}.
type Response struct {
	LastResult Flex            `json:"lastResult"`
	Total      Flex            `json:"total"`
	Country    json.RawMessage `json:"cnt"`
	Departure  json.RawMessage `json:"dept"`
	Percent    Flex            `json:"_persent"`
	Hotels     json.RawMessage `json:"hotels"`
	Results    json.RawMessage `json:"results"`
	Error      Flex            `json:"error"`
	Message    Flex            `json:"message"`
}

type Hotel struct {
	Name     Flex `json:"n"`
	Stars    Flex `json:"s"`
	Rating   Flex `json:"r"`
	Reviews  Flex `json:"w"`
	Photo    Flex `json:"f"`
	City     Ref  `json:"c"`
	District Ref  `json:"ds"`
	Province Ref  `json:"pr"`
	Country  Ref  `json:"t"`
}

// HotelOffers is the per operator, per hotel bucket of offers.
type HotelOffers struct {
	MinPrice         Flex                       `json:"p"`
	MinPriceOriginal Flex                       `json:"po"`
	Offers           map[string]json.RawMessage `json:"offers"`
}

type Availability struct {
	Avia  Flex `json:"avia"`
	Hotel Flex `json:"hotel"`
}

// availableNow is the upstream's code for "confirmed without request".
const availableNow = 9

// Instant reports whether both the flight and the hotel are confirmed
// immediately.
func (a Availability) Instant() bool {
	return a.Hotel.Int() == availableNow && a.Avia.Int() == availableNow
}

type Offer struct {
	ID           Flex         `json:"i"`
	HotelID      Flex         `json:"hi"`
	OperatorID   Flex         `json:"oi"`
	Date         Flex         `json:"d"`
	ReturnDate   Flex         `json:"dt"`
	Nights       Flex         `json:"n"`
	FoodCode     Flex         `json:"f"`
	FoodName     Flex         `json:"fn"`
	Room         Flex         `json:"r"`
	Price        Flex         `json:"p"`
	Currency     Flex         `json:"u"`
	Transport    Flex         `json:"t"`
	Adults       Flex         `json:"a"`
	Children     Flex         `json:"h"`
	Availability Availability `json:"ss"`
}

// DepartureName is the name of the departure city the search ran for.
func (r Response) DepartureName() string {
	return placeName(r.Departure)
}

// CountryName is the name of the destination country the search ran for.
func (r Response) CountryName() string {
	return placeName(r.Country)
}

func placeName(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	var p Place
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}

	return p.Name.String()
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}
