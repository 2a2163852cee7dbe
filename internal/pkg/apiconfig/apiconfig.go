// Package apiconfig keeps the upstream API credentials and hot tours tuning
// that the site operator edits from the admin panel.
package apiconfig

// MaskedAuthKey is what clients see instead of a stored credential. Sending
// it back means "keep the stored value".
const MaskedAuthKey = "••••••••"

const DefaultEndpoint = "https://api.otpusk.com/api/2.6/tours/getResults"

type HotToursSettings struct {
	MinPrice           float64  `json:"minPrice"`
	MaxPrice           float64  `json:"maxPrice"`
	PriorityCountries  []string `json:"priorityCountries"`
	InstantConfirmOnly bool     `json:"instantConfirmOnly"`
	DepartureDaysFrom  int      `json:"departureDaysFrom" validate:"gte=0"`
	DepartureDaysTo    int      `json:"departureDaysTo" validate:"gte=0,gtefield=DepartureDaysFrom"`
}

// APIConfig is the persisted configuration. AgencyID and DomainID are kept
// for reference only, the upstream does not use them.
type APIConfig struct {
	Endpoint         string           `json:"endpoint" validate:"required,url"`
	AgencyID         string           `json:"agencyId"`
	DomainID         string           `json:"domainId"`
	AuthKey          string           `json:"authKey"`
	Currency         string           `json:"currency"`
	HotToursSettings HotToursSettings `json:"hotToursSettings"`
}

// Default returns the configuration used when nothing is stored yet.
func Default() APIConfig {
	return APIConfig{
		Endpoint: DefaultEndpoint,
		Currency: "eur",
		HotToursSettings: HotToursSettings{
			PriorityCountries: []string{},
			DepartureDaysFrom: 1,
			DepartureDaysTo:   14,
		},
	}
}

// Configured reports whether a credential is set.
func (c APIConfig) Configured() bool {
	return c.AuthKey != ""
}

// Masked returns a copy that is safe to send to clients.
func (c APIConfig) Masked() APIConfig {
	if c.AuthKey != "" {
		c.AuthKey = MaskedAuthKey
	}

	c.HotToursSettings.PriorityCountries = append([]string{}, c.HotToursSettings.PriorityCountries...)

	return c
}

// HotToursPatch carries the hot tours fields an admin wants to change.
// Nil fields keep their stored value.
type HotToursPatch struct {
	MinPrice           *float64 `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice           *float64 `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	PriorityCountries  []string `json:"priorityCountries,omitempty"`
	InstantConfirmOnly *bool    `json:"instantConfirmOnly,omitempty"`
	DepartureDaysFrom  *int     `json:"departureDaysFrom,omitempty" validate:"omitempty,gte=0"`
	DepartureDaysTo    *int     `json:"departureDaysTo,omitempty" validate:"omitempty,gte=0"`
}

// Patch is a partial configuration. Nil fields keep their stored value.
type Patch struct {
	Endpoint         *string        `json:"endpoint,omitempty" validate:"omitempty,url"`
	AgencyID         *string        `json:"agencyId,omitempty"`
	DomainID         *string        `json:"domainId,omitempty"`
	AuthKey          *string        `json:"authKey,omitempty"`
	Currency         *string        `json:"currency,omitempty"`
	HotToursSettings *HotToursPatch `json:"hotToursSettings,omitempty"`
}

// Apply merges p onto c field by field. An auth key equal to MaskedAuthKey
// is the client echoing the masked value and leaves the stored key alone.
func (c APIConfig) Apply(p Patch) APIConfig {
	setString(&c.Endpoint, p.Endpoint)
	setString(&c.AgencyID, p.AgencyID)
	setString(&c.DomainID, p.DomainID)
	setString(&c.Currency, p.Currency)

	if p.AuthKey != nil && *p.AuthKey != MaskedAuthKey {
		c.AuthKey = *p.AuthKey
	}

	c.HotToursSettings.PriorityCountries = append([]string{}, c.HotToursSettings.PriorityCountries...)

	if h := p.HotToursSettings; h != nil {
		s := &c.HotToursSettings
		if h.MinPrice != nil {
			s.MinPrice = *h.MinPrice
		}
		if h.MaxPrice != nil {
			s.MaxPrice = *h.MaxPrice
		}
		if h.PriorityCountries != nil {
			s.PriorityCountries = append([]string{}, h.PriorityCountries...)
		}
		if h.InstantConfirmOnly != nil {
			s.InstantConfirmOnly = *h.InstantConfirmOnly
		}
		if h.DepartureDaysFrom != nil {
			s.DepartureDaysFrom = *h.DepartureDaysFrom
		}
		if h.DepartureDaysTo != nil {
			s.DepartureDaysTo = *h.DepartureDaysTo
		}
	}

	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
