package offers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Offer is a priced, time-bounded train or flight option as returned by the upstream offers API
type Offer struct {
	ID        string         `json:"id"`
	ExpiresAt string         `json:"expiresAt"`
	Price     *Price         `json:"price"`
	Owner     *NamedEntity   `json:"owner"`
	Metadata  *OfferMetadata `json:"metadata"`
	Trips     []Trip         `json:"trips"`
}

type ListOffersResponse struct {
	Items []Offer `json:"items"`
}

type Price struct {
	Amount   Amount `json:"amount"`
	Currency string `json:"currency"`
}

// Amount accepts the decimal amount either as a JSON string or a JSON number
type Amount struct {
	Value string
	Set   bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*a = Amount{Value: value, Set: true}
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		// Objects, arrays and booleans are not amounts
		*a = Amount{}
		return nil
	}
	*a = Amount{Value: number.String(), Set: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a Amount) String() string {
	if !a.Set {
		return "<unset>"
	}
	return a.Value
}

type NamedEntity struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type OfferMetadata struct {
	ProviderID string `json:"providerId"`
}

type Trip struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Origin      SegmentPlace `json:"origin"`
	Destination SegmentPlace `json:"destination"`
	DepartureAt string       `json:"departureAt"`
	ArrivalAt   string       `json:"arrivalAt"`

	Fare             *Fare        `json:"fare"`
	Vehicle          *NamedEntity `json:"vehicle"`
	MarketingCarrier *NamedEntity `json:"marketing_carrier"`
	OperatingCarrier *NamedEntity `json:"operating_carrier"`
}

type Fare struct {
	Type          string `json:"type"`
	MarketingName string `json:"marketingName"`
}

// SegmentPlace is a segment endpoint. Train segments carry a bare place id string,
// flight segments carry an object.
type SegmentPlace struct {
	PlaceID  string
	Name     string
	IATACode string
	CityName string

	Present bool
}

type segmentPlaceObject struct {
	PlaceID       string `json:"placeId"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	IATACode      string `json:"iataCode"`
	CityName      string `json:"city_name"`
	CityNameCamel string `json:"cityName"`
}

func (p *SegmentPlace) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = SegmentPlace{}

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		var placeID string
		if err := json.Unmarshal(data, &placeID); err != nil {
			return err
		}
		*p = SegmentPlace{PlaceID: placeID, Present: true}
		return nil
	case data[0] == '{':
		var object segmentPlaceObject
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}
		*p = SegmentPlace{
			PlaceID:  object.PlaceID,
			Name:     object.Name,
			IATACode: object.IATACode,
			CityName: object.CityName,
			Present:  true,
		}
		if p.PlaceID == "" {
			p.PlaceID = object.ID
		}
		if p.CityName == "" {
			p.CityName = object.CityNameCamel
		}
		return nil
	default:
		return fmt.Errorf("unsupported segment place %s", strconv.Quote(string(data)))
	}
}

func (p SegmentPlace) MarshalJSON() ([]byte, error) {
	if !p.Present {
		return []byte("null"), nil
	}
	if p.Name == "" && p.IATACode == "" && p.CityName == "" {
		return json.Marshal(p.PlaceID)
	}
	return json.Marshal(segmentPlaceObject{
		PlaceID:  p.PlaceID,
		Name:     p.Name,
		IATACode: p.IATACode,
		CityName: p.CityName,
	})
}
