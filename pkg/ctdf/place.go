package ctdf

import "strings"

// UnknownCity marks a place whose city could not be resolved. It never matches any other city.
const UnknownCity = "Unknown City"

// PlaceInfo is the display name and resolved city of a leg endpoint
type PlaceInfo struct {
	Name string `groups:"basic"`
	City string `groups:"basic"`
}

func (p PlaceInfo) HasKnownCity() bool {
	city := strings.TrimSpace(p.City)
	return city != "" && !strings.EqualFold(city, UnknownCity)
}

// SameCity reports whether a connection between p and other is possible.
// Cities are compared case-insensitively and the unknown sentinel never matches.
func (p PlaceInfo) SameCity(other PlaceInfo) bool {
	if !p.HasKnownCity() || !other.HasKnownCity() {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(p.City), strings.TrimSpace(other.City))
}

// Place is a station or airport as described by the upstream places API
type Place struct {
	PrimaryIdentifier string   `groups:"basic"`
	PrimaryName       string   `groups:"basic"`
	PlaceTypes        []string `groups:"basic"`

	IATACode    string `groups:"basic"`
	StationCode string `groups:"basic"`
	CountryCode string `groups:"basic"`
	CityName    string `groups:"basic"`
}

func (p *Place) IsAirport() bool {
	for _, placeType := range p.PlaceTypes {
		if placeType == "airport" {
			return true
		}
	}

	return p.IATACode != ""
}

func (p *Place) IsStation() bool {
	for _, placeType := range p.PlaceTypes {
		if placeType == "railway-station" || placeType == "station" {
			return true
		}
	}

	return p.StationCode != ""
}
