package ctdf

import "github.com/travigo/multimodal/pkg/util"

type Itinerary struct {
	ID   string `groups:"basic"`
	Legs []Leg  `groups:"basic"`

	// Minutes from the first departure to the last arrival
	TotalDuration int `groups:"basic"`
	// Minor currency units
	TotalPrice int64 `groups:"basic"`
	Transfers  int   `groups:"basic"`
}

func (i *Itinerary) Modes() []string {
	var modes []string
	for _, leg := range i.Legs {
		modes = append(modes, string(leg.Mode))
	}

	return util.RemoveDuplicateStrings(modes, nil)
}

func (i *Itinerary) Operators() []string {
	var operators []string
	for _, leg := range i.Legs {
		operators = append(operators, leg.Operator)
	}

	return util.RemoveDuplicateStrings(operators, nil)
}

func (i *Itinerary) Currency() string {
	if len(i.Legs) == 0 {
		return ""
	}

	return i.Legs[0].Currency
}

type MultimodalSearchResults struct {
	Itineraries []Itinerary `groups:"basic"`

	Origin      Place `groups:"basic"`
	Destination Place `groups:"basic"`

	TrainOffers  int `groups:"detailed"`
	FlightOffers int `groups:"detailed"`

	// Modes whose offers could not be retrieved
	Failures []TransportType `groups:"basic"`
}

func (r *MultimodalSearchResults) Partial() bool {
	return len(r.Failures) > 0
}
