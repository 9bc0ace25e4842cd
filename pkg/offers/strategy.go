package offers

import (
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/util"
)

// operatorStrategy returns a candidate operator name or "" to defer to the next strategy
type operatorStrategy func(offer Offer, first Segment) string

var trainOperatorStrategies = []operatorStrategy{
	func(_ Offer, first Segment) string {
		if first.Vehicle == nil {
			return ""
		}
		return first.Vehicle.Name
	},
	func(offer Offer, _ Segment) string {
		if offer.Metadata == nil {
			return ""
		}
		return offer.Metadata.ProviderID
	},
}

var flightOperatorStrategies = []operatorStrategy{
	func(offer Offer, _ Segment) string {
		if offer.Owner == nil {
			return ""
		}
		return offer.Owner.Name
	},
	func(_ Offer, first Segment) string {
		if first.MarketingCarrier == nil {
			return ""
		}
		return first.MarketingCarrier.Name
	},
	func(_ Offer, first Segment) string {
		if first.OperatingCarrier == nil {
			return ""
		}
		return first.OperatingCarrier.Name
	},
}

func resolveOperator(strategies []operatorStrategy, offer Offer, first Segment, fallback string) string {
	for _, strategy := range strategies {
		if name := util.FirstNonBlank(strategy(offer, first)); name != "" {
			return name
		}
	}

	return fallback
}

// cityStrategy returns a candidate city or "" to defer to the next strategy
type cityStrategy func(name string, explicitCity string) string

var cityStrategies = []cityStrategy{
	func(_ string, explicitCity string) string {
		return explicitCity
	},
	func(name string, _ string) string {
		_, suffix, ok := util.SplitLastComma(name)
		if !ok {
			return ""
		}
		return suffix
	},
}

func resolvePlaceInfo(name string, explicitCity string, cityFallback string) ctdf.PlaceInfo {
	city := cityFallback
	for _, strategy := range cityStrategies {
		if candidate := util.FirstNonBlank(strategy(name, explicitCity)); candidate != "" {
			city = candidate
			break
		}
	}

	displayName := name
	if prefix, _, ok := util.SplitLastComma(name); ok && city != ctdf.UnknownCity && city != name {
		displayName = prefix
	}

	return ctdf.PlaceInfo{Name: displayName, City: city}
}

// trainPlaceInfo falls back to the full station name as the city
func trainPlaceInfo(place *ctdf.Place) ctdf.PlaceInfo {
	if place == nil || place.PrimaryName == "" {
		return ctdf.PlaceInfo{Name: unknownStation, City: ctdf.UnknownCity}
	}

	return resolvePlaceInfo(place.PrimaryName, place.CityName, place.PrimaryName)
}

// flightPlaceInfo falls back to the unknown city sentinel
func flightPlaceInfo(place SegmentPlace) ctdf.PlaceInfo {
	if !place.Present {
		return ctdf.PlaceInfo{Name: unknownPlace, City: ctdf.UnknownCity}
	}

	name := util.FirstNonBlank(place.Name, unknownPlace)

	return resolvePlaceInfo(name, place.CityName, ctdf.UnknownCity)
}
