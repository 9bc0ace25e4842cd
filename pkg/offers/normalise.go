package offers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/util"
)

var (
	ErrNoTrips           = errors.New("offer has no trips")
	ErrNoSegments        = errors.New("offer trip has no segments")
	ErrMissingTimestamp  = errors.New("missing departure or arrival time")
	ErrInvalidTimestamp  = errors.New("unparseable departure or arrival time")
	ErrMissingPrice      = errors.New("missing price amount")
	ErrInvalidPrice      = errors.New("invalid price amount")
	ErrUnsupportedOffers = errors.New("unsupported transport type")
)

const (
	unknownTrainOperator = "Unknown Train Operator"
	unknownAirline       = "Unknown Airline"
	unknownStation       = "Unknown Station"
	unknownPlace         = "Unknown Place"
)

// ToTrainLeg normalises a train offer. Train segments only reference place ids so the
// endpoint names come from the places the search was made between.
func ToTrainLeg(offer Offer, origin *ctdf.Place, destination *ctdf.Place) (ctdf.Leg, error) {
	leg, first, _, err := baseLeg(offer, ctdf.TransportTypeTrain)
	if err != nil {
		return ctdf.Leg{}, err
	}

	leg.Operator = resolveOperator(trainOperatorStrategies, offer, first, unknownTrainOperator)
	leg.From = trainPlaceInfo(origin)
	leg.To = trainPlaceInfo(destination)

	return leg, nil
}

func ToFlightLeg(offer Offer) (ctdf.Leg, error) {
	leg, first, last, err := baseLeg(offer, ctdf.TransportTypeFlight)
	if err != nil {
		return ctdf.Leg{}, err
	}

	leg.Operator = resolveOperator(flightOperatorStrategies, offer, first, unknownAirline)
	leg.From = flightPlaceInfo(first.Origin)
	leg.To = flightPlaceInfo(last.Destination)

	return leg, nil
}

// NormaliseTrainOffers drops offers that fail validation and never aborts the batch
func NormaliseTrainOffers(offers []Offer, origin *ctdf.Place, destination *ctdf.Place) []ctdf.Leg {
	return normaliseAll(ctdf.TransportTypeTrain, offers, func(offer Offer) (ctdf.Leg, error) {
		return ToTrainLeg(offer, origin, destination)
	})
}

func NormaliseFlightOffers(offers []Offer) []ctdf.Leg {
	return normaliseAll(ctdf.TransportTypeFlight, offers, ToFlightLeg)
}

// Normalise dispatches on mode
func Normalise(mode ctdf.TransportType, offers []Offer, origin *ctdf.Place, destination *ctdf.Place) ([]ctdf.Leg, error) {
	switch mode {
	case ctdf.TransportTypeTrain:
		return NormaliseTrainOffers(offers, origin, destination), nil
	case ctdf.TransportTypeFlight:
		return NormaliseFlightOffers(offers), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOffers, mode)
	}
}

func normaliseAll(mode ctdf.TransportType, offers []Offer, normalise func(Offer) (ctdf.Leg, error)) []ctdf.Leg {
	legs := make([]ctdf.Leg, 0, len(offers))

	for _, offer := range offers {
		leg, err := safeNormalise(offer, normalise)
		if err != nil {
			log.Warn().Err(err).Str("offer", offer.ID).Str("mode", string(mode)).Msg("Dropping offer")
			continue
		}

		legs = append(legs, leg)
	}

	log.Debug().Str("mode", string(mode)).Int("offers", len(offers)).Int("legs", len(legs)).Msg("Normalised offers")

	return legs
}

func safeNormalise(offer Offer, normalise func(Offer) (ctdf.Leg, error)) (leg ctdf.Leg, err error) {
	defer func() {
		if r := recover(); r != nil {
			leg = ctdf.Leg{}
			err = fmt.Errorf("normalising offer panicked: %v", r)
		}
	}()

	return normalise(offer)
}

// baseLeg validates the shared parts of an offer and fills in everything but operator and places.
// The first and last segments of the first trip are returned for the endpoints.
func baseLeg(offer Offer, mode ctdf.TransportType) (ctdf.Leg, Segment, Segment, error) {
	if len(offer.Trips) == 0 {
		return ctdf.Leg{}, Segment{}, Segment{}, ErrNoTrips
	}
	segments := offer.Trips[0].Segments
	if len(segments) == 0 {
		return ctdf.Leg{}, Segment{}, Segment{}, ErrNoSegments
	}
	first := segments[0]
	last := segments[len(segments)-1]

	if strings.TrimSpace(first.DepartureAt) == "" || strings.TrimSpace(last.ArrivalAt) == "" {
		return ctdf.Leg{}, Segment{}, Segment{}, ErrMissingTimestamp
	}
	depart, err := util.ParseInstant(first.DepartureAt)
	if err != nil {
		return ctdf.Leg{}, Segment{}, Segment{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, first.DepartureAt)
	}
	arrive, err := util.ParseInstant(last.ArrivalAt)
	if err != nil {
		return ctdf.Leg{}, Segment{}, Segment{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, last.ArrivalAt)
	}

	price, err := minorUnits(offer.Price)
	if err != nil {
		return ctdf.Leg{}, Segment{}, Segment{}, err
	}

	duration := util.MinutesBetween(depart, arrive)
	leg := ctdf.Leg{
		ID:              offer.ID,
		Mode:            mode,
		Depart:          first.DepartureAt,
		Arrive:          last.ArrivalAt,
		Price:           price,
		DurationMinutes: &duration,
	}
	if offer.Price != nil {
		leg.Currency = offer.Price.Currency
	}

	return leg, first, last, nil
}

func minorUnits(price *Price) (int64, error) {
	if price == nil || !price.Amount.Set {
		return 0, ErrMissingPrice
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(price.Amount.Value), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price.Amount.Value)
	}

	return util.RoundHalfUp(amount * 100), nil
}
