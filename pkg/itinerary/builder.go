package itinerary

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/util"
	"golang.org/x/exp/slices"
)

// MinimumTransferTime is the smallest gap allowed between arriving on one leg and departing on the next
const MinimumTransferTime = 60 * time.Minute

var ErrNoLegs = errors.New("itinerary has no legs")

const (
	prefixTrainDirect  = "train_direct"
	prefixFlightDirect = "flight_direct"
	prefixTrainFlight  = "train_flight"
	prefixFlightTrain  = "flight_train"
)

// Build assembles direct and two-leg connecting itineraries from normalised train and flight legs.
// The result is ordered by total duration, ties keep insertion order:
// direct trains, direct flights, train then flight, flight then train.
func Build(trainLegs []ctdf.Leg, flightLegs []ctdf.Leg) []ctdf.Itinerary {
	itineraries := []ctdf.Itinerary{}

	for _, leg := range trainLegs {
		if itinerary, err := newItinerary(prefixTrainDirect, leg); err == nil {
			itineraries = append(itineraries, itinerary)
		}
	}
	for _, leg := range flightLegs {
		if itinerary, err := newItinerary(prefixFlightDirect, leg); err == nil {
			itineraries = append(itineraries, itinerary)
		}
	}

	itineraries = append(itineraries, connect(prefixTrainFlight, trainLegs, flightLegs)...)
	itineraries = append(itineraries, connect(prefixFlightTrain, flightLegs, trainLegs)...)

	slices.SortStableFunc(itineraries, func(a, b ctdf.Itinerary) int {
		return cmp.Compare(a.TotalDuration, b.TotalDuration)
	})

	log.Debug().
		Int("trains", len(trainLegs)).
		Int("flights", len(flightLegs)).
		Int("itineraries", len(itineraries)).
		Msg("Built itineraries")

	return itineraries
}

func connect(prefix string, firstLegs []ctdf.Leg, secondLegs []ctdf.Leg) []ctdf.Itinerary {
	var itineraries []ctdf.Itinerary

	for _, first := range firstLegs {
		for _, second := range secondLegs {
			if !Connects(first, second) {
				continue
			}

			itinerary, err := newItinerary(prefix, first, second)
			if err != nil {
				continue
			}
			itineraries = append(itineraries, itinerary)
		}
	}

	return itineraries
}

// Connects reports whether second can follow first: different modes, the same known city
// at the interchange and at least MinimumTransferTime between them.
// Unparseable timestamps never connect.
func Connects(first ctdf.Leg, second ctdf.Leg) bool {
	if first.Mode == second.Mode {
		return false
	}
	if !first.To.SameCity(second.From) {
		return false
	}

	arrive, err := util.ParseInstant(first.Arrive)
	if err != nil {
		return false
	}
	depart, err := util.ParseInstant(second.Depart)
	if err != nil {
		return false
	}

	return depart.Sub(arrive) >= MinimumTransferTime
}

func newItinerary(prefix string, legs ...ctdf.Leg) (ctdf.Itinerary, error) {
	totalDuration, err := TotalDuration(legs)
	if err != nil {
		log.Warn().Err(err).Str("kind", prefix).Msg("Skipping itinerary")
		return ctdf.Itinerary{}, err
	}

	var totalPrice int64
	for _, leg := range legs {
		totalPrice += leg.Price
	}

	return ctdf.Itinerary{
		ID:            fmt.Sprintf("%s_%s", prefix, uuid.NewString()),
		Legs:          legs,
		TotalDuration: totalDuration,
		TotalPrice:    totalPrice,
		Transfers:     len(legs) - 1,
	}, nil
}

// TotalDuration is the minutes from the first departure to the last arrival.
// A single leg uses its cached duration when present. Unparseable timestamps count as 0.
func TotalDuration(legs []ctdf.Leg) (int, error) {
	if len(legs) == 0 {
		return 0, ErrNoLegs
	}

	if len(legs) == 1 {
		duration, ok := legs[0].Duration()
		if !ok {
			log.Warn().Str("leg", legs[0].ID).Msg("Could not determine leg duration")
			return 0, nil
		}
		return duration, nil
	}

	depart, err := util.ParseInstant(legs[0].Depart)
	if err != nil {
		log.Warn().Str("leg", legs[0].ID).Msg("Could not parse itinerary departure")
		return 0, nil
	}
	arrive, err := util.ParseInstant(legs[len(legs)-1].Arrive)
	if err != nil {
		log.Warn().Str("leg", legs[len(legs)-1].ID).Msg("Could not parse itinerary arrival")
		return 0, nil
	}

	return util.MinutesBetween(depart, arrive), nil
}
