package multimodal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/itinerary"
)

var (
	ErrSameOriginAndDestination = errors.New("origin and destination must differ")
	ErrAllSearchesFailed        = errors.New("all searches failed")
)

type modeResult struct {
	mode ctdf.TransportType
	legs []ctdf.Leg
	err  error
}

func (s Source) MultimodalSearchQuery(ctx context.Context, q query.MultimodalSearch) (*ctdf.MultimodalSearchResults, error) {
	if q.Origin == nil || q.Destination == nil {
		return nil, errors.New("origin and destination are required")
	}
	if q.Origin.PrimaryIdentifier == q.Destination.PrimaryIdentifier {
		return nil, ErrSameOriginAndDestination
	}

	aggregator := s.Aggregator
	if aggregator == nil {
		aggregator = &dataaggregator.GlobalAggregator
	}

	searchPool := pool.NewWithResults[modeResult]().WithMaxGoroutines(len(ctdf.SearchableTransportTypes))
	for _, mode := range ctdf.SearchableTransportTypes {
		searchPool.Go(func() modeResult {
			legs, err := dataaggregator.LookupWith[[]ctdf.Leg](ctx, aggregator, q.OffersQuery(mode))
			return modeResult{mode: mode, legs: legs, err: err}
		})
	}

	// Pool results are unordered
	legsByMode := map[ctdf.TransportType][]ctdf.Leg{}
	results := &ctdf.MultimodalSearchResults{
		Origin:      *q.Origin,
		Destination: *q.Destination,
	}
	var searchErrors []error

	for _, result := range searchPool.Wait() {
		if result.err != nil {
			log.Error().Err(result.err).Str("mode", string(result.mode)).Msg("Search failed")

			results.Failures = append(results.Failures, result.mode)
			searchErrors = append(searchErrors, fmt.Errorf("%s: %w", result.mode, result.err))
			continue
		}

		legsByMode[result.mode] = result.legs
	}

	if len(searchErrors) == len(ctdf.SearchableTransportTypes) {
		return nil, fmt.Errorf("%w: %w", ErrAllSearchesFailed, errors.Join(searchErrors...))
	}

	// Keep failures in search order for stable responses
	results.Failures = orderedModes(results.Failures)

	trainLegs := legsByMode[ctdf.TransportTypeTrain]
	flightLegs := legsByMode[ctdf.TransportTypeFlight]

	results.TrainOffers = len(trainLegs)
	results.FlightOffers = len(flightLegs)
	results.Itineraries = itinerary.Build(trainLegs, flightLegs)

	log.Info().
		Str("origin", q.Origin.PrimaryIdentifier).
		Str("destination", q.Destination.PrimaryIdentifier).
		Int("trains", results.TrainOffers).
		Int("flights", results.FlightOffers).
		Int("itineraries", len(results.Itineraries)).
		Msg("Multimodal search complete")

	return results, nil
}

func orderedModes(modes []ctdf.TransportType) []ctdf.TransportType {
	if len(modes) == 0 {
		return nil
	}

	var ordered []ctdf.TransportType
	for _, mode := range ctdf.SearchableTransportTypes {
		for _, candidate := range modes {
			if candidate == mode {
				ordered = append(ordered, mode)
				break
			}
		}
	}

	return ordered
}
