package contentapi

import (
	"context"
	"errors"

	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/junction"
	"github.com/travigo/multimodal/pkg/offers"
)

var ErrMissingPlaces = errors.New("origin and destination are required")

func (s Source) OffersQuery(ctx context.Context, q query.Offers) ([]ctdf.Leg, error) {
	if q.Origin == nil || q.Destination == nil {
		return nil, ErrMissingPlaces
	}

	rawOffers, err := s.Client.SearchOffers(ctx, q.Mode, junction.SearchRequest{
		OriginID:       q.Origin.PrimaryIdentifier,
		DestinationID:  q.Destination.PrimaryIdentifier,
		DepartureAfter: q.DepartureAfter,
		PassengerDOBs:  q.PassengerDOBs,
	})
	if err != nil {
		return nil, err
	}

	return offers.Normalise(q.Mode, rawOffers, q.Origin, q.Destination)
}
