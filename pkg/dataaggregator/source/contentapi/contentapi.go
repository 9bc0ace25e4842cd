package contentapi

import (
	"context"
	"reflect"

	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/dataaggregator/source"
	"github.com/travigo/multimodal/pkg/junction"
	"github.com/travigo/multimodal/pkg/offers"
)

type Client interface {
	SearchOffers(ctx context.Context, mode ctdf.TransportType, request junction.SearchRequest) ([]offers.Offer, error)
	SearchPlaces(ctx context.Context, name string, limit int) ([]ctdf.Place, error)
}

// Source serves normalised legs and places from the upstream content API
type Source struct {
	Client Client
}

func (s Source) GetName() string {
	return "Junction Content API"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.Leg{}),
		reflect.TypeOf([]ctdf.Place{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Offers:
		return s.OffersQuery(ctx, q)
	case query.Places:
		return s.Client.SearchPlaces(ctx, q.Name, q.Limit)
	default:
		return nil, source.UnsupportedSourceError
	}
}
