package multimodal

import (
	"context"
	"reflect"

	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/dataaggregator/source"
)

// Source runs a train and a flight search concurrently and combines them into itineraries.
// Leg lookups go through Aggregator so any source supporting []ctdf.Leg can serve them.
type Source struct {
	Aggregator *dataaggregator.Aggregator
}

func (s Source) GetName() string {
	return "Multimodal Search"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.MultimodalSearchResults{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.MultimodalSearch:
		return s.MultimodalSearchQuery(ctx, q)
	default:
		return nil, source.UnsupportedSourceError
	}
}
