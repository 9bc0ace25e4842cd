package dataaggregator

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/dataaggregator/source"
)

var ErrNoMatchingSource = errors.New("failed to find a matching data source for type")

type Aggregator struct {
	Sources []DataSource
}

var GlobalAggregator Aggregator

func (a *Aggregator) RegisterSource(source DataSource) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("name", source.GetName()).Msg("Registering new Data Source")
}

// Lookup queries the global aggregator
func Lookup[T any](ctx context.Context, query any) (T, error) {
	return LookupWith[T](ctx, &GlobalAggregator, query)
}

// LookupWith asks each source supporting T in registration order.
// A source answering with source.UnsupportedSourceError passes the query on to the next one.
func LookupWith[T any](ctx context.Context, aggregator *Aggregator, query any) (T, error) {
	var empty T

	lookupType := reflect.TypeOf(*new(T))
	if lookupType.Kind() == reflect.Pointer {
		lookupType = lookupType.Elem()
	}

	for _, dataSource := range aggregator.Sources {
		if !supports(dataSource, lookupType) {
			continue
		}

		returnValue, err := dataSource.Lookup(ctx, query)
		if errors.Is(err, source.UnsupportedSourceError) {
			continue
		}

		if returnValue == nil {
			return empty, err
		}

		typedValue, ok := returnValue.(T)
		if !ok {
			return empty, fmt.Errorf("%s returned %T for %s", dataSource.GetName(), returnValue, lookupType)
		}

		return typedValue, err
	}

	return empty, fmt.Errorf("%w %s", ErrNoMatchingSource, lookupType)
}

func supports(dataSource DataSource, lookupType reflect.Type) bool {
	for _, supportedType := range dataSource.Supports() {
		if lookupType == supportedType {
			return true
		}
	}

	return false
}
