package carrental

import (
	"bytes"
	"cmp"
	"context"
	_ "embed"
	"fmt"
	"reflect"
	"strings"

	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/dataaggregator/source"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed inventory.yaml
var inventoryYAML []byte

// Source serves the static car rental inventory
type Source struct {
	inventory []ctdf.CarRental
}

func (s *Source) Setup() error {
	inventory, err := parseInventory(inventoryYAML)
	if err != nil {
		return err
	}

	s.inventory = inventory
	return nil
}

func parseInventory(data []byte) ([]ctdf.CarRental, error) {
	var inventory []ctdf.CarRental

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&inventory); err != nil {
		return nil, fmt.Errorf("reading car rental inventory: %w", err)
	}

	return inventory, nil
}

func (s *Source) GetName() string {
	return "Car Rentals"
}

func (s *Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.CarRental{}),
	}
}

func (s *Source) Lookup(_ context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.CarRentals:
		return s.CarRentalsQuery(q), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}

// CarRentalsQuery returns the rentals in a city, cheapest first
func (s *Source) CarRentalsQuery(q query.CarRentals) []ctdf.CarRental {
	city := strings.TrimSpace(q.City)
	rentals := []ctdf.CarRental{}

	for _, rental := range s.inventory {
		if strings.EqualFold(rental.City, city) {
			rentals = append(rentals, rental)
		}
	}

	slices.SortStableFunc(rentals, func(a, b ctdf.CarRental) int {
		return cmp.Compare(a.PricePerDay, b.PricePerDay)
	})

	return rentals
}
