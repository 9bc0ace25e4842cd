package itinerary

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/util"
)

// FilterEnvironment is what filter expressions are evaluated against, eg.
// `totalPrice < 20000 && "flight" in modes`
type FilterEnvironment struct {
	TotalPrice    int64    `expr:"totalPrice"`
	TotalDuration int      `expr:"totalDuration"`
	Transfers     int      `expr:"transfers"`
	Modes         []string `expr:"modes"`
	Operators     []string `expr:"operators"`
	Currency      string   `expr:"currency"`
}

type FilterOptions struct {
	Expression string

	// Zero means no limit
	MaxDuration int
	// Negative means no limit
	MaxTransfers int
	// Zero means no limit
	Count int
}

func NewFilterOptions() FilterOptions {
	return FilterOptions{MaxTransfers: -1}
}

func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(FilterEnvironment{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	return program, nil
}

func filterEnvironment(itinerary *ctdf.Itinerary) FilterEnvironment {
	return FilterEnvironment{
		TotalPrice:    itinerary.TotalPrice,
		TotalDuration: itinerary.TotalDuration,
		Transfers:     itinerary.Transfers,
		Modes:         itinerary.Modes(),
		Operators:     itinerary.Operators(),
		Currency:      itinerary.Currency(),
	}
}

// Filter returns a new slice of the itineraries matching options, order is preserved
func Filter(itineraries []ctdf.Itinerary, options FilterOptions) ([]ctdf.Itinerary, error) {
	filtered := make([]ctdf.Itinerary, len(itineraries))
	copy(filtered, itineraries)

	if options.MaxDuration > 0 {
		filtered = util.InPlaceFilter(filtered, func(itinerary ctdf.Itinerary) bool {
			return itinerary.TotalDuration <= options.MaxDuration
		})
	}
	if options.MaxTransfers >= 0 {
		filtered = util.InPlaceFilter(filtered, func(itinerary ctdf.Itinerary) bool {
			return itinerary.Transfers <= options.MaxTransfers
		})
	}

	if options.Expression != "" {
		program, err := CompileFilter(options.Expression)
		if err != nil {
			return nil, err
		}

		var matching []ctdf.Itinerary
		for i := range filtered {
			output, err := expr.Run(program, filterEnvironment(&filtered[i]))
			if err != nil {
				return nil, fmt.Errorf("evaluating filter on %s: %w", filtered[i].ID, err)
			}
			if output.(bool) {
				matching = append(matching, filtered[i])
			}
		}
		filtered = matching
	}

	if options.Count > 0 && len(filtered) > options.Count {
		filtered = filtered[:options.Count]
	}

	if filtered == nil {
		filtered = []ctdf.Itinerary{}
	}

	return filtered, nil
}
