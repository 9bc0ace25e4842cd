package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/travigo/multimodal/pkg/ctdf"
)

type MultimodalSearch struct {
	Origin      *ctdf.Place
	Destination *ctdf.Place

	DepartureAfter time.Time
	PassengerDOBs  []string
}

// CacheKey identifies searches that would produce identical results.
// Place names and cities are part of it as train legs take their city identity from them.
func (q MultimodalSearch) CacheKey() string {
	return fmt.Sprintf("multimodal/%s/%s/%s/%s",
		placeKey(q.Origin),
		placeKey(q.Destination),
		q.DepartureAfter.UTC().Format(time.RFC3339),
		strings.Join(q.PassengerDOBs, ","),
	)
}

func placeKey(place *ctdf.Place) string {
	if place == nil {
		return ""
	}

	return strings.Join([]string{
		url.PathEscape(place.PrimaryIdentifier),
		url.PathEscape(place.PrimaryName),
		url.PathEscape(place.CityName),
	}, ":")
}

func (q MultimodalSearch) OffersQuery(mode ctdf.TransportType) Offers {
	return Offers{
		Mode:           mode,
		Origin:         q.Origin,
		Destination:    q.Destination,
		DepartureAfter: q.DepartureAfter,
		PassengerDOBs:  q.PassengerDOBs,
	}
}
