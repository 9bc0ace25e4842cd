package query

import (
	"time"

	"github.com/travigo/multimodal/pkg/ctdf"
)

// Offers asks for the normalised legs of one mode between two places
type Offers struct {
	Mode ctdf.TransportType

	Origin      *ctdf.Place
	Destination *ctdf.Place

	DepartureAfter time.Time
	PassengerDOBs  []string
}
