package ctdf

import (
	"github.com/travigo/multimodal/pkg/util"
)

// Leg is one mode-uniform segment of travel produced from a single upstream offer
type Leg struct {
	ID       string        `groups:"basic"`
	Mode     TransportType `groups:"basic"`
	Operator string        `groups:"basic"`

	From PlaceInfo `groups:"basic"`
	To   PlaceInfo `groups:"basic"`

	// ISO-8601 instants as supplied upstream
	Depart string `groups:"basic"`
	Arrive string `groups:"basic"`

	// Minor currency units
	Price    int64  `groups:"basic"`
	Currency string `groups:"basic"`

	// Cached value, recompute from Depart and Arrive when absent
	DurationMinutes *int `groups:"basic" json:",omitempty"`
}

// Duration returns the cached duration or recomputes it from the timestamps.
// ok is false when neither is possible.
func (l *Leg) Duration() (int, bool) {
	if l.DurationMinutes != nil {
		return *l.DurationMinutes, true
	}

	return l.ComputeDuration()
}

// ComputeDuration always derives the duration from Depart and Arrive
func (l *Leg) ComputeDuration() (int, bool) {
	depart, err := util.ParseInstant(l.Depart)
	if err != nil {
		return 0, false
	}
	arrive, err := util.ParseInstant(l.Arrive)
	if err != nil {
		return 0, false
	}

	return util.MinutesBetween(depart, arrive), true
}
