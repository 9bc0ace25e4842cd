package util

import (
	"errors"
	"math"
	"strings"
	"time"
)

var ErrEmptyTimestamp = errors.New("empty timestamp")

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseInstant parses an ISO-8601 timestamp. Timestamps without an offset are read as UTC.
func ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyTimestamp
	}

	var err error
	for _, layout := range instantLayouts {
		var parsed time.Time
		parsed, err = time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, err
}

// RoundHalfUp rounds to the nearest integer with halves going towards positive infinity
func RoundHalfUp(value float64) int64 {
	return int64(math.Floor(value + 0.5))
}

// MinutesBetween is the rounded number of whole minutes from start to end
func MinutesBetween(start time.Time, end time.Time) int {
	return int(RoundHalfUp(end.Sub(start).Minutes()))
}
