package junction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
)

var (
	ErrMissingLocation     = errors.New("search response has no Location header")
	ErrUnparseableLocation = errors.New("could not parse search id from Location header")
	ErrUnexpectedStatus    = errors.New("unexpected search response status")
)

var searchIDPatterns = map[ctdf.TransportType]*regexp.Regexp{
	ctdf.TransportTypeTrain:  regexp.MustCompile(`train-searches/(train_search_[a-zA-Z0-9]+)`),
	ctdf.TransportTypeFlight: regexp.MustCompile(`flight-searches/(flight_search_[a-zA-Z0-9]+)`),
}

type SearchRequest struct {
	OriginID       string
	DestinationID  string
	DepartureAfter time.Time
	// YYYY-MM-DD, one per passenger
	PassengerDOBs []string
}

type passengerAge struct {
	DateOfBirth string `json:"dateOfBirth"`
}

type searchBody struct {
	OriginID             string         `json:"originId"`
	DestinationID        string         `json:"destinationId"`
	DepartureAfter       string         `json:"departureAfter"`
	ReturnDepartureAfter *string        `json:"returnDepartureAfter"`
	PassengerAges        []passengerAge `json:"passengerAges"`
}

func searchPath(mode ctdf.TransportType) string {
	return fmt.Sprintf("/%s-searches", mode)
}

// InitiateSearch starts an asynchronous search and returns its id from the Location header
func (c *Client) InitiateSearch(ctx context.Context, mode ctdf.TransportType, request SearchRequest) (string, error) {
	pattern, ok := searchIDPatterns[mode]
	if !ok {
		return "", fmt.Errorf("cannot search for %s", mode)
	}

	body := searchBody{
		OriginID:       request.OriginID,
		DestinationID:  request.DestinationID,
		DepartureAfter: request.DepartureAfter.UTC().Format(time.RFC3339),
	}
	for _, dob := range request.PassengerDOBs {
		body.PassengerAges = append(body.PassengerAges, passengerAge{DateOfBirth: dob})
	}

	req, err := c.newRequest(ctx, http.MethodPost, searchPath(mode), body)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	if err := Check(resp); err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", fmt.Errorf("reading %s search response: %w", mode, err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrMissingLocation
	}

	matches := pattern.FindStringSubmatch(location)
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %s", ErrUnparseableLocation, location)
	}

	log.Debug().Str("mode", string(mode)).Str("search", matches[1]).Msg("Initiated search")

	return matches[1], nil
}
