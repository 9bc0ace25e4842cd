package junction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/offers"
)

// errOffersPending means the search has not produced offers yet and should be polled again
var errOffersPending = errors.New("offers not ready")

// pollState is owned by a single PollOffers call so concurrent searches never share progress
type pollState struct {
	mode     ctdf.TransportType
	searchID string
	attempts int
}

// PollOffers fetches the offers of a search, retrying every PollInterval up to PollAttempts times.
// Failed or empty responses are retried. If the final attempt fails its error is returned,
// if it is still empty no offers and no error are returned.
func (c *Client) PollOffers(ctx context.Context, mode ctdf.TransportType, searchID string) ([]offers.Offer, error) {
	state := &pollState{mode: mode, searchID: searchID}
	path := fmt.Sprintf("%s/%s/offers", searchPath(mode), searchID)

	attempts := c.PollAttempts
	if attempts < 1 {
		attempts = 1
	}

	var found []offers.Offer
	operation := func() error {
		state.attempts++

		items, err := c.fetchOffers(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		found = items
		return nil
	}

	notify := func(err error, wait time.Duration) {
		event := log.Debug()
		if !errors.Is(err, errOffersPending) {
			event = log.Warn().Err(err)
		}
		event.
			Str("mode", string(state.mode)).
			Str("search", state.searchID).
			Int("attempt", state.attempts).
			Str("wait", wait.String()).
			Msg("Offers not available yet")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.PollInterval), uint64(attempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(operation, policy, notify)
	if errors.Is(err, errOffersPending) {
		log.Info().Str("mode", string(mode)).Str("search", searchID).Int("attempts", state.attempts).Msg("No offers found")
		return []offers.Offer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("polling %s offers for %s after %d attempts: %w", mode, searchID, state.attempts, err)
	}

	log.Debug().Str("mode", string(mode)).Str("search", searchID).Int("attempts", state.attempts).Int("offers", len(found)).Msg("Offers found")

	return found, nil
}

func (c *Client) fetchOffers(ctx context.Context, path string) ([]offers.Offer, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	if err := Check(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errOffersPending
	}

	var response offers.ListOffersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding offers: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, errOffersPending
	}

	return response.Items, nil
}

// SearchOffers initiates a search and polls it to completion
func (c *Client) SearchOffers(ctx context.Context, mode ctdf.TransportType, request SearchRequest) ([]offers.Offer, error) {
	searchID, err := c.InitiateSearch(ctx, mode, request)
	if err != nil {
		return nil, fmt.Errorf("initiating %s search: %w", mode, err)
	}

	return c.PollOffers(ctx, mode, searchID)
}
