package junction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/travigo/multimodal/pkg/util"
)

const (
	DefaultBaseURL      = "https://content-api.sandbox.junction.dev"
	DefaultPollAttempts = 10
	DefaultPollInterval = 2 * time.Second

	apiKeyHeader = "x-api-key"
)

var ErrMissingAPIKey = errors.New("junction API key not configured")

// Client talks to the upstream content API for searches, places and bookings
type Client struct {
	BaseURL string
	APIKey  string

	PollAttempts int
	PollInterval time.Duration

	HTTPClient *http.Client
}

func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		PollAttempts: DefaultPollAttempts,
		PollInterval: DefaultPollInterval,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func NewClientFromEnvironment() (*Client, error) {
	env := util.GetEnvironmentVariables()

	apiKey := util.EnvironmentString(env, "TRAVIGO_JUNCTION_API_KEY", "")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := NewClient(util.EnvironmentString(env, "TRAVIGO_JUNCTION_API_URL", DefaultBaseURL), apiKey)
	client.PollAttempts = util.EnvironmentInt(env, "TRAVIGO_JUNCTION_POLL_ATTEMPTS", DefaultPollAttempts)
	client.PollInterval = util.EnvironmentDuration(env, "TRAVIGO_JUNCTION_POLL_INTERVAL", DefaultPollInterval)

	return client, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) newRequest(ctx context.Context, method string, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// doJSON performs the request and decodes a successful response into out when out is not nil
func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	if err := Check(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}

	return nil
}
