package junction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/multimodal/pkg/ctdf"
)

const offersBody = `{"items": [{"id": "offer_1", "price": {"amount": "10.00", "currency": "EUR"}, "trips": []}]}`

func testClient(server *httptest.Server) *Client {
	client := NewClient(server.URL, "test-key")
	client.PollAttempts = 3
	client.PollInterval = time.Millisecond
	client.HTTPClient = server.Client()
	return client
}

func TestInitiateSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/train-searches", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "place_a", body["originId"])
		assert.Equal(t, "place_b", body["destinationId"])
		assert.Equal(t, "2025-03-01T08:00:00Z", body["departureAfter"])
		assert.Contains(t, body, "returnDepartureAfter")
		assert.Nil(t, body["returnDepartureAfter"])
		assert.Equal(t, []any{map[string]any{"dateOfBirth": "1990-01-01"}}, body["passengerAges"])

		w.Header().Set("Location", "/train-searches/train_search_abc123/offers")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	searchID, err := testClient(server).InitiateSearch(context.Background(), ctdf.TransportTypeTrain, SearchRequest{
		OriginID:       "place_a",
		DestinationID:  "place_b",
		DepartureAfter: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		PassengerDOBs:  []string{"1990-01-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, "train_search_abc123", searchID)
}

func TestInitiateSearchTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/train-searches/train_search_abc123/offers")
		w.Header().Set("Content-Length", "64")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	_, err := testClient(server).InitiateSearch(context.Background(), ctdf.TransportTypeTrain, SearchRequest{
		OriginID:      "place_a",
		DestinationID: "place_b",
		PassengerDOBs: []string{"1990-01-01"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading train search response")
}

func TestInitiateSearchFailures(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		location string
		check    func(t *testing.T, err error)
	}{
		{"upstream error", http.StatusBadRequest, "", func(t *testing.T, err error) {
			var httpError *HTTPError
			require.ErrorAs(t, err, &httpError)
			assert.Equal(t, http.StatusBadRequest, httpError.StatusCode)
			assert.Contains(t, httpError.Body, "bad origin")
		}},
		{"unexpected status", http.StatusOK, "/flight-searches/flight_search_abc", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnexpectedStatus)
		}},
		{"no location", http.StatusCreated, "", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrMissingLocation)
		}},
		{"wrong mode in location", http.StatusCreated, "/train-searches/train_search_abc", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnparseableLocation)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.location != "" {
					w.Header().Set("Location", tc.location)
				}
				w.WriteHeader(tc.status)
				if tc.status >= 400 {
					fmt.Fprint(w, `{"error": "bad origin"}`)
				}
			}))
			defer server.Close()

			_, err := testClient(server).InitiateSearch(context.Background(), ctdf.TransportTypeFlight, SearchRequest{})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestPollOffersRetriesUntilItems(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flight-searches/flight_search_1/offers", r.URL.Path)

		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusOK)
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			fmt.Fprint(w, offersBody)
		}
	}))
	defer server.Close()

	items, err := testClient(server).PollOffers(context.Background(), ctdf.TransportTypeFlight, "flight_search_1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "offer_1", items[0].ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollOffersExhaustedWhileEmpty(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	items, err := testClient(server).PollOffers(context.Background(), ctdf.TransportTypeTrain, "train_search_1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollOffersFinalAttemptFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			fmt.Fprint(w, `{"items": []}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server).PollOffers(context.Background(), ctdf.TransportTypeTrain, "train_search_1")

	var httpError *HTTPError
	require.ErrorAs(t, err, &httpError)
	assert.Equal(t, http.StatusInternalServerError, httpError.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollOffersHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	client := testClient(server)
	client.PollAttempts = 100
	client.PollInterval = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.PollOffers(ctx, ctdf.TransportTypeTrain, "train_search_1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSearchPlaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("filter[name][like]"))
		assert.Equal(t, "10", r.URL.Query().Get("page[limit]"))

		fmt.Fprint(w, `{"items": [
			{"id": "place_1", "name": "Paris Gare de Lyon", "placeTypes": ["railway-station"], "stationCode": "FRPLY", "countryCode": "FR", "cityName": "Paris"},
			{"id": "place_2", "name": "Charles de Gaulle", "placeTypes": ["airport"], "iataCode": "CDG", "countryCode": "FR"}
		]}`)
	}))
	defer server.Close()

	places, err := testClient(server).SearchPlaces(context.Background(), "Paris", 0)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "place_1", places[0].PrimaryIdentifier)
	assert.Equal(t, "Paris", places[0].CityName)
	assert.True(t, places[0].IsStation())
	assert.Equal(t, "CDG", places[1].IATACode)
	assert.True(t, places[1].IsAirport())
}

func TestBookingLifecycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings":
			var body CreateBookingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "offer_1", body.OfferID)
			require.Len(t, body.Passengers, 1)
			assert.Equal(t, "Ada", body.Passengers[0].FirstName)

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"booking": {"id": "booking_1", "status": "pending", "price": {"amount": "10.00", "currency": "EUR"}}}`)
		case "/bookings/booking_1/confirm":
			fmt.Fprint(w, `{"id": "booking_1", "status": "confirmed"}`)
		case "/bookings/booking_1/cancel":
			fmt.Fprint(w, `{"id": "booking_1", "status": "cancelled"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := testClient(server)
	ctx := context.Background()

	booking, err := client.CreateBooking(ctx, CreateBookingRequest{
		OfferID:    "offer_1",
		Passengers: []ctdf.Passenger{{FirstName: "Ada", LastName: "Lovelace"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "booking_1", booking.ID)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, "10.00", booking.Price.Amount.Value)

	booking, err = client.ConfirmBooking(ctx, "booking_1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", booking.Status)

	booking, err = client.CancelBooking(ctx, "booking_1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", booking.Status)

	_, err = client.ConfirmBooking(ctx, "missing")
	var httpError *HTTPError
	require.ErrorAs(t, err, &httpError)
	assert.Equal(t, http.StatusNotFound, httpError.StatusCode)
}

func TestNewClientFromEnvironment(t *testing.T) {
	t.Setenv("TRAVIGO_JUNCTION_API_KEY", "")
	_, err := NewClientFromEnvironment()
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	t.Setenv("TRAVIGO_JUNCTION_API_KEY", "key")
	t.Setenv("TRAVIGO_JUNCTION_API_URL", "http://localhost:1234/")
	t.Setenv("TRAVIGO_JUNCTION_POLL_ATTEMPTS", "4")
	t.Setenv("TRAVIGO_JUNCTION_POLL_INTERVAL", "250ms")

	client, err := NewClientFromEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234", client.BaseURL)
	assert.Equal(t, 4, client.PollAttempts)
	assert.Equal(t, 250*time.Millisecond, client.PollInterval)
}
