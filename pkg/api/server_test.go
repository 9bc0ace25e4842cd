package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/multimodal/pkg/bookings"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/dataaggregator/source"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/carrental"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/multimodal"
	"github.com/travigo/multimodal/pkg/junction"
)

type fakeContentSource struct {
	legs map[ctdf.TransportType][]ctdf.Leg
	fail map[ctdf.TransportType]error
}

func (f *fakeContentSource) GetName() string {
	return "Fake Content"
}

func (f *fakeContentSource) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.Leg{}),
		reflect.TypeOf([]ctdf.Place{}),
	}
}

func (f *fakeContentSource) Lookup(_ context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Offers:
		if err := f.fail[q.Mode]; err != nil {
			return nil, err
		}
		return f.legs[q.Mode], nil
	case query.Places:
		return []ctdf.Place{{PrimaryIdentifier: "pl_paris", PrimaryName: q.Name, CityName: "Paris"}}, nil
	default:
		return nil, source.UnsupportedSourceError
	}
}

type memoryRepository struct {
	mutex    sync.Mutex
	bookings map[string]*ctdf.Booking
}

func (m *memoryRepository) Insert(_ context.Context, booking *ctdf.Booking) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.bookings[booking.PrimaryIdentifier] = booking
	return nil
}

func (m *memoryRepository) Update(ctx context.Context, booking *ctdf.Booking) error {
	return m.Insert(ctx, booking)
}

func (m *memoryRepository) Get(_ context.Context, identifier string) (*ctdf.Booking, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if booking, ok := m.bookings[identifier]; ok {
		return booking, nil
	}
	return nil, bookings.ErrBookingNotFound
}

func (m *memoryRepository) ListByUser(_ context.Context, userID string) ([]*ctdf.Booking, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var userBookings []*ctdf.Booking
	for _, booking := range m.bookings {
		if booking.UserID == userID {
			userBookings = append(userBookings, booking)
		}
	}
	return userBookings, nil
}

func (m *memoryRepository) All(ctx context.Context) ([]*ctdf.Booking, error) {
	return nil, errors.New("not used")
}

type fakeUpstream struct{}

func (fakeUpstream) CreateBooking(_ context.Context, request junction.CreateBookingRequest) (*junction.Booking, error) {
	return &junction.Booking{ID: "upstream_" + request.OfferID, Status: "pending"}, nil
}

func (fakeUpstream) ConfirmBooking(_ context.Context, bookingID string) (*junction.Booking, error) {
	return &junction.Booking{ID: bookingID, Status: "confirmed"}, nil
}

func (fakeUpstream) CancelBooking(_ context.Context, bookingID string) (*junction.Booking, error) {
	return &junction.Booking{ID: bookingID, Status: "cancelled"}, nil
}

type recordingPublisher struct {
	mutex  sync.Mutex
	events []ctdf.EventType
}

func (r *recordingPublisher) Publish(eventType ctdf.EventType, _ any) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, eventType)
	return nil
}

var (
	trainLeg = ctdf.Leg{
		ID: "train_offer", Mode: ctdf.TransportTypeTrain, Operator: "SNCF",
		From: ctdf.PlaceInfo{Name: "Part-Dieu", City: "Lyon"}, To: ctdf.PlaceInfo{Name: "Gare de Lyon", City: "Paris"},
		Depart: "2025-03-01T06:00:00Z", Arrive: "2025-03-01T08:00:00Z", Price: 5000, Currency: "EUR",
	}
	flightLeg = ctdf.Leg{
		ID: "flight_offer", Mode: ctdf.TransportTypeFlight, Operator: "Air France",
		From: ctdf.PlaceInfo{Name: "Orly", City: "Paris"}, To: ctdf.PlaceInfo{Name: "BER", City: "Berlin"},
		Depart: "2025-03-01T09:30:00Z", Arrive: "2025-03-01T11:15:00Z", Price: 12000, Currency: "EUR",
	}
)

func newTestApp(t *testing.T, content *fakeContentSource) (*fiber.App, *recordingPublisher) {
	t.Helper()

	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}
	t.Cleanup(func() {
		dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}
	})

	dataaggregator.GlobalAggregator.RegisterSource(content)
	dataaggregator.GlobalAggregator.RegisterSource(multimodal.Source{Aggregator: &dataaggregator.GlobalAggregator})

	carRentals := &carrental.Source{}
	require.NoError(t, carRentals.Setup())
	dataaggregator.GlobalAggregator.RegisterSource(carRentals)

	publisher := &recordingPublisher{}

	app := NewApp(Services{
		Bookings: &bookings.Service{
			Repository: &memoryRepository{bookings: map[string]*ctdf.Booking{}},
			Upstream:   fakeUpstream{},
			Events:     publisher,
		},
		Events: publisher,
		Authentication: func(c *fiber.Ctx) error {
			userID := c.Get("X-Test-User")
			if userID == "" {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			c.Locals("account_userid", userID)
			return c.Next()
		},
	})

	return app, publisher
}

func bothModes() *fakeContentSource {
	return &fakeContentSource{legs: map[ctdf.TransportType][]ctdf.Leg{
		ctdf.TransportTypeTrain:  {trainLeg},
		ctdf.TransportTypeFlight: {flightLeg},
	}}
}

func plannerURL(extra url.Values) string {
	values := url.Values{
		"origin":           {"pl_lyon"},
		"origin_name":      {"Lyon"},
		"destination":      {"pl_berlin"},
		"destination_name": {"Berlin"},
		"datetime":         {"2025-03-01T05:00:00Z"},
		"dob":              {"1990-01-01"},
	}
	for key, value := range extra {
		values[key] = value
	}

	return "/core/planner/multimodal?" + values.Encode()
}

func doRequest(t *testing.T, app *fiber.App, request *http.Request) (int, map[string]interface{}) {
	t.Helper()

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &decoded))
	}

	return response.StatusCode, decoded
}

func TestVersion(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/core/version", nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "v0.2", body["version"])
}

func TestPlannerMultimodal(t *testing.T) {
	app, publisher := newTestApp(t, bothModes())

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, plannerURL(nil), nil))
	require.Equal(t, fiber.StatusOK, status)

	itineraries := body["Itineraries"].([]interface{})
	require.Len(t, itineraries, 3)

	fastest := itineraries[0].(map[string]interface{})
	assert.Equal(t, float64(105), fastest["TotalDuration"])
	assert.True(t, strings.HasPrefix(fastest["ID"].(string), "flight_direct_"))

	combined := itineraries[2].(map[string]interface{})
	assert.Equal(t, float64(1), combined["Transfers"])
	assert.Equal(t, float64(17000), combined["TotalPrice"])

	assert.NotContains(t, body, "TrainOffers")
	assert.Equal(t, []ctdf.EventType{ctdf.EventTypeMultimodalSearchCompleted}, publisher.events)
}

func TestPlannerMultimodalDetailed(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, plannerURL(url.Values{"detailed": {"true"}}), nil))
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, float64(1), body["TrainOffers"])
	assert.Equal(t, float64(1), body["FlightOffers"])
}

func TestPlannerMultimodalFilters(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, plannerURL(url.Values{
		"filter": {`"train" in modes`},
	}), nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["Itineraries"], 2)

	status, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, plannerURL(url.Values{
		"max_transfers": {"0"},
		"max_duration":  {"PT1H50M"},
	}), nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["Itineraries"], 1)
}

func TestPlannerMultimodalPartial(t *testing.T) {
	content := bothModes()
	content.fail = map[ctdf.TransportType]error{ctdf.TransportTypeTrain: errors.New("timed out")}
	app, _ := newTestApp(t, content)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, plannerURL(nil), nil))
	require.Equal(t, fiber.StatusOK, status)

	assert.Len(t, body["Itineraries"], 1)
	assert.Equal(t, []interface{}{"train"}, body["Failures"])
}

func TestPlannerMultimodalErrors(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"missing dob", plannerURL(url.Values{"dob": {""}}), fiber.StatusBadRequest},
		{"bad datetime", plannerURL(url.Values{"datetime": {"tomorrow"}}), fiber.StatusBadRequest},
		{"bad filter", plannerURL(url.Values{"filter": {"totalPrice <"}}), fiber.StatusBadRequest},
		{"bad duration", plannerURL(url.Values{"max_duration": {"2 hours"}}), fiber.StatusBadRequest},
		{"same places", plannerURL(url.Values{"destination": {"pl_lyon"}}), fiber.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, test.url, nil))
			assert.Equal(t, test.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}

	content := bothModes()
	content.fail = map[ctdf.TransportType]error{
		ctdf.TransportTypeTrain:  errors.New("down"),
		ctdf.TransportTypeFlight: errors.New("down"),
	}
	app, _ = newTestApp(t, content)

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, plannerURL(nil), nil))
	assert.Equal(t, fiber.StatusBadGateway, status)
}

func TestPlaces(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/places?name=Paris", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, response.StatusCode)

	var places []map[string]interface{}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&places))
	require.Len(t, places, 1)
	assert.Equal(t, "pl_paris", places[0]["PrimaryIdentifier"])

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/core/places?name=P", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCarRentals(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/car_rentals?city=paris", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, response.StatusCode)

	var rentals []map[string]interface{}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&rentals))
	require.NotEmpty(t, rentals)
	for _, rental := range rentals {
		assert.Equal(t, "Paris", rental["City"])
	}

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/core/car_rentals", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func bookingRequest(t *testing.T, method string, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Test-User", "user-1")
	return request
}

func TestBookingsLifecycle(t *testing.T) {
	app, publisher := newTestApp(t, bothModes())

	holdBody := map[string]any{
		"legs": []ctdf.Leg{trainLeg, flightLeg},
		"passengers": []map[string]string{{
			"dateOfBirth": "1990-01-01",
			"firstName":   "Ada",
			"lastName":    "Lovelace",
			"email":       "ada@example.com",
		}},
	}

	status, held := doRequest(t, app, bookingRequest(t, http.MethodPost, "/core/bookings", holdBody))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "pending", held["Status"])
	assert.Equal(t, float64(17000), held["TotalPrice"])
	assert.NotContains(t, held, "Passengers")
	assert.NotContains(t, held, "UserID")

	identifier := held["PrimaryIdentifier"].(string)

	status, confirmed := doRequest(t, app, bookingRequest(t, http.MethodPost, "/core/bookings/"+identifier+"/confirm", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "confirmed", confirmed["Status"])

	status, _ = doRequest(t, app, bookingRequest(t, http.MethodPost, "/core/bookings/"+identifier+"/confirm", nil))
	assert.Equal(t, fiber.StatusConflict, status)

	status, cancelled := doRequest(t, app, bookingRequest(t, http.MethodPost, "/core/bookings/"+identifier+"/cancel", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "cancelled", cancelled["Status"])

	status, _ = doRequest(t, app, bookingRequest(t, http.MethodGet, "/core/bookings/MULTIMODAL:BOOKING:missing", nil))
	assert.Equal(t, fiber.StatusNotFound, status)

	assert.Equal(t, []ctdf.EventType{
		ctdf.EventTypeBookingHeld,
		ctdf.EventTypeBookingConfirmed,
		ctdf.EventTypeBookingCancelled,
	}, publisher.events)
}

func TestBookingsValidation(t *testing.T) {
	app, _ := newTestApp(t, bothModes())

	status, _ := doRequest(t, app, bookingRequest(t, http.MethodPost, "/core/bookings", map[string]any{
		"legs":       []ctdf.Leg{trainLeg},
		"passengers": []map[string]string{{"firstName": "Ada"}},
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)

	request := httptest.NewRequest(http.MethodGet, "/core/bookings", nil)
	status, _ = doRequest(t, app, request)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
