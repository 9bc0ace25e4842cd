package junction

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/travigo/multimodal/pkg/ctdf"
)

const DefaultPlacesLimit = 10

type placeItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PlaceTypes  []string `json:"placeTypes"`
	IATACode    string   `json:"iataCode"`
	StationCode string   `json:"stationCode"`
	CountryCode string   `json:"countryCode"`
	CityName    string   `json:"cityName"`
}

type placesResponse struct {
	Items []placeItem `json:"items"`
}

// SearchPlaces returns stations and airports whose name is like query
func (c *Client) SearchPlaces(ctx context.Context, query string, limit int) ([]ctdf.Place, error) {
	if limit <= 0 {
		limit = DefaultPlacesLimit
	}

	parameters := url.Values{}
	parameters.Set("filter[name][like]", query)
	parameters.Set("page[limit]", strconv.Itoa(limit))

	var response placesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/places?"+parameters.Encode(), nil, &response); err != nil {
		return nil, err
	}

	places := make([]ctdf.Place, 0, len(response.Items))
	for _, item := range response.Items {
		places = append(places, ctdf.Place{
			PrimaryIdentifier: item.ID,
			PrimaryName:       item.Name,
			PlaceTypes:        item.PlaceTypes,
			IATACode:          item.IATACode,
			StationCode:       item.StationCode,
			CountryCode:       item.CountryCode,
			CityName:          item.CityName,
		})
	}

	return places, nil
}
