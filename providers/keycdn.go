package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/9seconds/whereabouts/wherelib"
)

type keycdnResponse struct {
	Status string `json:"status"`
	Data   struct {
		Geo struct {
			City        string         `json:"city"`
			RegionName  string         `json:"region_name"`
			CountryName string         `json:"country_name"`
			CountryCode string         `json:"country_code"`
			Latitude    jsonCoordinate `json:"latitude"`
			Longitude   jsonCoordinate `json:"longitude"`
		} `json:"geo"`
	} `json:"data"`
}

type keycdnProvider struct {
	client wherelib.HTTPClient
}

func (k keycdnProvider) Name() string {
	return NameKeyCDN
}

func (k keycdnProvider) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
	result := wherelib.ProviderLookupResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://tools.keycdn.com/geo.json?host="+ip.String(), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := keycdnResponse{}

	if err := decodeJSONResponse(resp, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Status != "success" {
		return result, fmt.Errorf("failed to geolocate: %s", jsonResponse.Status)
	}

	geo := jsonResponse.Data.Geo

	result.City = geo.City
	result.Region = geo.RegionName
	result.Country = geo.CountryName
	result.CountryCode = wherelib.Alpha2ToCountryCode(geo.CountryCode)
	result.Latitude = geo.Latitude.Value
	result.Longitude = geo.Longitude.Value

	return result, nil
}

// NewKeyCDN returns a provider for tools.keycdn.com. Please pay
// attention that this service requires a user agent which mentions
// keycdn-tools and a domain of your site.
func NewKeyCDN(client wherelib.HTTPClient) wherelib.Provider {
	return keycdnProvider{
		client: client,
	}
}
