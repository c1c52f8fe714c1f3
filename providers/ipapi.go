package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/9seconds/whereabouts/wherelib"
)

type ipapiResponse struct {
	Error       bool           `json:"error"`
	Reason      string         `json:"reason"`
	City        string         `json:"city"`
	Region      string         `json:"region"`
	CountryName string         `json:"country_name"`
	CountryCode string         `json:"country_code"`
	Latitude    jsonCoordinate `json:"latitude"`
	Longitude   jsonCoordinate `json:"longitude"`
}

type ipapiProvider struct {
	client   wherelib.HTTPClient
	baseURL  string
	apiToken string
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
	result := wherelib.ProviderLookupResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.buildURL(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := ipapiResponse{}

	if err := decodeJSONResponse(resp, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Error {
		return result, fmt.Errorf("failed to geolocate: %s", jsonResponse.Reason)
	}

	result.CountryCode = wherelib.Alpha2ToCountryCode(jsonResponse.CountryCode)
	result.Country = jsonResponse.CountryName
	result.Region = jsonResponse.Region
	result.City = jsonResponse.City
	result.Latitude = jsonResponse.Latitude.Value
	result.Longitude = jsonResponse.Longitude.Value

	return result, nil
}

func (i ipapiProvider) buildURL(ip net.IP) string {
	url := i.baseURL + "/" + ip.String() + "/json/"

	if i.apiToken != "" {
		url += "?key=" + i.apiToken
	}

	return url
}

// NewIPAPI returns a provider for ipapi.co. This service works without
// any token but a free tier is limited. If you have a paid plan, pass
// its key as "auth_token" parameter.
func NewIPAPI(client wherelib.HTTPClient, parameters map[string]string) wherelib.Provider {
	baseURL := "https://ipapi.co"
	if value := parameters["base_url"]; value != "" {
		baseURL = value
	}

	return ipapiProvider{
		client:   client,
		baseURL:  baseURL,
		apiToken: parameters["auth_token"],
	}
}
