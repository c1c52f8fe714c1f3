package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/9seconds/whereabouts/wherelib"
)

type ipstackResponse struct {
	Error struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	City        string         `json:"city"`
	RegionName  string         `json:"region_name"`
	CountryName string         `json:"country_name"`
	CountryCode string         `json:"country_code"`
	Latitude    jsonCoordinate `json:"latitude"`
	Longitude   jsonCoordinate `json:"longitude"`
}

type ipstackProvider struct {
	client     wherelib.HTTPClient
	httpScheme string
	authToken  string
}

func (i ipstackProvider) Name() string {
	return NameIPStack
}

func (i ipstackProvider) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
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

	jsonResponse := ipstackResponse{}

	if err := decodeJSONResponse(resp, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Error.Code != 0 {
		return result, fmt.Errorf(
			"failed response: code=%d, type=%s, info=%s",
			jsonResponse.Error.Code,
			jsonResponse.Error.Type,
			jsonResponse.Error.Info)
	}

	result.City = jsonResponse.City
	result.Region = jsonResponse.RegionName
	result.Country = jsonResponse.CountryName
	result.CountryCode = wherelib.Alpha2ToCountryCode(jsonResponse.CountryCode)
	result.Latitude = jsonResponse.Latitude.Value
	result.Longitude = jsonResponse.Longitude.Value

	return result, nil
}

func (i ipstackProvider) buildURL(ip net.IP) string {
	getQuery := url.Values{}

	getQuery.Set("access_key", i.authToken)
	getQuery.Set("output", "json")
	getQuery.Set("fields", "country_code,country_name,region_name,city,latitude,longitude")
	getQuery.Set("language", "en")
	getQuery.Set("hostname", "0")
	getQuery.Set("security", "0")

	u := url.URL{
		Scheme:   i.httpScheme,
		Host:     "api.ipstack.com",
		Path:     ip.String(),
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

// NewIPStack returns a provider for ipstack.com. Free plan of this
// service does not support HTTPS so isSecure has to be false there.
func NewIPStack(client wherelib.HTTPClient, authToken string, isSecure bool) (wherelib.Provider, error) {
	scheme := "http"

	if isSecure {
		scheme = "https"
	}

	if authToken == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return ipstackProvider{
		client:     client,
		authToken:  authToken,
		httpScheme: scheme,
	}, nil
}
