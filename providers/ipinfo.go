package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/9seconds/whereabouts/wherelib"
)

type ipinfoResponse struct {
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Location string `json:"loc"`
	Bogon    bool   `json:"bogon"`
}

type ipinfoProvider struct {
	authToken string
	client    wherelib.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
	result := wherelib.ProviderLookupResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://ipinfo.io/"+ip.String(), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if i.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+i.authToken)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonResponse := ipinfoResponse{}

	if err := decodeJSONResponse(resp, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Bogon {
		return result, fmt.Errorf("ip address %v is bogon", ip)
	}

	result.City = jsonResponse.City
	result.Region = jsonResponse.Region
	result.CountryCode = wherelib.Alpha2ToCountryCode(jsonResponse.Country)
	result.Latitude, result.Longitude = ipinfoParseLocation(jsonResponse.Location)

	return result, nil
}

// ipinfo returns coordinates as a single "lat,lon" string.
func ipinfoParseLocation(location string) (*float64, *float64) {
	chunks := strings.SplitN(location, ",", 2)
	if len(chunks) != 2 {
		return nil, nil
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(chunks[0]), 64)
	if err != nil {
		return nil, nil
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(chunks[1]), 64)
	if err != nil {
		return nil, nil
	}

	return &latitude, &longitude
}

func NewIPInfo(client wherelib.HTTPClient, authToken string) wherelib.Provider {
	return ipinfoProvider{
		authToken: authToken,
		client:    client,
	}
}
