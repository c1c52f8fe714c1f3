package providers

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/9seconds/whereabouts/wherelib"
)

type ip2cProvider struct {
	client wherelib.HTTPClient
}

func (i ip2cProvider) Name() string {
	return NameIP2C
}

// Lookup knows only a country. ip2c responds with a plain text line
// like "1;DE;DEU;Germany" where the first field is a status.
func (i ip2cProvider) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
	result := wherelib.ProviderLookupResult{}
	ip4 := ip.To4()

	if ip4 == nil {
		return result, fmt.Errorf("incorrect ipv4 %v", ip)
	}

	number := strconv.FormatUint(uint64(binary.BigEndian.Uint32(ip4)), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://ip2c.org/?dec="+number, nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(bufio.NewReader(resp.Body))
	if err != nil {
		return result, fmt.Errorf("cannot read response body: %w", err)
	}

	body := strings.TrimSpace(string(bodyBytes))
	chunks := strings.SplitN(body, ";", 4)

	switch {
	case len(chunks) != 4:
		return result, fmt.Errorf("incorrect response: %s", body)
	case chunks[0] != "1":
		return result, fmt.Errorf("ip2c cannot detect region: %s", body)
	}

	result.CountryCode = wherelib.Alpha2ToCountryCode(chunks[1])
	result.Country = chunks[3]

	return result, nil
}

func NewIP2C(client wherelib.HTTPClient) wherelib.Provider {
	return ip2cProvider{
		client: client,
	}
}
