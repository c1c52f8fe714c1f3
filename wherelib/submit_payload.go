package wherelib

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
)

type submitPayload struct {
	Phone      string
	Permission *string
	Latitude   *float64
	Longitude  *float64
}

// parseSubmitPayload is lenient: a body has to be a JSON object but
// each field is optional. A field of unexpected type is treated as
// absent.
func parseSubmitPayload(body []byte) (submitPayload, error) {
	rv := submitPayload{}
	fields := map[string]json.RawMessage{}

	if err := json.Unmarshal(body, &fields); err != nil {
		return rv, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if fields == nil {
		return rv, ErrBadPayload
	}

	if phone := decodeOptionalString(fields["phone"]); phone != nil {
		rv.Phone = strings.TrimSpace(*phone)
	}

	rv.Permission = decodeOptionalString(fields["permission"])
	rv.Latitude = decodeOptionalFloat(fields["latitude"])
	rv.Longitude = decodeOptionalFloat(fields["longitude"])

	return rv, nil
}

func decodeOptionalString(raw json.RawMessage) *string {
	var value *string

	if len(raw) == 0 || json.Unmarshal(raw, &value) != nil {
		return nil
	}

	return value
}

func decodeOptionalFloat(raw json.RawMessage) *float64 {
	var value *float64

	if len(raw) == 0 || json.Unmarshal(raw, &value) != nil {
		return nil
	}

	return value
}

// resolveClientIP prefers a proxy-supplied X-Forwarded-For value. This
// header can carry a list of addresses, the first one is the client.
func resolveClientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		if first := strings.TrimSpace(strings.SplitN(forwardedFor, ",", 2)[0]); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}

	return host
}
