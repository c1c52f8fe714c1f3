package providers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

func decodeJSONResponse(resp *http.Response, target interface{}) error {
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(bufio.NewReader(resp.Body)).Decode(target); err != nil {
		return fmt.Errorf("cannot parse a response: %w", err)
	}

	return nil
}

// jsonCoordinate is a coordinate which services return either as a
// number or as a string. Zero values are treated as absent: services
// return them when they know nothing.
type jsonCoordinate struct {
	Value *float64
}

func (j *jsonCoordinate) UnmarshalJSON(data []byte) error {
	var raw interface{}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var value float64

	switch v := raw.(type) {
	case float64:
		value = v
	case string:
		if v == "" {
			return nil
		}

		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("incorrect coordinate %q: %w", v, err)
		}

		value = parsed
	default:
		return nil
	}

	if value != 0 {
		j.Value = &value
	}

	return nil
}
