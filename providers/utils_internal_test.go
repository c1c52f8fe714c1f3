package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCoordinate(t *testing.T) {
	testData := []struct {
		raw      string
		expected *float64
	}{
		{`{"value": 12.5}`, floatRef(12.5)},
		{`{"value": "-3.25"}`, floatRef(-3.25)},
		{`{"value": ""}`, nil},
		{`{"value": null}`, nil},
		{`{"value": 0}`, nil},
		{`{"value": true}`, nil},
		{`{}`, nil},
	}

	for _, v := range testData {
		target := struct {
			Value jsonCoordinate `json:"value"`
		}{}

		require.NoError(t, json.Unmarshal([]byte(v.raw), &target), v.raw)

		if v.expected == nil {
			assert.Nil(t, target.Value.Value, v.raw)
		} else {
			require.NotNil(t, target.Value.Value, v.raw)
			assert.InDelta(t, *v.expected, *target.Value.Value, 0.00001, v.raw)
		}
	}
}

func TestJSONCoordinateIncorrectString(t *testing.T) {
	target := jsonCoordinate{}

	assert.Error(t, json.Unmarshal([]byte(`"north"`), &target))
}

func floatRef(value float64) *float64 {
	return &value
}
