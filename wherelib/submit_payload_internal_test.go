package wherelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveClientIP(t *testing.T) {
	testData := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		expected     string
	}{
		{"list", "1.2.3.4, 5.6.7.8", "10.0.0.1:5678", "1.2.3.4"},
		{"single", " 1.2.3.4 ", "10.0.0.1:5678", "1.2.3.4"},
		{"no header", "", "10.0.0.1:5678", "10.0.0.1"},
		{"blank header", " , 5.6.7.8", "10.0.0.1:5678", "10.0.0.1"},
		{"ipv6 peer", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"peer without port", "", "10.0.0.1", "10.0.0.1"},
	}

	for _, v := range testData {
		v := v

		t.Run(v.name, func(t *testing.T) {
			assert.Equal(t, v.expected, resolveClientIP(v.forwardedFor, v.remoteAddr))
		})
	}
}

func TestParseSubmitPayloadFull(t *testing.T) {
	payload, err := parseSubmitPayload([]byte(`{
        "phone": "  555-0100 ",
        "permission": "granted",
        "latitude": 40.7,
        "longitude": -74.0
    }`))

	require.NoError(t, err)
	assert.Equal(t, "555-0100", payload.Phone)
	require.NotNil(t, payload.Permission)
	assert.Equal(t, "granted", *payload.Permission)
	require.NotNil(t, payload.Latitude)
	assert.InDelta(t, 40.7, *payload.Latitude, 0.000001)
	require.NotNil(t, payload.Longitude)
	assert.InDelta(t, -74.0, *payload.Longitude, 0.000001)
}

func TestParseSubmitPayloadDefaults(t *testing.T) {
	payload, err := parseSubmitPayload([]byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, "", payload.Phone)
	assert.Nil(t, payload.Permission)
	assert.Nil(t, payload.Latitude)
	assert.Nil(t, payload.Longitude)
}

func TestParseSubmitPayloadWrongTypes(t *testing.T) {
	payload, err := parseSubmitPayload([]byte(`{
        "phone": 5550100,
        "permission": null,
        "latitude": "40.7",
        "longitude": null
    }`))

	require.NoError(t, err)
	assert.Equal(t, "", payload.Phone)
	assert.Nil(t, payload.Permission)
	assert.Nil(t, payload.Latitude)
	assert.Nil(t, payload.Longitude)
}

func TestParseSubmitPayloadNotObject(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `"text"`, `{`} {
		_, err := parseSubmitPayload([]byte(body))

		assert.ErrorIs(t, err, ErrBadPayload, body)
	}
}
