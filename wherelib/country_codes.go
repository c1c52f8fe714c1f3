package wherelib

import (
	"bytes"
	"strings"

	"github.com/pariz/gountries"
)

var (
	countryCodeQuery = gountries.New()

	// zero element stands for an unknown country
	countryCodeMapCC2String = []string{""}
	countryCodeMapString2CC = map[string]CountryCode{"": 0}
)

// CountryCode is a compact representation of ISO3166 alpha-2 country
// code. Providers return country codes in different flavours so we
// normalize them into this type before merging.
type CountryCode uint8

// MarshalJSON is to conform json.Marshaller interface.
func (c CountryCode) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}

	buf.WriteByte('"')
	buf.WriteString(c.String())
	buf.WriteByte('"')

	return buf.Bytes(), nil
}

// String returns 2-letter ISO3166 country code. For example, for USA it
// is going to be US. For UK - GB.
func (c CountryCode) String() string {
	return countryCodeMapCC2String[int(c)]
}

// Known checks that country code is not empty.
func (c CountryCode) Known() bool {
	return c > 0
}

// Details returns a details for the country taken from gountries.
func (c CountryCode) Details() gountries.Country {
	return countryCodeQuery.Countries[c.String()]
}

// Name returns a common english name of the country, like "Germany" or
// "United States". Unknown country has an empty name.
func (c CountryCode) Name() string {
	if !c.Known() {
		return ""
	}

	return c.Details().Name.BaseLang.Common
}

// NormalizeAlpha2Code returns an uppercased 2-letter ISO3166 code.
// Some services return ZZ or EU as 'unknown' country, this function
// returns "" for them. Outdated codes are mapped to the actual ones.
func NormalizeAlpha2Code(alpha2 string) string {
	alpha2 = strings.ToUpper(strings.TrimSpace(alpha2))

	if len(alpha2) != 2 {
		return ""
	}

	switch alpha2 {
	case "ZZ", "AP", "EU", "XX":
		return ""
	case "YU":
		return "CS"
	case "FX":
		return "FR"
	case "UK":
		return "GB"
	default:
		return alpha2
	}
}

// Alpha2ToCountryCode maps 2-letter string of ISO3166 to CountryCode
// type.
func Alpha2ToCountryCode(alpha2 string) CountryCode {
	return countryCodeMapString2CC[NormalizeAlpha2Code(alpha2)]
}

func init() {
	for k := range countryCodeQuery.Countries {
		k = NormalizeAlpha2Code(k)

		if _, ok := countryCodeMapString2CC[k]; k == "" || ok {
			continue
		}

		countryCodeMapCC2String = append(countryCodeMapCC2String, k)
		countryCodeMapString2CC[k] = CountryCode(len(countryCodeMapCC2String) - 1)
	}
}
