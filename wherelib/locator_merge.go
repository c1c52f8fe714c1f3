package wherelib

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// mergeLookupResults builds a single verdict out of answers of many
// providers. Nil elements stand for providers which have failed.
// Elements are ordered as providers are so ties are resolved in favour
// of the provider which was configured first.
func mergeLookupResults(results []*ProviderLookupResult) Enrichment {
	group := mergeSelectCountryGroup(results)
	if len(group) == 0 {
		return Enrichment{}
	}

	cityKey, city := mergeSelectCity(group)
	anchor := group[0]

	if cityKey != "" {
		for _, v := range group {
			if mergeCityKey(v.City) == cityKey {
				anchor = v

				break
			}
		}
	}

	rv := Enrichment{
		City:    city,
		Region:  anchor.Region,
		Country: anchor.Country,
	}

	if rv.Country == "" {
		rv.Country = anchor.CountryCode.Name()
	}

	for _, v := range group {
		if rv.Region == "" && (cityKey == "" || mergeCityKey(v.City) == cityKey) {
			rv.Region = v.Region
		}

		if rv.Country == "" {
			rv.Country = v.Country
		}
	}

	coordinatesSource := anchor

	if !coordinatesSource.HasCoordinates() {
		for _, v := range group {
			if v.HasCoordinates() {
				coordinatesSource = v

				break
			}
		}
	}

	if coordinatesSource.HasCoordinates() {
		latitude := *coordinatesSource.Latitude
		longitude := *coordinatesSource.Longitude
		rv.Latitude = &latitude
		rv.Longitude = &longitude
	}

	return rv
}

func mergeSelectCountryGroup(results []*ProviderLookupResult) []*ProviderLookupResult {
	order := []CountryCode{}
	groups := map[CountryCode][]*ProviderLookupResult{}
	unknownCountry := []*ProviderLookupResult{}

	for _, v := range results {
		switch {
		case v == nil || v.Empty():
			continue
		case !v.CountryCode.Known():
			unknownCountry = append(unknownCountry, v)

			continue
		}

		if _, ok := groups[v.CountryCode]; !ok {
			order = append(order, v.CountryCode)
		}

		groups[v.CountryCode] = append(groups[v.CountryCode], v)
	}

	if len(order) == 0 {
		return unknownCountry
	}

	selected := order[0]

	for _, country := range order[1:] {
		if len(groups[country]) > len(groups[selected]) {
			selected = country
		}
	}

	return groups[selected]
}

func mergeSelectCity(group []*ProviderLookupResult) (string, string) {
	order := []string{}
	counters := map[string]int{}
	names := map[string]string{}

	for _, v := range group {
		key := mergeCityKey(v.City)
		if key == "" {
			continue
		}

		if _, ok := names[key]; !ok {
			names[key] = v.City
			order = append(order, key)
		}

		counters[key]++
	}

	if len(order) == 0 {
		return "", ""
	}

	selected := order[0]

	for _, key := range order[1:] {
		if counters[key] > counters[selected] {
			selected = key
		}
	}

	return selected, names[selected]
}

// mergeCityKey normalizes city names: providers spell them differently,
// like Nizhny Novgorod and Nizhniy Novgorod.
func mergeCityKey(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return ""
	}

	if key, _ := matchr.DoubleMetaphone(city); key != "" {
		return key
	}

	return strings.ToLower(city)
}
