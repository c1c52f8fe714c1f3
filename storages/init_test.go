package storages_test

import (
	"time"

	"github.com/9seconds/whereabouts/wherelib"
)

func floatPtr(value float64) *float64 {
	return &value
}

func stringPtr(value string) *string {
	return &value
}

func makeRecord(phone string, timestamp time.Time) *wherelib.Record {
	return &wherelib.Record{
		Timestamp:  timestamp.UTC(),
		Phone:      phone,
		Permission: stringPtr("granted"),
		Latitude:   floatPtr(40.7),
		Longitude:  floatPtr(-74),
		IP:         "1.2.3.4",
		IPCity:     "New York",
		IPRegion:   "New York",
		IPCountry:  "United States",
		UserAgent:  "Mozilla/5.0",
		RawPayload: `{"phone":"` + phone + `", "latitude": 40.7, "longitude": -74.0}`,
	}
}
