package wherelib

import (
	"fmt"
	"strconv"
	"time"
)

// RecordTimeFormat is a format of timestamps in text representations
// of the record.
const RecordTimeFormat = time.RFC3339Nano

// RecordColumns is a fixed list of record fields, in the order they are
// stored in flat files and rendered in tables.
var RecordColumns = []string{
	"timestamp",
	"phone",
	"permission",
	"latitude",
	"longitude",
	"ip",
	"ip_city",
	"ip_region",
	"ip_country",
	"user_agent",
	"raw_payload",
}

// Record is a single submission. Records are never updated or deleted.
type Record struct {
	Timestamp  time.Time `json:"timestamp" db:"created_at" bson:"timestamp"`
	Phone      string    `json:"phone" db:"phone" bson:"phone"`
	Permission *string   `json:"permission" db:"permission" bson:"permission"`
	Latitude   *float64  `json:"latitude" db:"latitude" bson:"latitude"`
	Longitude  *float64  `json:"longitude" db:"longitude" bson:"longitude"`
	IP         string    `json:"ip" db:"ip" bson:"ip"`
	IPCity     string    `json:"ip_city" db:"ip_city" bson:"ip_city"`
	IPRegion   string    `json:"ip_region" db:"ip_region" bson:"ip_region"`
	IPCountry  string    `json:"ip_country" db:"ip_country" bson:"ip_country"`
	UserAgent  string    `json:"user_agent" db:"user_agent" bson:"user_agent"`
	RawPayload string    `json:"raw_payload" db:"raw_payload" bson:"raw_payload"`
}

// Strings returns a text representation of the record. Each element
// corresponds to the same element of RecordColumns. Absent values are
// empty strings.
func (r *Record) Strings() []string {
	return []string{
		r.Timestamp.UTC().Format(RecordTimeFormat),
		r.Phone,
		stringOrEmpty(r.Permission),
		floatOrEmpty(r.Latitude),
		floatOrEmpty(r.Longitude),
		r.IP,
		r.IPCity,
		r.IPRegion,
		r.IPCountry,
		r.UserAgent,
		r.RawPayload,
	}
}

// ParseRecord restores a record from its text representation made by
// Record.Strings.
func ParseRecord(data []string) (Record, error) {
	rv := Record{}

	if len(data) != len(RecordColumns) {
		return rv, fmt.Errorf("unexpected number of fields: %d", len(data))
	}

	timestamp, err := time.Parse(RecordTimeFormat, data[0])
	if err != nil {
		return rv, fmt.Errorf("incorrect timestamp: %w", err)
	}

	rv.Timestamp = timestamp.UTC()
	rv.Phone = data[1]

	if data[2] != "" {
		permission := data[2]
		rv.Permission = &permission
	}

	if rv.Latitude, err = parseOptionalFloat(data[3]); err != nil {
		return rv, fmt.Errorf("incorrect latitude: %w", err)
	}

	if rv.Longitude, err = parseOptionalFloat(data[4]); err != nil {
		return rv, fmt.Errorf("incorrect longitude: %w", err)
	}

	rv.IP = data[5]
	rv.IPCity = data[6]
	rv.IPRegion = data[7]
	rv.IPCountry = data[8]
	rv.UserAgent = data[9]
	rv.RawPayload = data[10]

	return rv, nil
}

// Enrichment is a location derived from the IP address.
type Enrichment struct {
	City      string
	Region    string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// Empty checks if nothing is known about the location.
func (e *Enrichment) Empty() bool {
	return e.City == "" && e.Region == "" && e.Country == "" &&
		e.Latitude == nil && e.Longitude == nil
}

// ProviderLookupResult is what a single provider knows about the IP
// address. Providers fill as much as they can: some of them know only a
// country.
type ProviderLookupResult struct {
	CountryCode CountryCode
	Country     string
	Region      string
	City        string
	Latitude    *float64
	Longitude   *float64
}

// Empty checks if provider has returned nothing meaningful.
func (p *ProviderLookupResult) Empty() bool {
	return !p.CountryCode.Known() && p.Country == "" && p.Region == "" &&
		p.City == "" && !p.HasCoordinates()
}

// HasCoordinates checks if both latitude and longitude are known.
func (p *ProviderLookupResult) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

func floatOrEmpty(value *float64) string {
	if value == nil {
		return ""
	}

	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
