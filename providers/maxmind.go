package providers

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/oschwald/geoip2-golang"
)

// MaxmindProvider resolves IP addresses using a local GeoIP2 or
// GeoLite2 City database. This provider makes no network calls.
type MaxmindProvider struct {
	dbReader     *geoip2.Reader
	dbReaderLock sync.RWMutex
}

func (m *MaxmindProvider) Name() string {
	return NameMaxmind
}

func (m *MaxmindProvider) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
	m.dbReaderLock.RLock()
	defer m.dbReaderLock.RUnlock()

	rv := wherelib.ProviderLookupResult{}

	if m.dbReader == nil {
		return rv, ErrDatabaseIsClosed
	}

	if err := ctx.Err(); err != nil {
		return rv, fmt.Errorf("context is closed: %w", err)
	}

	record, err := m.dbReader.City(ip)
	if err != nil {
		return rv, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	rv.CountryCode = wherelib.Alpha2ToCountryCode(record.Country.IsoCode)
	rv.Country = record.Country.Names["en"]
	rv.City = record.City.Names["en"]

	if len(record.Subdivisions) > 0 {
		rv.Region = record.Subdivisions[0].Names["en"]
	}

	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		latitude := record.Location.Latitude
		longitude := record.Location.Longitude
		rv.Latitude = &latitude
		rv.Longitude = &longitude
	}

	return rv, nil
}

func (m *MaxmindProvider) Close() error {
	m.dbReaderLock.Lock()
	defer m.dbReaderLock.Unlock()

	if m.dbReader == nil {
		return nil
	}

	err := m.dbReader.Close()
	m.dbReader = nil

	return err
}

// NewMaxmind opens a database from the given path. Databases are not
// downloaded or updated: please use geoipupdate for that.
func NewMaxmind(path string) (*MaxmindProvider, error) {
	if path == "" {
		return nil, ErrDatabaseIsRequired
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open maxmind database: %w", err)
	}

	return &MaxmindProvider{
		dbReader: reader,
	}, nil
}
