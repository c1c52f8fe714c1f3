package wherelib_test

import (
	"context"
	"net"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip net.IP) (wherelib.ProviderLookupResult, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(wherelib.ProviderLookupResult), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Name() string {
	return m.Called().String(0)
}

func (m *StorageMock) Append(ctx context.Context, record *wherelib.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *StorageMock) ListAll(ctx context.Context) ([]wherelib.Record, error) {
	args := m.Called(ctx)

	return args.Get(0).([]wherelib.Record), args.Error(1)
}

func (m *StorageMock) Close() error {
	return m.Called().Error(0)
}

type EnricherMock struct {
	mock.Mock
}

func (m *EnricherMock) Enrich(ctx context.Context, ip string) wherelib.Enrichment {
	return m.Called(ctx, ip).Get(0).(wherelib.Enrichment)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip net.IP, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) StorageError(name string, err error) {
	m.Called(name, err)
}

func (m *LoggerMock) Submitted(record *wherelib.Record, enriched bool) {
	m.Called(record, enriched)
}
