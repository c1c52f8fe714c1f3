package storages

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const NameCSV = "csv"

// CSVStorage keeps records in a CSV file with a header row. Each record
// is appended with a single write call into a file opened in append
// mode. There is no locking so concurrent writers of the same file can
// interleave: this storage is intended for single-instance
// deployments.
type CSVStorage struct {
	fs     afero.Fs
	path   string
	logger zerolog.Logger
}

func (c *CSVStorage) Name() string {
	return NameCSV
}

func (c *CSVStorage) Append(_ context.Context, record *wherelib.Record) error {
	needHeader, err := c.isEmpty()
	if err != nil {
		return err
	}

	buf := bytes.Buffer{}
	writer := csv.NewWriter(&buf)

	if needHeader {
		writer.Write(wherelib.RecordColumns) // nolint: errcheck
	}

	writer.Write(record.Strings()) // nolint: errcheck
	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("cannot encode a record: %w", err)
	}

	file, err := c.fs.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", c.path, err)
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()

		return fmt.Errorf("cannot write to %s: %w", c.path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("cannot close %s: %w", c.path, err)
	}

	return nil
}

func (c *CSVStorage) isEmpty() (bool, error) {
	stat, err := c.fs.Stat(c.path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("cannot stat %s: %w", c.path, err)
	}

	return stat.Size() == 0, nil
}

// ListAll reads the whole file. Rows which cannot be parsed are
// skipped, the header is not a record.
func (c *CSVStorage) ListAll(_ context.Context) ([]wherelib.Record, error) {
	file, err := c.fs.Open(c.path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return []wherelib.Record{}, nil
	case err != nil:
		return nil, fmt.Errorf("cannot open %s: %w", c.path, err)
	}

	defer file.Close()

	reader := newCSVReader(file, c.logger)
	records := []wherelib.Record{}

	for {
		record, err := reader.Read()

		switch {
		case errors.Is(err, io.EOF):
			sortNewestFirst(records)

			return records, nil
		case err != nil:
			return nil, fmt.Errorf("cannot read %s: %w", c.path, err)
		case record != nil:
			records = append(records, *record)
		}
	}
}

func (c *CSVStorage) Close() error {
	return nil
}

// sortNewestFirst expects records in the order they were appended.
// Records with equal timestamps end up in the reverse order of
// appending.
func sortNewestFirst(records []wherelib.Record) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

func NewCSV(fs afero.Fs, path string, logger zerolog.Logger) *CSVStorage {
	return &CSVStorage{
		fs:     fs,
		path:   path,
		logger: logger,
	}
}
