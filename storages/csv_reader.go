package storages

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/rs/zerolog"
)

// csvReader is a wrapper over csv.Reader which converts each row into
// a record.
type csvReader struct {
	reader *csv.Reader
	logger zerolog.Logger
}

// Read returns io.EOF at the end of the file. If a row cannot be parsed,
// both returned values are nil.
func (c *csvReader) Read() (*wherelib.Record, error) {
	data, err := c.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("cannot read new row: %w", err)
	}

	if isHeaderRow(data) {
		return nil, nil
	}

	record, err := wherelib.ParseRecord(data)
	if err != nil {
		c.logger.Debug().Strs("data", data).Err(err).Msg("Cannot parse record")

		return nil, nil
	}

	return &record, nil
}

func (c *csvReader) next() (data []string, err error) {
	for err == nil && len(data) == 0 {
		data, err = c.reader.Read()
	}

	return
}

func isHeaderRow(data []string) bool {
	if len(data) != len(wherelib.RecordColumns) {
		return false
	}

	for i, v := range wherelib.RecordColumns {
		if data[i] != v {
			return false
		}
	}

	return true
}

func newCSVReader(file io.Reader, logger zerolog.Logger) *csvReader {
	reader := csv.NewReader(file)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	return &csvReader{
		reader: reader,
		logger: logger,
	}
}
