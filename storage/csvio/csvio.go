// Package csvio reads and writes the corpus as a CSV file with a
// "phrase,resolution" header, the format corpora are exchanged in.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/remedy/core"
)

const (
	phraseColumn     = "phrase"
	resolutionColumn = "resolution"
)

// ErrMissingColumns is returned when the header lacks a phrase or resolution column.
var ErrMissingColumns = errors.New("csv header must contain phrase and resolution columns")

// Option configures ReadRecords.
type Option func(*reader)

type reader struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *reader) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// ReadRecords parses records from r. Column order is taken from the header
// and extra columns are ignored. Rows with a blank phrase or resolution are
// skipped and logged.
func ReadRecords(r io.Reader, opts ...Option) ([]*core.PhraseRecord, error) {
	rd := &reader{logger: slog.Default()}
	for _, opt := range opts {
		opt(rd)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingColumns
		}
		return nil, err
	}
	phraseIdx, resolutionIdx := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case phraseColumn:
			phraseIdx = i
		case resolutionColumn:
			resolutionIdx = i
		}
	}
	if phraseIdx < 0 || resolutionIdx < 0 {
		return nil, fmt.Errorf("%w: got %q", ErrMissingColumns, header)
	}

	records := []*core.PhraseRecord{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if phraseIdx >= len(row) || resolutionIdx >= len(row) {
			rd.logger.Warn("skipping short csv row", "line", line, "fields", len(row))
			continue
		}
		record := &core.PhraseRecord{
			Phrase:     strings.TrimSpace(row[phraseIdx]),
			Resolution: strings.TrimSpace(row[resolutionIdx]),
		}
		if err := core.ValidatePhraseRecord(record); err != nil {
			rd.logger.Warn("skipping invalid csv row", "line", line, "err", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ReadFile reads records from a CSV file.
func ReadFile(path string, opts ...Option) ([]*core.PhraseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f, opts...)
}

// WriteRecords writes a header followed by one row per record.
func WriteRecords(w io.Writer, records []*core.PhraseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{phraseColumn, resolutionColumn}); err != nil {
		return err
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		if err := cw.Write([]string{record.Phrase, record.Resolution}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to a CSV file, replacing it.
func WriteFile(path string, records []*core.PhraseRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
