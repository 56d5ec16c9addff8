// Package store persists per-run analysis records and summarizes them
// across runs. Records arrive pre-validated: the pipeline refuses to build
// one with sentinel values, so everything written here is physical.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/RyanBlaney/qcm-ringdown/ringdown"
)

// CSVAppender writes records to an append-only CSV file, creating the
// header on first write. Extras columns are fixed by the first record
// appended to a new file; a record whose columns do not match the existing
// header is rejected so rows never misalign.
type CSVAppender struct {
	path string
}

// NewCSVAppender creates an appender for the given path.
func NewCSVAppender(path string) *CSVAppender {
	return &CSVAppender{path: path}
}

// Append writes one record, creating the file and header if needed.
func (a *CSVAppender) Append(record *ringdown.Record) (err error) {
	header := append(append([]string{}, ringdown.BaseColumns...), record.ExtraKeys()...)

	existing, err := a.readHeader()
	if err != nil {
		return err
	}
	if existing != nil && !slices.Equal(existing, header) {
		return fmt.Errorf("store: record columns %v do not match header %v in %s",
			header, existing, a.path)
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: opening %s: %w", a.path, err)
	}
	defer closeWithError(f, &err)

	w := csv.NewWriter(f)
	if existing == nil {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("store: writing header: %w", err)
		}
	}

	if err := w.Write(record.Values()); err != nil {
		return fmt.Errorf("store: writing record: %w", err)
	}

	w.Flush()
	return w.Error()
}

// readHeader returns the existing header row, or nil when the file is
// absent or empty.
func (a *CSVAppender) readHeader() ([]string, error) {
	f, err := os.Open(a.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", a.path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: reading header of %s: %w", a.path, err)
	}
	return header, nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
