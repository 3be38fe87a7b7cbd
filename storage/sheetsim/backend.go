// Package sheetsim emulates the remote spreadsheet endpoint for local development and tests.
package sheetsim

import (
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core/sheet"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrSheetExists   = errors.New("sheet already exists")
)

// Backend persists sheets as a header plus positional rows.
type Backend interface {
	// Rows returns the header and rows of name, or ErrSheetNotFound.
	Rows(name string) (header []string, rows [][]string, err error)
	// Append adds row to name. Unknown sheets following a naming convention are created on the fly.
	Append(name string, row []string) error
	// Create adds an empty sheet, or fails with ErrSheetExists.
	Create(name string, header []string) error
	Sheets() ([]string, error)
	Close() error
}

// Seed creates name (if needed) with header (or its conventional header) and appends rows.
func Seed(b Backend, name string, header []string, rows ...[]string) error {
	if header == nil {
		header = sheet.DefaultHeader(name)
	}
	if err := b.Create(name, header); err != nil && err != ErrSheetExists {
		return errors.Wrapf(err, "creating sheet %q", name)
	}
	for _, row := range rows {
		if err := b.Append(name, row); err != nil {
			return errors.Wrapf(err, "seeding sheet %q", name)
		}
	}
	return nil
}

// SeedRecords is like Seed with rows given as column -> value records laid out per header.
func SeedRecords(b Backend, name string, header []string, records ...sheet.Row) error {
	if header == nil {
		header = sheet.DefaultHeader(name)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = rec[col]
		}
		rows = append(rows, row)
	}
	return Seed(b, name, header, rows...)
}

func headerFor(name string) ([]string, error) {
	header := sheet.DefaultHeader(name)
	if header == nil {
		return nil, ErrSheetNotFound
	}
	return header, nil
}
