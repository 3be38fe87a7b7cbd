package sheet

import "strings"

// Row is one record of a sheet: column name -> cell value.
// Rows returned by a Store may be shared with its cache and must not be mutated.
type Row map[string]string

// Get returns the trimmed value of col ("" when absent).
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// GetOr returns the trimmed value of col, or def when it is blank.
func (r Row) GetOr(col, def string) string {
	if v := r.Get(col); v != "" {
		return v
	}
	return def
}
