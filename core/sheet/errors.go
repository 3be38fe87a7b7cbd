package sheet

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FetchError is a transport or decoding failure while reading a sheet.
type FetchError struct {
	Sheet string
	Err   error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetching sheet %q: %v", e.Sheet, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// RemoteError is an error the endpoint reported itself (`{error: ...}`).
// Write is set when it answered an append, i.e. the row was refused.
type RemoteError struct {
	Sheet   string
	Message string
	Write   bool
}

func (e *RemoteError) Error() string {
	if e.Write {
		return fmt.Sprintf("sheet %q: write rejected: %s", e.Sheet, e.Message)
	}
	return fmt.Sprintf("sheet %q: remote error: %s", e.Sheet, e.Message)
}

// WriteError is a transport failure while appending a row. The write may or may not have landed.
type WriteError struct {
	Sheet string
	Err   error
}

func (e *WriteError) Error() string { return fmt.Sprintf("writing sheet %q: %v", e.Sheet, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// AmbiguousAckError means the endpoint answered a write with a body of unknown shape.
type AmbiguousAckError struct {
	Sheet string
	Raw   string
}

func (e *AmbiguousAckError) Error() string {
	return fmt.Sprintf("sheet %q: unrecognized write acknowledgement: %q", e.Sheet, e.Raw)
}

// NameOf returns the sheet a store error is about, or "" for any other error.
func NameOf(err error) string {
	var (
		fErr *FetchError
		wErr *WriteError
		rErr *RemoteError
		aErr *AmbiguousAckError
	)
	switch {
	case errors.As(err, &fErr):
		return fErr.Sheet
	case errors.As(err, &wErr):
		return wErr.Sheet
	case errors.As(err, &rErr):
		return rErr.Sheet
	case errors.As(err, &aErr):
		return aErr.Sheet
	}
	return ""
}

// IsUnavailable reports whether err means the data source could not be reached or read.
func IsUnavailable(err error) bool {
	var (
		fErr *FetchError
		wErr *WriteError
	)
	return errors.As(err, &fErr) || errors.As(err, &wErr)
}

// IsRemote reports whether err was reported by the endpoint itself.
func IsRemote(err error) bool {
	var rErr *RemoteError
	return errors.As(err, &rErr)
}

// IsRejectedWrite reports whether the endpoint refused an appended row.
func IsRejectedWrite(err error) bool {
	var rErr *RemoteError
	return errors.As(err, &rErr) && rErr.Write
}

// IsNotFound reports whether the endpoint said the sheet does not exist (yet).
func IsNotFound(err error) bool {
	var rErr *RemoteError
	return errors.As(err, &rErr) && strings.Contains(strings.ToLower(rErr.Message), "not found")
}

// IsAmbiguous reports whether err is an unrecognized write acknowledgement.
func IsAmbiguous(err error) bool {
	var aErr *AmbiguousAckError
	return errors.As(err, &aErr)
}
