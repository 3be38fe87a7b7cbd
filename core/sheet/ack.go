package sheet

import "fmt"

// AckKind tags the outcome the remote reported for a write.
type AckKind int

const (
	AckUnrecognized AckKind = iota
	AckSuccess
	AckFailure
)

func (k AckKind) String() string {
	switch k {
	case AckSuccess:
		return "success"
	case AckFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Ack is the remote acknowledgement of an appended row.
// Reason is set for AckFailure; Raw always holds the response body as received.
type Ack struct {
	Kind   AckKind
	Reason string
	Raw    string
}

func Success(raw string) Ack               { return Ack{Kind: AckSuccess, Raw: raw} }
func Failure(reason, raw string) Ack       { return Ack{Kind: AckFailure, Reason: reason, Raw: raw} }
func Unrecognized(raw string) Ack          { return Ack{Kind: AckUnrecognized, Raw: raw} }
func (a Ack) OK() bool                     { return a.Kind == AckSuccess }
func (a Ack) MarshalText() ([]byte, error) { return []byte(a.Kind.String()), nil }

func (a Ack) String() string {
	switch a.Kind {
	case AckSuccess:
		return "success"
	case AckFailure:
		return fmt.Sprintf("failure: %s", a.Reason)
	default:
		return fmt.Sprintf("unrecognized: %q", a.Raw)
	}
}

// Err converts the ack into the error a caller of sheet must handle: nil on success,
// a *RemoteError on failure and an *AmbiguousAckError when the shape was not recognized.
func (a Ack) Err(sheet string) error {
	switch a.Kind {
	case AckSuccess:
		return nil
	case AckFailure:
		return &RemoteError{Sheet: sheet, Message: a.Reason, Write: true}
	default:
		return &AmbiguousAckError{Sheet: sheet, Raw: a.Raw}
	}
}
