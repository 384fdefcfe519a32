package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable indicates the weather provider could not be reached.
	ErrUpstreamUnavailable = errors.New("weather provider unavailable")

	// ErrUpstreamResponseInvalid indicates the provider answered with a body
	// that does not match its documented shape.
	ErrUpstreamResponseInvalid = errors.New("invalid weather provider response")
)

// MissingParameterError reports a required lookup parameter absent from the request.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Name)
}

// InvalidLocationError reports a country code or city that fails the shape check.
type InvalidLocationError struct {
	Reason string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location: %s", e.Reason)
}

// MalformedTimestampError reports a date string that does not match the
// DD.MM.YYYYTHH:MM pattern or carries an out-of-range field.
type MalformedTimestampError struct {
	Raw string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q: expected DD.MM.YYYYTHH:MM with in-range fields", e.Raw)
}

// UpstreamRejectedError carries the provider's refusal: an unknown location,
// a date outside the provider's window, or a bad credential.
type UpstreamRejectedError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamRejectedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather provider rejected request (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("weather provider rejected request: %s", e.Message)
}
