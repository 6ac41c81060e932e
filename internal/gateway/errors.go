package gateway

import (
	"errors"
)

// Error kinds. Use errors.Is to test for one, or KindOf to get it.
var (
	ErrCityNotFound           = errors.New("city not found")
	ErrProviderUnavailable    = errors.New("weather provider unavailable")
	ErrLocationUnavailable    = errors.New("location unavailable")
	ErrGeolocationUnsupported = errors.New("geolocation unsupported")
	ErrGeolocationFailed      = errors.New("geolocation denied or failed")
	ErrUnexpected             = errors.New("unexpected error")
)

var kinds = []struct {
	kind    error
	code    string
	message string
}{
	{ErrCityNotFound, "CITY_NOT_FOUND", "City not found. Please check the spelling and try again."},
	{ErrProviderUnavailable, "PROVIDER_UNAVAILABLE", "Unable to fetch weather data. Please try again later."},
	{ErrLocationUnavailable, "LOCATION_UNAVAILABLE", "Unable to fetch weather for your location."},
	{ErrGeolocationUnsupported, "GEOLOCATION_UNSUPPORTED", "Geolocation is not supported on this device."},
	{ErrGeolocationFailed, "GEOLOCATION_FAILED", "Location error"},
	{ErrUnexpected, "UNEXPECTED", "An unexpected error occurred. Please try again."},
}

// Error is a classified lookup failure. Error() returns the message meant for
// the end user; the cause is kept for logs and tracing.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError classifies cause under kind with the standard message for that kind.
func NewError(kind error, cause error) *Error {
	msg := ErrUnexpected.Error()
	for _, k := range kinds {
		if k.kind == kind {
			msg = k.message
			break
		}
	}

	if kind == ErrGeolocationFailed && cause != nil {
		msg = msg + ": " + cause.Error()
	}

	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of err, or ErrUnexpected if it carries none.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.kind
		}
	}
	return ErrUnexpected
}

// Code returns a stable machine-readable identifier for the kind of err.
func Code(err error) string {
	kind := KindOf(err)
	for _, k := range kinds {
		if k.kind == kind {
			return k.code
		}
	}
	return "UNEXPECTED"
}

// AsError returns err as a classified *Error, wrapping it as unexpected when
// it carries no kind.
func AsError(err error) *Error {
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	return NewError(ErrUnexpected, err)
}
