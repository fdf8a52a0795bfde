package resolver

import (
	"errors"

	"github.com/ngmaloney/weather-terminal/internal/geolocation"
)

var (
	// ErrNotFound is returned when forward geocoding yields zero matches
	ErrNotFound = errors.New("location not found")

	// ErrUpstream is returned when a provider call fails or returns a malformed payload
	ErrUpstream = errors.New("upstream provider error")

	// ErrInvalidCoordinates is returned for positions outside the WGS84 range
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// ErrorKind classifies failures for logging and display decisions
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindUpstream
	KindPermissionDenied
	KindTimeout
	KindSoft
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindPermissionDenied:
		return "permission_denied"
	case KindTimeout:
		return "timeout"
	case KindSoft:
		return "soft"
	}
	return "unknown"
}

// Kind maps an error returned by this package or by a geolocation.Locator onto its kind
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, geolocation.ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, geolocation.ErrTimeout):
		return KindTimeout
	default:
		return KindUpstream
	}
}
