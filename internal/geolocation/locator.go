// Package geolocation provides one-shot reads of the device's current position
package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/models"
)

var (
	// ErrPermissionDenied is returned when position lookups are disabled
	ErrPermissionDenied = errors.New("geolocation permission denied")

	// ErrTimeout is returned when no position could be read within Options.Timeout
	ErrTimeout = errors.New("geolocation timed out")

	// ErrUnavailable is returned when the position source could not determine a position
	ErrUnavailable = errors.New("position unavailable")
)

// Options configures a single position read
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration // zero means no limit
	MaximumAge   time.Duration // how stale a previously read position may be
}

// DefaultOptions are the settings used for the start-up position read
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaximumAge:   5 * time.Minute,
	}
}

// Position is a position fix
type Position struct {
	Coordinates models.Coordinates
	Accuracy    float64 // metres, 0 when unknown
	Timestamp   time.Time
}

// Locator reads the current position
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (*Position, error)
}

// Disabled is a Locator for users who opted out of geolocation
type Disabled struct{}

// CurrentPosition always fails with ErrPermissionDenied
func (Disabled) CurrentPosition(context.Context, Options) (*Position, error) {
	return nil, ErrPermissionDenied
}

// StaticLocator reports a fixed, configured position
type StaticLocator struct {
	Coordinates models.Coordinates
}

// CurrentPosition returns the configured coordinates
func (s StaticLocator) CurrentPosition(context.Context, Options) (*Position, error) {
	return &Position{Coordinates: s.Coordinates, Timestamp: time.Now()}, nil
}

// Cached remembers the last successful fix and serves it while it is
// younger than Options.MaximumAge
type Cached struct {
	next Locator
	now  func() time.Time

	mu   sync.Mutex
	last *Position
}

// NewCached wraps a Locator with MaximumAge handling
func NewCached(next Locator) *Cached {
	return &Cached{next: next, now: time.Now}
}

// CurrentPosition returns the remembered fix if fresh enough, otherwise reads a new one
func (c *Cached) CurrentPosition(ctx context.Context, opts Options) (*Position, error) {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	if last != nil && opts.MaximumAge > 0 && c.now().Sub(last.Timestamp) <= opts.MaximumAge {
		pos := *last
		return &pos, nil
	}

	pos, err := c.next.CurrentPosition(ctx, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	stored := *pos
	c.last = &stored
	c.mu.Unlock()

	return pos, nil
}

// withTimeout bounds ctx by opts.Timeout
func withTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	if opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, opts.Timeout)
}
