// Package resolver turns a city name or a pair of coordinates into a weather
// report and a displayable place
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/weather-terminal/internal/forecast"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

// Geocoder is the subset of the geocoding client the resolver needs
type Geocoder interface {
	Search(ctx context.Context, name string, count int) ([]models.SuggestionItem, error)
	Reverse(ctx context.Context, lat, lon float64) (*models.PlaceName, error)
}

// Resolver composes forward geocoding, reverse geocoding and weather fetches.
// It holds no state between calls.
type Resolver struct {
	geocoder Geocoder
	weather  forecast.WeatherClient
	logger   zerolog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for soft failures
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver
func New(geocoder Geocoder, weather forecast.WeatherClient, opts ...Option) *Resolver {
	r := &Resolver{
		geocoder: geocoder,
		weather:  weather,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveByName geocodes city (first match only) and fetches its weather.
// The displayed place comes from the geocoding match.
func (r *Resolver) ResolveByName(ctx context.Context, city string) (*models.Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: empty city name", ErrNotFound)
	}

	matches, err := r.geocoder.Search(ctx, city, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: geocoding %q: %w", ErrUpstream, city, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, city)
	}

	place := matches[0].Place
	c := place.Coordinates

	weather, err := r.weather.Current(ctx, c.Latitude, c.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching weather for %q: %w", ErrUpstream, city, err)
	}

	return &models.Report{Weather: *weather, Location: place}, nil
}

// ResolveByCoordinates fetches weather and a display name for a position
// concurrently. A failed or empty reverse lookup is replaced with the
// placeholder place; a failed weather fetch fails the whole call.
func (r *Resolver) ResolveByCoordinates(ctx context.Context, lat, lon float64) (*models.Report, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: %f,%f", ErrInvalidCoordinates, lat, lon)
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lon}

	var (
		weather *models.CurrentWeather
		place   models.PlaceName
	)

	// The reverse lookup never returns an error to the group, so a weather
	// failure is the only thing that can cancel gctx.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := r.weather.Current(gctx, lat, lon)
		if err != nil {
			return err
		}
		weather = w
		return nil
	})
	g.Go(func() error {
		place = r.reverse(gctx, coords)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: fetching weather at %.4f,%.4f: %w", ErrUpstream, lat, lon, err)
	}

	return &models.Report{Weather: *weather, Location: place}, nil
}

// reverse names a position, absorbing every failure into the placeholder
func (r *Resolver) reverse(ctx context.Context, coords models.Coordinates) models.PlaceName {
	place, err := r.geocoder.Reverse(ctx, coords.Latitude, coords.Longitude)
	if err != nil || place == nil {
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn().
				Err(err).
				Str("kind", KindSoft.String()).
				Float64("lat", coords.Latitude).
				Float64("lon", coords.Longitude).
				Msg("reverse geocoding failed, using placeholder")
		}
		return models.Placeholder(coords)
	}
	return *place
}
