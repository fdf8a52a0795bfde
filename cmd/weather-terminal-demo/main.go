package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/weather-terminal/internal/geocoding"
	"github.com/ngmaloney/weather-terminal/internal/geolocation"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/resolver"
	"github.com/ngmaloney/weather-terminal/internal/ui"
)

// This demo shows the UI with mock data and no network access
func main() {
	zones := zone.New()
	defer zones.Close()

	places := demoPlaces()
	seattle := places[0].Place.Coordinates

	model := ui.NewModel(ui.Deps{
		Resolver:    resolver.New(demoGeocoder(places), demoWeather{}),
		Suggestions: demoGeocoder(places),
		Locator:     geolocation.StaticLocator{Coordinates: seattle},
		Logger:      zerolog.Nop(),
		Zones:       zones,
		Geolocate:   true,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

func demoPlaces() []models.SuggestionItem {
	place := func(name, admin1, country string, lat, lon float64) models.SuggestionItem {
		return models.SuggestionItem{
			Place: models.PlaceName{
				Name:        name,
				Country:     country,
				Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
			},
			Admin1: admin1,
		}
	}
	return []models.SuggestionItem{
		place("Seattle", "Washington", "United States", 47.6062, -122.3321),
		place("Paris", "Île-de-France", "France", 48.8534, 2.3488),
		place("Paris", "Texas", "United States", 33.6609, -95.5555),
		place("Lisbon", "Lisbon", "Portugal", 38.7167, -9.1333),
		place("London", "England", "United Kingdom", 51.5085, -0.1257),
		place("Los Angeles", "California", "United States", 34.0522, -118.2437),
		place("Tokyo", "Tokyo", "Japan", 35.6895, 139.6917),
	}
}

// demoGeocoder matches names by prefix, with a small artificial latency
type demoGeocoder []models.SuggestionItem

func (g demoGeocoder) Search(ctx context.Context, name string, count int) ([]models.SuggestionItem, error) {
	if err := pause(ctx, 150*time.Millisecond); err != nil {
		return nil, err
	}
	var out []models.SuggestionItem
	for _, item := range g {
		if strings.HasPrefix(strings.ToLower(item.Place.Name), strings.ToLower(name)) {
			out = append(out, item)
		}
		if len(out) == count {
			break
		}
	}
	return out, nil
}

func (g demoGeocoder) Reverse(ctx context.Context, lat, lon float64) (*models.PlaceName, error) {
	if err := pause(ctx, 150*time.Millisecond); err != nil {
		return nil, err
	}
	for _, item := range g {
		c := item.Place.Coordinates
		if c.Latitude == lat && c.Longitude == lon {
			p := item.Place
			return &p, nil
		}
	}
	return nil, geocoding.ErrNoResults
}

// demoWeather derives plausible conditions from the coordinates
type demoWeather struct{}

func (demoWeather) Current(ctx context.Context, lat, lon float64) (*models.CurrentWeather, error) {
	if err := pause(ctx, 400*time.Millisecond); err != nil {
		return nil, err
	}
	codes := []int{0, 1, 2, 3, 45, 61, 71, 95}
	seed := int(lat*10+lon*10) & 0xff
	return &models.CurrentWeather{
		TemperatureC:     30 - lat/3,
		WindSpeedKmh:     float64(seed%40) + 0.5,
		WindDirectionDeg: (seed * 7) % 360,
		WeatherCode:      codes[seed%len(codes)],
		ObservedAt:       time.Now().Add(-12 * time.Minute),
	}, nil
}

func pause(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
