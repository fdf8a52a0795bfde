package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ngmaloney/weather-terminal/internal/config"
	"github.com/ngmaloney/weather-terminal/internal/forecast"
	"github.com/ngmaloney/weather-terminal/internal/geocoding"
	"github.com/ngmaloney/weather-terminal/internal/geolocation"
	"github.com/ngmaloney/weather-terminal/internal/logging"
	"github.com/ngmaloney/weather-terminal/internal/resolver"
	"github.com/ngmaloney/weather-terminal/internal/ui"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	geocoder := geocoding.NewClient(cfg.GeocodingURL)
	weather := forecast.NewClient(cfg.ForecastURL)

	var locator geolocation.Locator = geolocation.NewCached(geolocation.NewIPLocator(cfg.IPLookupURL))
	if !cfg.Geolocate {
		locator = geolocation.Disabled{}
	}

	zones := zone.New()
	defer zones.Close()

	model := ui.NewModel(ui.Deps{
		Resolver:           resolver.New(geocoder, weather, resolver.WithLogger(logger)),
		Suggestions:        geocoder,
		Locator:            locator,
		Logger:             logger,
		Zones:              zones,
		InitialCoordinates: cfg.Coordinates,
		InitialCity:        cfg.City,
		Geolocate:          cfg.Geolocate,
	})

	logger.Info().
		Str("geocoding_url", cfg.GeocodingURL).
		Str("forecast_url", cfg.ForecastURL).
		Bool("geolocate", cfg.Geolocate).
		Msg("starting weather terminal")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
