// Package config loads start-up settings from defaults, an optional .env
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ngmaloney/weather-terminal/internal/forecast"
	"github.com/ngmaloney/weather-terminal/internal/geocoding"
	"github.com/ngmaloney/weather-terminal/internal/geolocation"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

type Config struct {
	GeocodingURL string
	ForecastURL  string
	IPLookupURL  string

	LogFile  string
	LogLevel string

	// Start-up lookup
	City        string
	Coordinates *models.Coordinates
	Geolocate   bool
}

// Load reads .env (if present) and the environment, then applies args.
// Flag errors and usage go to stderr.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()
	return parse(args, os.Stderr)
}

func parse(args []string, output io.Writer) (*Config, error) {
	geolocate, err := strconv.ParseBool(getEnv("WEATHER_GEOLOCATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("WEATHER_GEOLOCATE: %w", err)
	}

	cfg := &Config{
		GeocodingURL: getEnv("WEATHER_GEOCODING_URL", geocoding.DefaultBaseURL),
		ForecastURL:  getEnv("WEATHER_FORECAST_URL", forecast.DefaultBaseURL),
		IPLookupURL:  getEnv("WEATHER_IPLOOKUP_URL", geolocation.DefaultIPLookupURL),
		LogFile:      getEnv("WEATHER_LOG_FILE", ""),
		LogLevel:     getEnv("WEATHER_LOG_LEVEL", "info"),
		Geolocate:    geolocate,
	}

	fs := flag.NewFlagSet("weather-terminal", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.City, "city", "", "Look up a city on start-up instead of detecting your location (e.g., Lisbon)")
	lat := fs.Float64("lat", 0, "Latitude to look up on start-up (requires --lon)")
	lon := fs.Float64("lon", 0, "Longitude to look up on start-up (requires --lat)")
	noGeolocate := fs.Bool("no-geolocate", false, "Do not detect your location")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *noGeolocate {
		cfg.Geolocate = false
	}
	cfg.City = strings.TrimSpace(cfg.City)

	// Validation logic: coordinates come in pairs
	if set["lat"] != set["lon"] {
		return nil, fmt.Errorf("--lat and --lon must be given together")
	}
	if set["lat"] {
		if cfg.City != "" {
			return nil, fmt.Errorf("--city cannot be combined with --lat/--lon")
		}
		if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
			return nil, fmt.Errorf("coordinates out of range: %v, %v", *lat, *lon)
		}
		cfg.Coordinates = &models.Coordinates{Latitude: *lat, Longitude: *lon}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
