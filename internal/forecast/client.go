// Package forecast fetches current conditions from the Open-Meteo forecast API
package forecast

import (
	"context"

	"github.com/ngmaloney/weather-terminal/internal/models"
)

// WeatherClient defines the interface for fetching current weather
type WeatherClient interface {
	// Current retrieves the conditions at the given coordinates right now
	Current(ctx context.Context, lat, lon float64) (*models.CurrentWeather, error)
}
