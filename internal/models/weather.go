package models

import (
	"math"
	"time"
)

// CurrentWeather is the provider's current-conditions snapshot
type CurrentWeather struct {
	TemperatureC     float64
	WindSpeedKmh     float64
	WindDirectionDeg int // [0,360)
	WeatherCode      int // WMO code
	ObservedAt       time.Time
}

// Report pairs a weather snapshot with the place it was fetched for
type Report struct {
	Weather  CurrentWeather
	Location PlaceName
}

// NormalizeDegrees folds any bearing into [0,360)
func NormalizeDegrees(deg float64) int {
	d := int(math.Round(deg)) % 360
	if d < 0 {
		d += 360
	}
	return d
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// CompassLabel converts a bearing in degrees to a 16-point compass label
func CompassLabel(deg int) string {
	idx := int(math.Round(float64(NormalizeDegrees(float64(deg)))/22.5)) % 16
	return compassPoints[idx]
}

type wmoCode struct {
	emoji       string
	description string
}

// WMO weather interpretation codes as returned by Open-Meteo
var wmoCodes = map[int]wmoCode{
	0:  {"☀️", "Clear sky"},
	1:  {"🌤️", "Mainly clear"},
	2:  {"⛅", "Partly cloudy"},
	3:  {"☁️", "Overcast"},
	45: {"🌫️", "Fog"},
	48: {"🌫️", "Depositing rime fog"},
	51: {"🌦️", "Light drizzle"},
	53: {"🌦️", "Moderate drizzle"},
	55: {"🌦️", "Dense drizzle"},
	61: {"🌧️", "Slight rain"},
	63: {"🌧️", "Moderate rain"},
	65: {"🌧️", "Heavy rain"},
	71: {"🌨️", "Slight snow"},
	73: {"🌨️", "Moderate snow"},
	75: {"❄️", "Heavy snow"},
	77: {"🌨️", "Snow grains"},
	80: {"🌦️", "Slight rain showers"},
	81: {"🌧️", "Moderate rain showers"},
	82: {"⛈️", "Violent rain showers"},
	85: {"🌨️", "Slight snow showers"},
	86: {"❄️", "Heavy snow showers"},
	95: {"⛈️", "Thunderstorm"},
	96: {"⛈️", "Thunderstorm with slight hail"},
	99: {"⛈️", "Thunderstorm with heavy hail"},
}

// WeatherEmoji returns the icon for a WMO weather code
func WeatherEmoji(code int) string {
	if c, ok := wmoCodes[code]; ok {
		return c.emoji
	}
	return "🌤️"
}

// WeatherDescription returns a short human-readable condition for a WMO code
func WeatherDescription(code int) string {
	if c, ok := wmoCodes[code]; ok {
		return c.description
	}
	return "Unknown conditions"
}
