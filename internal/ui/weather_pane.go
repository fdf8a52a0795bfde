package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ngmaloney/weather-terminal/internal/models"
)

// renderWeatherCard renders the current conditions for the resolved place
func (m Model) renderWeatherCard() string {
	if m.report == nil {
		return ""
	}
	wx := m.report.Weather
	place := m.report.Location

	var content strings.Builder

	// Location header
	content.WriteString(placeStyle.Render(place.Name))
	content.WriteString("\n")
	if place.Country != "" {
		content.WriteString(mutedStyle.Render("📍 " + place.Country))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	// Temperature and conditions
	content.WriteString(models.WeatherEmoji(wx.WeatherCode))
	content.WriteString("  ")
	content.WriteString(temperatureStyle.Render(formatTemperature(wx.TemperatureC)))
	content.WriteString("\n")
	content.WriteString(valueStyle.Render(models.WeatherDescription(wx.WeatherCode)))
	content.WriteString("\n\n")

	// Wind
	content.WriteString(labelStyle.Render("💨 Wind: "))
	content.WriteString(valueStyle.Render(formatWind(wx)))
	content.WriteString("\n")
	content.WriteString(labelStyle.Render("🧭 Direction: "))
	content.WriteString(valueStyle.Render(fmt.Sprintf("%d° %s", wx.WindDirectionDeg, models.CompassLabel(wx.WindDirectionDeg))))
	content.WriteString("\n\n")

	// Last updated
	if !wx.ObservedAt.IsZero() {
		content.WriteString(labelStyle.Render("🕐 Last updated: "))
		content.WriteString(valueStyle.Render(wx.ObservedAt.Format("03:04 PM")))
		content.WriteString("\n")
		content.WriteString(mutedStyle.Render(humanize.RelTime(wx.ObservedAt, m.now(), "ago", "from now")))
	}

	style := cardStyle
	if !m.search.Focused() {
		style = activeCardStyle
	}
	return m.mark(zoneCard, style.Render(content.String()))
}

// formatTemperature rounds to whole degrees Celsius
func formatTemperature(c float64) string {
	t := math.Round(c)
	if t == 0 {
		t = 0 // avoid "-0"
	}
	return fmt.Sprintf("%.0f°C", t)
}

// formatWind formats wind speed and compass direction for display
func formatWind(wx models.CurrentWeather) string {
	speed := strconv.FormatFloat(wx.WindSpeedKmh, 'f', -1, 64)
	return fmt.Sprintf("%s km/h %s", speed, models.CompassLabel(wx.WindDirectionDeg))
}
