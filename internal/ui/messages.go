package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/weather-terminal/internal/geolocation"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

// origin records what started a resolution attempt
type origin int

const (
	originName        origin = iota // search box or --city
	originCoordinates               // --lat/--lon or a repeat of a coordinate lookup
	originGeolocation               // a position read
)

// lookup is a resolution request that can be repeated
type lookup struct {
	origin origin
	city   string
	coords models.Coordinates
}

// lookupMsg asks the model to start a resolution attempt
type lookupMsg struct {
	lookup lookup
}

// locateMsg asks the model to read the current position
type locateMsg struct {
	userInitiated bool
}

// resolvedMsg is sent when a resolution attempt completes
type resolvedMsg struct {
	attempt uint64
	origin  origin
	report  *models.Report
	err     error
}

// positionMsg is sent when a position read completes
type positionMsg struct {
	attempt       uint64
	userInitiated bool
	pos           *geolocation.Position
	err           error
}

// resolveCity looks up weather for a city name in the background
func resolveCity(r Resolver, attempt uint64, city string) tea.Cmd {
	return func() tea.Msg {
		report, err := r.ResolveByName(context.Background(), city)
		return resolvedMsg{attempt: attempt, origin: originName, report: report, err: err}
	}
}

// resolveCoordinates looks up weather and a place name for a position in the background
func resolveCoordinates(r Resolver, attempt uint64, c models.Coordinates, o origin) tea.Cmd {
	return func() tea.Msg {
		report, err := r.ResolveByCoordinates(context.Background(), c.Latitude, c.Longitude)
		return resolvedMsg{attempt: attempt, origin: o, report: report, err: err}
	}
}

// locate reads the current position. The locator enforces the timeout.
func locate(l geolocation.Locator, attempt uint64, userInitiated bool) tea.Cmd {
	return func() tea.Msg {
		pos, err := l.CurrentPosition(context.Background(), geolocation.DefaultOptions())
		return positionMsg{attempt: attempt, userInitiated: userInitiated, pos: pos, err: err}
	}
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
