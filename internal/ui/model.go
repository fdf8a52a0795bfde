package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/weather-terminal/internal/geolocation"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/resolver"
	"github.com/ngmaloney/weather-terminal/internal/search"
	"github.com/ngmaloney/weather-terminal/internal/suggest"
)

// User-facing failure messages. The error kind is only logged.
const (
	msgCityNotFound    = "City not found, try again."
	msgLocationFailure = "Could not get weather for your location."
)

const (
	zoneCard   = "weather-card"
	zoneLocate = "locate-button"
)

// Resolver turns a city name or a position into a weather report
type Resolver interface {
	ResolveByName(ctx context.Context, city string) (*models.Report, error)
	ResolveByCoordinates(ctx context.Context, lat, lon float64) (*models.Report, error)
}

// Deps holds the collaborators and start-up options of the application
type Deps struct {
	Resolver    Resolver
	Suggestions suggest.Lookup
	Locator     geolocation.Locator // nil disables "use my location"
	Logger      zerolog.Logger
	Zones       *zone.Manager // nil disables mouse support

	// Start-up lookup, in order of precedence: coordinates, city, geolocation
	InitialCoordinates *models.Coordinates
	InitialCity        string
	Geolocate          bool

	SuggestOptions []suggest.Option
	Now            func() time.Time
}

// Model represents the application's state
type Model struct {
	width  int
	height int

	resolver Resolver
	locator  geolocation.Locator
	logger   zerolog.Logger
	zones    *zone.Manager
	now      func() time.Time
	startup  tea.Cmd

	// Search
	search search.Model

	// AppState. report holds weather and location together so one is
	// never shown without the other.
	report       *models.Report
	errorMessage string

	attempt  uint64 // id of the latest resolution or position read
	last     *lookup
	loading  bool
	locating bool

	keys    KeyMap
	spinner spinner.Model
	help    help.Model
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	suggestOpts := append([]suggest.Option{suggest.WithLogger(logger)}, deps.SuggestOptions...)
	engine := suggest.New(deps.Suggestions, suggestOpts...)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := Model{
		resolver: deps.Resolver,
		locator:  deps.Locator,
		logger:   logger,
		zones:    deps.Zones,
		now:      now,
		search:   search.New(engine, search.WithZones(deps.Zones)),
		keys:     DefaultKeyMap(),
		spinner:  s,
		help:     help.New(),
	}

	switch {
	case deps.InitialCoordinates != nil:
		m.startup = send(lookupMsg{lookup: lookup{origin: originCoordinates, coords: *deps.InitialCoordinates}})
	case deps.InitialCity != "":
		m.startup = send(lookupMsg{lookup: lookup{origin: originName, city: deps.InitialCity}})
	case deps.Geolocate && deps.Locator != nil:
		m.startup = send(locateMsg{userInitiated: false})
	}

	return m
}

// Init starts the cursor blink and the start-up lookup, if any
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startup)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(min(msg.Width, 72))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case search.SubmitMsg:
		return m.begin(lookup{origin: originName, city: msg.Query}, true)

	case lookupMsg:
		return m.begin(msg.lookup, false)

	case locateMsg:
		return m.startLocate(msg.userInitiated)

	case positionMsg:
		return m.handlePosition(msg)

	case resolvedMsg:
		return m.handleResolved(msg)
	}

	// Debounce timers, suggestion results and cursor blinks belong to the search box
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchFocus):
		return m.toggleFocus()
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	// Card keys
	switch {
	case key.Matches(msg, m.keys.CardQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		var cmd tea.Cmd
		m.search, cmd = m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Locate):
		return m.startLocate(true)
	case key.Matches(msg, m.keys.Refresh):
		if m.last == nil || m.loading {
			return m, nil
		}
		return m.begin(*m.last, false)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.zones == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch {
	case m.search.InputHit(msg) && !m.search.Focused():
		m.search, cmd = m.search.Focus()
		return m, cmd
	case m.hit(zoneLocate, msg):
		return m.startLocate(true)
	case m.hit(zoneCard, msg) && m.search.Focused():
		m.search, cmd = m.search.Blur()
		cmds = append(cmds, cmd)
	}

	// Suggestion rows and the search button
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.search.Focused() {
		m.search, cmd = m.search.Blur()
	} else {
		m.search, cmd = m.search.Focus()
	}
	return m, cmd
}

// begin starts a resolution attempt. The previous outcome is cleared before
// the request goes out and any attempt still in flight is superseded.
func (m Model) begin(l lookup, fromSearch bool) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// A submission from the search box is finished when its own result lands
	if !fromSearch && m.search.State() == search.StateSubmitting {
		var cmd tea.Cmd
		m.search, cmd = m.search.Finish()
		cmds = append(cmds, cmd)
	}

	m.attempt++
	m.report = nil
	m.errorMessage = ""
	m.loading = true
	m.locating = false
	m.last = &l

	m.logger.Debug().
		Uint64("attempt", m.attempt).
		Str("city", l.city).
		Float64("lat", l.coords.Latitude).
		Float64("lon", l.coords.Longitude).
		Msg("resolving")

	switch l.origin {
	case originName:
		cmds = append(cmds, resolveCity(m.resolver, m.attempt, l.city))
	default:
		cmds = append(cmds, resolveCoordinates(m.resolver, m.attempt, l.coords, l.origin))
	}
	cmds = append(cmds, m.spinner.Tick)

	return m, tea.Batch(cmds...)
}

// startLocate issues a position read tagged with a new attempt id. A
// user-initiated read clears the current outcome like any other lookup.
func (m Model) startLocate(userInitiated bool) (tea.Model, tea.Cmd) {
	if m.locator == nil {
		if userInitiated {
			m.errorMessage = msgLocationFailure
		}
		return m, nil
	}

	var cmds []tea.Cmd
	if userInitiated && m.search.State() == search.StateSubmitting {
		var cmd tea.Cmd
		m.search, cmd = m.search.Finish()
		cmds = append(cmds, cmd)
	}

	m.attempt++
	m.locating = true
	if userInitiated {
		m.report = nil
		m.errorMessage = ""
		m.loading = true
		cmds = append(cmds, m.spinner.Tick)
	}

	cmds = append(cmds, locate(m.locator, m.attempt, userInitiated))
	return m, tea.Batch(cmds...)
}

func (m Model) handlePosition(msg positionMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		m.logger.Debug().
			Uint64("attempt", msg.attempt).
			Uint64("latest", m.attempt).
			Msg("discarding superseded position")
		return m, nil
	}
	m.locating = false

	if msg.err != nil {
		if !msg.userInitiated {
			m.logger.Info().
				Err(msg.err).
				Stringer("kind", resolver.Kind(msg.err)).
				Msg("start-up geolocation unavailable")
			return m, nil
		}
		m.logger.Warn().
			Err(msg.err).
			Stringer("kind", resolver.Kind(msg.err)).
			Msg("geolocation failed")
		m.loading = false
		m.errorMessage = msgLocationFailure
		return m, nil
	}

	return m.begin(lookup{origin: originGeolocation, coords: msg.pos.Coordinates}, false)
}

func (m Model) handleResolved(msg resolvedMsg) (tea.Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		m.logger.Debug().
			Uint64("attempt", msg.attempt).
			Uint64("latest", m.attempt).
			Msg("discarding superseded result")
		return m, nil
	}
	m.loading = false

	var cmd tea.Cmd
	if m.search.State() == search.StateSubmitting {
		m.search, cmd = m.search.Finish()
	}

	if msg.err != nil {
		m.logger.Error().
			Err(msg.err).
			Stringer("kind", resolver.Kind(msg.err)).
			Uint64("attempt", msg.attempt).
			Msg("resolution failed")
		m.report = nil
		if msg.origin == originName {
			m.errorMessage = msgCityNotFound
		} else {
			m.errorMessage = msgLocationFailure
		}
		return m, cmd
	}

	m.report = msg.report
	m.errorMessage = ""
	return m, cmd
}

func (m Model) hit(id string, msg tea.MouseMsg) bool {
	if m.zones == nil {
		return false
	}
	z := m.zones.Get(id)
	return z != nil && z.InBounds(msg)
}

func (m Model) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(id, s)
}

// Weather returns the displayed conditions, nil when none
func (m Model) Weather() *models.CurrentWeather {
	if m.report == nil {
		return nil
	}
	return &m.report.Weather
}

// Location returns the displayed place, nil when none
func (m Model) Location() *models.PlaceName {
	if m.report == nil {
		return nil
	}
	return &m.report.Location
}

// ErrorMessage returns the banner text, empty when there is none
func (m Model) ErrorMessage() string {
	return m.errorMessage
}

// Loading reports whether a resolution attempt is in flight
func (m Model) Loading() bool {
	return m.loading
}

// View renders the UI
func (m Model) View() string {
	var sections []string

	sections = append(sections,
		titleStyle.Render("🌤 Weather Terminal"),
		"",
		m.search.View(),
	)

	if m.locator != nil {
		sections = append(sections, m.mark(zoneLocate, locateButtonStyle.Render("📍 Use my location")))
	}

	switch {
	case m.loading:
		sections = append(sections, "", m.spinner.View()+" Fetching weather...")
	case m.locating:
		sections = append(sections, "", mutedStyle.Render("Detecting your location..."))
	}

	if m.errorMessage != "" {
		sections = append(sections, "", errorStyle.Render("✗ "+m.errorMessage))
	}

	if m.report != nil {
		sections = append(sections, "", m.renderWeatherCard())
	}

	sections = append(sections, helpStyle.Render(m.help.View(m.helpKeys())))

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.zones != nil {
		return m.zones.Scan(view)
	}
	return view
}
