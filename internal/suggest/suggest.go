// Package suggest produces debounced, race-free city suggestions for a
// stream of search box edits
package suggest

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/weather-terminal/internal/debounce"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

const (
	DefaultDelay     = 300 * time.Millisecond
	DefaultMinLength = 2
	DefaultLimit     = 5
)

// Lookup finds candidate places for a partial name
type Lookup interface {
	Search(ctx context.Context, query string, count int) ([]models.SuggestionItem, error)
}

// ResultMsg carries the outcome of a suggestion lookup
type ResultMsg struct {
	engine int
	id     uint64
	query  string
	items  []models.SuggestionItem
	err    error
}

// Option configures a Model
type Option func(*Model)

// WithDelay sets the debounce quiet period
func WithDelay(d time.Duration) Option {
	return func(m *Model) { m.delay = d }
}

// WithMinLength sets the minimum query length, in characters, that triggers a lookup
func WithMinLength(n int) Option {
	return func(m *Model) { m.minLength = n }
}

// WithLimit caps the number of suggestions requested
func WithLimit(n int) Option {
	return func(m *Model) { m.limit = n }
}

// WithLogger sets the sink for lookup failures
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model is the suggestion engine. Like other Bubble Tea components it is
// updated by value; the debounce timer handle is shared between copies.
type Model struct {
	lookup    Lookup
	delay     time.Duration
	minLength int
	limit     int
	logger    zerolog.Logger

	timer  *debounce.Timer
	query  string // last value seen
	seq    uint64 // request id counter
	latest uint64 // id of the most recently issued request, 0 when nothing is outstanding

	inFlight  bool
	items     []models.SuggestionItem
	visible   bool
	dismissed bool   // hidden by the user; later results stay hidden until the next edit
	applied   uint64 // number of results applied
}

// New creates a suggestion engine backed by lookup
func New(lookup Lookup, opts ...Option) Model {
	m := Model{
		lookup:    lookup,
		delay:     DefaultDelay,
		minLength: DefaultMinLength,
		limit:     DefaultLimit,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.timer = debounce.New(m.delay)
	return m
}

// SetQuery feeds a new value of the search box into the engine. Values
// shorter than the minimum length clear the suggestions straight away;
// longer ones (re)arm the debounce timer.
func (m Model) SetQuery(q string) (Model, tea.Cmd) {
	if q == m.query {
		return m, nil
	}
	m.query = q
	m.dismissed = false
	m.timer.Cancel()

	if utf8.RuneCountInString(strings.TrimSpace(q)) < m.minLength {
		m.clear()
		return m, nil
	}

	return m, m.timer.Schedule()
}

// Update handles debounce expiry and lookup results
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounce.FiredMsg:
		if !m.timer.Accept(msg) {
			return m, nil
		}
		m.seq++
		m.latest = m.seq
		m.inFlight = true
		return m, m.fetch(m.latest, strings.TrimSpace(m.query))

	case ResultMsg:
		if msg.engine != m.timer.ID() {
			return m, nil
		}
		if msg.id != m.latest {
			m.logger.Debug().
				Str("query", msg.query).
				Uint64("request", msg.id).
				Uint64("latest", m.latest).
				Msg("discarding stale suggestions")
			return m, nil
		}
		m.inFlight = false
		m.applied++

		if msg.err != nil {
			m.logger.Warn().
				Err(msg.err).
				Str("query", msg.query).
				Msg("suggestion lookup failed")
			m.items = nil
			m.visible = false
			return m, nil
		}

		m.items = msg.items
		m.visible = len(msg.items) > 0 && !m.dismissed
		return m, nil
	}

	return m, nil
}

// fetch issues the lookup for query tagged with id
func (m Model) fetch(id uint64, query string) tea.Cmd {
	lookup, limit, engine := m.lookup, m.limit, m.timer.ID()
	return func() tea.Msg {
		items, err := lookup.Search(context.Background(), query, limit)
		return ResultMsg{engine: engine, id: id, query: query, items: items, err: err}
	}
}

// clear drops the suggestions and invalidates any request in flight
func (m *Model) clear() {
	m.latest = 0
	m.inFlight = false
	m.items = nil
	m.visible = false
}

// Dismiss hides the suggestions without discarding them. Results still in
// flight land hidden until the query changes or Show is called.
func (m Model) Dismiss() Model {
	m.visible = false
	m.dismissed = true
	return m
}

// Show re-displays previously fetched suggestions, if any
func (m Model) Show() Model {
	m.dismissed = false
	m.visible = len(m.items) > 0
	return m
}

// Reset cancels the pending timer, invalidates requests in flight and clears everything
func (m Model) Reset() Model {
	m.timer.Cancel()
	m.query = ""
	m.dismissed = false
	m.clear()
	return m
}

// Items returns the current suggestions in provider order
func (m Model) Items() []models.SuggestionItem {
	return m.items
}

// Visible reports whether the suggestion list should be shown
func (m Model) Visible() bool {
	return m.visible && len(m.items) > 0
}

// Generation counts the results applied so far. Stale and foreign results
// leave it unchanged.
func (m Model) Generation() uint64 {
	return m.applied
}

// Query returns the last value fed to SetQuery
func (m Model) Query() string {
	return m.query
}

// Pending reports whether a debounce timer is armed
func (m Model) Pending() bool {
	return m.timer.Armed()
}

// InFlight reports whether the latest issued lookup has not answered yet
func (m Model) InFlight() bool {
	return m.inFlight
}
