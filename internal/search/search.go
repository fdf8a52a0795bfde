// Package search implements the city search box: text entry, keyboard
// selection over the suggestion list and submission.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ngmaloney/weather-terminal/internal/debounce"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/suggest"
)

// DefaultBlurGrace is how long suggestions survive losing focus, so a
// click on one still registers
const DefaultBlurGrace = 150 * time.Millisecond

const (
	zoneInput  = "search-input"
	zoneButton = "search-button"
	zoneRow    = "search-suggestion-"
)

// State is the search box state
type State int

const (
	StateIdle       State = iota // Nothing shown, waiting for input
	StateSuggesting              // Suggestions visible
	StateSubmitting              // Lookup in flight, input disabled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuggesting:
		return "suggesting"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SubmitMsg is emitted when a query is committed
type SubmitMsg struct {
	Query string
}

// Option configures a Model
type Option func(*Model)

// WithZones makes the input, the button and the suggestion rows clickable
func WithZones(z *zone.Manager) Option {
	return func(m *Model) { m.zones = z }
}

// WithKeyMap overrides the default bindings
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithBlurGrace sets the delay before a blurred box hides its suggestions
func WithBlurGrace(d time.Duration) Option {
	return func(m *Model) { m.grace = d }
}

// Model is the search box
type Model struct {
	input       textinput.Model
	suggestions suggest.Model
	keys        KeyMap
	zones       *zone.Manager

	selected   int // -1 when nothing is highlighted
	submitting bool
	focused    bool

	grace time.Duration
	blur  *debounce.Timer
	width int
}

// New creates a focused, idle search box fed by suggestions
func New(suggestions suggest.Model, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a city (e.g. Lisbon)..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	m := Model{
		input:       ti,
		suggestions: suggestions,
		keys:        DefaultKeyMap(),
		selected:    -1,
		focused:     true,
		grace:       DefaultBlurGrace,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.blur = debounce.New(m.grace)
	return m
}

// State derives the current state
func (m Model) State() State {
	switch {
	case m.submitting:
		return StateSubmitting
	case m.suggestions.Visible():
		return StateSuggesting
	default:
		return StateIdle
	}
}

// Update handles keys, clicks, timers and suggestion results
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case debounce.FiredMsg:
		if m.blur.Accept(msg) {
			if !m.focused {
				m.suggestions = m.suggestions.Dismiss()
				m.selected = -1
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.suggestions, cmd = m.suggestions.Update(msg)
		return m, cmd

	case suggest.ResultMsg:
		before := m.suggestions.Generation()
		var cmd tea.Cmd
		m.suggestions, cmd = m.suggestions.Update(msg)
		if m.suggestions.Generation() != before {
			m.selected = -1
		}
		return m, cmd
	}

	// Cursor blink and friends
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.submitting || !m.focused {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.State() == StateSuggesting {
			m.selected = min(m.selected+1, len(m.suggestions.Items())-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.State() == StateSuggesting {
			m.selected = max(m.selected-1, -1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.Submit()

	case key.Matches(msg, m.keys.Dismiss):
		m.suggestions = m.suggestions.Dismiss()
		m.selected = -1
		return m, nil
	}

	before := m.input.Value()
	var inputCmd, suggestCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.selected = -1
		m.suggestions, suggestCmd = m.suggestions.SetQuery(m.input.Value())
	}
	return m, tea.Batch(inputCmd, suggestCmd)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.submitting || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if i := m.SuggestionAt(msg); i >= 0 {
		return m.Choose(i)
	}
	if m.hit(zoneButton, msg) {
		return m.Submit()
	}
	return m, nil
}

// Submit commits the highlighted suggestion, or the typed text when nothing
// is highlighted. Blank text is rejected.
func (m Model) Submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if item, ok := m.Selected(); ok {
		return m.commit(item.Place.Name)
	}
	return m.commit(m.input.Value())
}

// Choose commits the i-th visible suggestion
func (m Model) Choose(i int) (Model, tea.Cmd) {
	items := m.suggestions.Items()
	if m.submitting || !m.suggestions.Visible() || i < 0 || i >= len(items) {
		return m, nil
	}
	return m.commit(items[i].Place.Name)
}

func (m Model) commit(query string) (Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m, nil
	}
	m.submitting = true
	m.selected = -1
	m.blur.Cancel()
	m.suggestions = m.suggestions.Reset()
	m.input.SetValue(query)
	m.input.Blur()
	return m, func() tea.Msg { return SubmitMsg{Query: query} }
}

// Finish ends a submission whatever its outcome: the text is cleared and the
// box becomes editable again
func (m Model) Finish() (Model, tea.Cmd) {
	m.submitting = false
	m.selected = -1
	m.input.Reset()
	m.suggestions = m.suggestions.Reset()
	if !m.focused {
		return m, nil
	}
	return m, m.input.Focus()
}

// Focus gives the box keyboard focus and re-shows earlier suggestions
func (m Model) Focus() (Model, tea.Cmd) {
	m.focused = true
	m.blur.Cancel()
	if m.submitting {
		return m, nil
	}
	m.suggestions = m.suggestions.Show()
	return m, m.input.Focus()
}

// Blur removes keyboard focus. Suggestions stay up for the grace period.
func (m Model) Blur() (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	m.focused = false
	m.input.Blur()
	return m, m.blur.Schedule()
}

// Focused reports whether the box has keyboard focus
func (m Model) Focused() bool {
	return m.focused
}

// Value returns the typed text
func (m Model) Value() string {
	return m.input.Value()
}

// SelectedIndex returns the highlighted row, -1 for none
func (m Model) SelectedIndex() int {
	return m.selected
}

// Selected returns the highlighted suggestion
func (m Model) Selected() (models.SuggestionItem, bool) {
	items := m.suggestions.Items()
	if m.State() != StateSuggesting || m.selected < 0 || m.selected >= len(items) {
		return models.SuggestionItem{}, false
	}
	return items[m.selected], true
}

// Suggestions returns the visible suggestions
func (m Model) Suggestions() []models.SuggestionItem {
	if !m.suggestions.Visible() {
		return nil
	}
	return m.suggestions.Items()
}

// SetWidth sets the input width in cells
func (m *Model) SetWidth(w int) {
	m.width = w
	m.input.Width = max(w-16, 10)
}

// SuggestionAt returns the index of the suggestion row under a click, or -1
func (m Model) SuggestionAt(msg tea.MouseMsg) int {
	if m.zones == nil || !m.suggestions.Visible() {
		return -1
	}
	for i := range m.suggestions.Items() {
		if m.hit(rowID(i), msg) {
			return i
		}
	}
	return -1
}

// InputHit reports whether a click landed on the text input
func (m Model) InputHit(msg tea.MouseMsg) bool {
	return m.hit(zoneInput, msg)
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

func rowID(i int) string {
	return fmt.Sprintf("%s%d", zoneRow, i)
}

// View renders the input, the search button and the suggestion dropdown
func (m Model) View() string {
	box := inputStyle
	if m.focused && !m.submitting {
		box = focusedInputStyle
	}
	button := buttonStyle
	if m.submitting {
		button = disabledButtonStyle
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center,
		m.mark(zoneInput, box.Render(m.input.View())),
		m.mark(zoneButton, button.Render("Search")),
	)

	items := m.Suggestions()
	if len(items) == 0 {
		return line
	}

	rows := make([]string, len(items))
	for i, item := range items {
		text := item.Place.Name
		if detail := item.Detail(); detail != "" {
			text += " " + detailStyle.Render(detail)
		}
		style := rowStyle
		if i == m.selected {
			style = selectedRowStyle
			text = item.Place.Name
			if detail := item.Detail(); detail != "" {
				text += " " + detail
			}
		}
		rows[i] = m.mark(rowID(i), style.Render(text))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		dropdownStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
	)
}
