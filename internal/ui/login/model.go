// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// UnlockedMsg is emitted once the gate accepts a passphrase.
type UnlockedMsg struct {
	Token string
}

// CancelMsg is emitted when the user leaves the form without unlocking.
type CancelMsg struct{}

type checkResultMsg struct {
	attempt uint64
	res     auth.Result
	err     error
}

// =============================================================================
// LOGIN MODEL
// =============================================================================

// Model is the Bubble Tea model for the passphrase form.
type Model struct {
	theme *styles.Theme
	cat   *i18n.Catalog
	gate  *auth.Gate
	ctx   context.Context

	input   textinput.Model
	spinner spinner.Model

	checking bool
	errText  string

	// attempt numbers submissions; results for any other attempt are dropped.
	attempt uint64
	cancel  context.CancelFunc

	width  int
	height int
}

// New creates the form for gate.
func New(ctx context.Context, theme *styles.Theme, cat *i18n.Catalog, gate *auth.Gate) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	if cat == nil {
		cat = i18n.Default()
	}

	ti := textinput.New()
	ti.Placeholder = cat.LoginPrompt
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 32
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:   theme,
		cat:     cat,
		gate:    gate,
		ctx:     ctx,
		input:   ti,
		spinner: sp,
	}
}

// Checking reports whether a verification is outstanding.
func (m Model) Checking() bool {
	return m.checking
}

// Value returns the typed passphrase.
func (m Model) Value() string {
	return m.input.Value()
}

// ErrorText returns the message shown under the field, if any.
func (m Model) ErrorText() string {
	return m.errText
}

// Reset clears the field and any previous failure, for a fresh visit.
func (m *Model) Reset() tea.Cmd {
	m.abandon()
	m.input.Reset()
	m.errText = ""
	return m.input.Focus()
}

// SetSize sets the area available to the form.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case checkResultMsg:
		return m.finish(msg)

	case spinner.TickMsg:
		if !m.checking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.submit()
		case "esc":
			m.abandon()
			return m, func() tea.Msg { return CancelMsg{} }
		}
		if m.checking {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts verification. A submit while one is outstanding is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.checking {
		return m, nil
	}
	m.checking = true
	m.errText = ""
	m.attempt++

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	gate, attempt, passphrase := m.gate, m.attempt, m.input.Value()
	check := func() tea.Msg {
		res, err := gate.Check(ctx, passphrase)
		return checkResultMsg{attempt: attempt, res: res, err: err}
	}
	return m, tea.Batch(check, m.spinner.Tick)
}

// finish applies a verification result. The field is cleared either way.
func (m Model) finish(msg checkResultMsg) (tea.Model, tea.Cmd) {
	if !m.checking || msg.attempt != m.attempt {
		return m, nil
	}
	m.stopCheck()
	m.input.Reset()

	outcome := m.gate.Apply(msg.res, msg.err)
	if outcome.Unlocked {
		m.errText = ""
		token := msg.res.Token
		return m, func() tea.Msg { return UnlockedMsg{Token: token} }
	}

	if msg.err != nil {
		m.errText = m.cat.LoginUnavailable + api.Detail(msg.err)
	} else {
		m.errText = m.cat.LoginFailed
	}
	return m, nil
}

// abandon drops an outstanding verification. Its result, if it still
// arrives, no longer matches the current attempt.
func (m *Model) abandon() {
	if m.checking {
		m.attempt++
	}
	m.stopCheck()
}

func (m *Model) stopCheck() {
	m.checking = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the form centered in the available area.
func (m Model) View() string {
	lines := []string{
		m.theme.DialogTitle.Render(m.cat.LoginTitle),
		"",
		m.theme.FieldLabel.Render(m.cat.LoginPrompt),
		m.input.View(),
		"",
	}

	switch {
	case m.checking:
		lines = append(lines, m.spinner.View()+" "+m.theme.Muted.Render(m.cat.LoginChecking))
	case m.errText != "":
		lines = append(lines, m.theme.Error.Render(m.errText))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, "", m.theme.DialogFooter.Render(m.cat.LoginHelp))

	box := m.theme.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
