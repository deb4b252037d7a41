// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

const (
	inputHeight = 3
	inputChrome = 2 // top and bottom border of the input container
	statusLines = 1 // thinking indicator row
)

// Options tunes rendering.
type Options struct {
	// Markdown renders assistant replies through glamour.
	Markdown bool
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the consultation view.
type Model struct {
	theme *styles.Theme
	cat   *i18n.Catalog
	keys  KeyMap

	// ctx bounds every chat request; it is the process context, not a
	// per-view one.
	ctx     context.Context
	client  Chatter
	session *Session

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	markdown bool
	renderer *glamour.TermRenderer
	rendered map[string]string // message ID -> rendered markdown at current width

	width  int
	height int
	ready  bool
}

// New creates the chat model. A nil theme or catalog falls back to the
// defaults.
func New(ctx context.Context, theme *styles.Theme, cat *i18n.Catalog, client Chatter, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	if cat == nil {
		cat = i18n.Default()
	}

	ta := textarea.New()
	ta.Placeholder = cat.InputPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetHeight(inputHeight)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	return Model{
		theme:    theme,
		cat:      cat,
		keys:     DefaultKeyMap(),
		ctx:      ctx,
		client:   client,
		session:  NewSession(cat),
		input:    ta,
		viewport: vp,
		spinner:  sp,
		markdown: opts.Markdown,
		rendered: make(map[string]string),
	}
}

// Session exposes the conversation state.
func (m Model) Session() *Session {
	return m.session
}

// Sending reports whether a request is outstanding.
func (m Model) Sending() bool {
	return m.session.Sending()
}

// InputValue returns the current contents of the input box.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the contents of the input box.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

// Focus gives keyboard focus to the input box.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus from the input box.
func (m *Model) Blur() {
	m.input.Blur()
}

// SetSize sets the area available to the view.
func (m *Model) SetSize(width, height int) {
	if width == m.width && height == m.height && m.ready {
		return
	}
	if width != m.width {
		m.rendered = make(map[string]string)
		m.renderer = nil
	}
	m.width = width
	m.height = height

	m.input.SetWidth(max(width-inputChrome, 10))
	m.viewport.Width = width
	m.viewport.Height = max(height-inputHeight-inputChrome-statusLines, 1)
	m.ready = true
	m.refresh()
}

// markdownRenderer lazily builds the glamour renderer for the current width.
func (m *Model) markdownRenderer() *glamour.TermRenderer {
	if !m.markdown {
		return nil
	}
	if m.renderer != nil {
		return m.renderer
	}
	wrap := max(m.bubbleWidth()-4, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.markdown = false
		return nil
	}
	m.renderer = r
	return r
}
