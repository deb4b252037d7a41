// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/ui/styles"
	"github.com/minbao/minbao-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// NoticeLevel colors the transient notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// NoticeMsg asks the host to show a transient notice in its status bar.
type NoticeMsg struct {
	Text  string
	Level NoticeLevel
}

// Notify returns a command that emits a NoticeMsg.
func Notify(text string, level NoticeLevel) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: text, Level: level}
	}
}

// StatusBar shows a one-line status: a transient notice on the left and the
// key help on the right.
type StatusBar struct {
	Width int

	notice string
	level  NoticeLevel
	help   string
	right  string

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetHelp sets the key help text.
func (s *StatusBar) SetHelp(help string) {
	s.help = help
}

// SetRight sets a short right-aligned label (backend origin, for example).
func (s *StatusBar) SetRight(text string) {
	s.right = text
}

// SetNotice replaces the transient notice.
func (s *StatusBar) SetNotice(text string, level NoticeLevel) {
	s.notice = text
	s.level = level
}

// ClearNotice removes the transient notice.
func (s *StatusBar) ClearNotice() {
	s.notice = ""
}

// Notice returns the current notice text.
func (s *StatusBar) Notice() string {
	return s.notice
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.theme.ShortcutDesc.Render(s.help)
	if s.notice != "" {
		style := s.theme.Muted
		switch s.level {
		case NoticeSuccess:
			style = s.theme.Success
		case NoticeWarning:
			style = s.theme.Warning
		case NoticeError:
			style = s.theme.Error
		}
		left = style.Render(s.notice)
	}
	right := s.theme.Muted.Render(s.right)

	if s.Width <= 0 {
		return s.theme.StatusBar.Render(left + "  " + right)
	}

	inner := s.Width - 2
	rightW := lipgloss.Width(right)
	if lipgloss.Width(left)+rightW+1 > inner {
		plainLeft := s.help
		if s.notice != "" {
			plainLeft = s.notice
		}
		left = util.Truncate(plainLeft, inner-rightW-1)
	}
	gap := inner - lipgloss.Width(left) - rightW
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
