// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER & NAVIGATION
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	NavTab         lipgloss.Style
	NavTabActive   lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	InputContainer  lipgloss.Style
	Spinner         lipgloss.Style
	ThinkingText    lipgloss.Style

	// ==========================================================================
	// FORMS & PANES
	// ==========================================================================

	Pane        lipgloss.Style
	PaneActive  lipgloss.Style
	PaneTitle   lipgloss.Style
	FieldLabel  lipgloss.Style
	FieldValue  lipgloss.Style
	FieldActive lipgloss.Style
	ListItem    lipgloss.Style
	ListCursor  lipgloss.Style

	// ==========================================================================
	// DIALOG
	// ==========================================================================

	Dialog       lipgloss.Style
	DialogError  lipgloss.Style
	DialogWarn   lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogBody   lipgloss.Style
	DialogFooter lipgloss.Style

	// ==========================================================================
	// STATUS & SEMANTIC TEXT
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme. mode is "auto" (detect the terminal background),
// "dark" or "light".
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Blossom).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blossom)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.NavTab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.NavTabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Bold(true).
		Padding(0, 1)

	// Chat
	t.UserLabel = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Blossom).
		Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderLeft(false).
		BorderRight(false).
		BorderForeground(Overlay)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Blossom)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Panes
	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PaneActive = t.Pane.
		BorderForeground(Teal)

	t.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(10)

	t.FieldValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.FieldActive = lipgloss.NewStyle().
		Foreground(Blossom).
		Bold(true)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.ListCursor = lipgloss.NewStyle().
		Foreground(Blossom).
		Bold(true)

	// Dialog
	t.Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Blossom).
		Padding(1, 2)

	t.DialogError = t.Dialog.
		BorderForeground(Rose)

	t.DialogWarn = t.Dialog.
		BorderForeground(Amber)

	t.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	t.DialogBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DialogFooter = lipgloss.NewStyle().
		Foreground(TextMuted).
		MarginTop(1)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Success = lipgloss.NewStyle().Foreground(Emerald)
	t.Error = lipgloss.NewStyle().Foreground(Rose)
	t.Warning = lipgloss.NewStyle().Foreground(Amber)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// GlamourStyle returns the glamour standard style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}
