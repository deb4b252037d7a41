// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// Tab is one navigation entry in the header.
type Tab struct {
	Key   string
	Label string
}

// Header renders the brand line and the navigation tabs.
type Header struct {
	Title    string
	Subtitle string
	Tabs     []Tab
	Active   int
	Width    int

	theme *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme, title, subtitle string, tabs []Tab) *Header {
	return &Header{
		Title:    title,
		Subtitle: subtitle,
		Tabs:     tabs,
		theme:    theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetActive highlights tab i. Out-of-range values highlight nothing.
func (h *Header) SetActive(i int) {
	h.Active = i
}

// View renders the header. Narrow terminals drop the subtitle.
func (h *Header) View() string {
	brand := h.theme.HeaderTitle.Render("🛡 " + h.Title)
	if h.Subtitle != "" && h.theme.GetLayoutMode() != styles.LayoutNarrow {
		brand += "  " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	tabs := make([]string, 0, len(h.Tabs))
	for i, t := range h.Tabs {
		label := t.Key + " " + t.Label
		if i == h.Active {
			tabs = append(tabs, h.theme.NavTabActive.Render(label))
		} else {
			tabs = append(tabs, h.theme.NavTab.Render(label))
		}
	}
	nav := strings.Join(tabs, " ")

	width := h.Width
	if width <= 0 {
		return h.theme.Header.Render(brand + "  " + nav)
	}

	inner := width - 2
	gap := inner - lipgloss.Width(brand) - lipgloss.Width(nav)
	var line string
	if gap >= 2 {
		line = brand + strings.Repeat(" ", gap) + nav
	} else {
		line = lipgloss.JoinVertical(lipgloss.Left, brand, nav)
	}
	return h.theme.Header.Width(width).Render(line)
}
