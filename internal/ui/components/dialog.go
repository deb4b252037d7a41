// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// =============================================================================
// MODAL DIALOG
// =============================================================================

// DialogKind selects how a dialog is styled and dismissed.
type DialogKind int

const (
	// DialogNotice is an informational acknowledgment.
	DialogNotice DialogKind = iota
	// DialogError is an acknowledgment styled as a failure.
	DialogError
	// DialogConfirm asks a yes/no question.
	DialogConfirm
	// DialogWarning is an acknowledgment for a result that is neither a
	// success nor a failure.
	DialogWarning
)

// DialogResultMsg is sent when a confirm dialog is answered.
type DialogResultMsg struct {
	ID        string
	Confirmed bool
}

// Dialog is a blocking modal. While visible it consumes every key press.
type Dialog struct {
	kind    DialogKind
	id      string
	title   string
	body    string
	visible bool

	width  int
	height int

	theme *styles.Theme
	cat   *i18n.Catalog
}

// NewDialog creates a hidden dialog.
func NewDialog(theme *styles.Theme, cat *i18n.Catalog) *Dialog {
	return &Dialog{theme: theme, cat: cat}
}

// ShowNotice displays an acknowledgment dialog.
func (d *Dialog) ShowNotice(title, body string) {
	d.show(DialogNotice, "", title, body)
}

// ShowError displays a failure acknowledgment dialog.
func (d *Dialog) ShowError(title, body string) {
	d.show(DialogError, "", title, body)
}

// ShowWarning displays a warning acknowledgment dialog.
func (d *Dialog) ShowWarning(title, body string) {
	d.show(DialogWarning, "", title, body)
}

// ShowConfirm displays a yes/no dialog. The answer arrives as a
// DialogResultMsg carrying id.
func (d *Dialog) ShowConfirm(id, title, body string) {
	d.show(DialogConfirm, id, title, body)
}

func (d *Dialog) show(kind DialogKind, id, title, body string) {
	d.kind = kind
	d.id = id
	d.title = title
	d.body = body
	d.visible = true
}

// Hide hides the dialog without answering it.
func (d *Dialog) Hide() {
	d.visible = false
	d.id = ""
}

// IsVisible returns whether the dialog is visible.
func (d *Dialog) IsVisible() bool {
	return d.visible
}

// Kind returns the kind of the current dialog.
func (d *Dialog) Kind() DialogKind {
	return d.kind
}

// Title returns the current dialog title.
func (d *Dialog) Title() string {
	return d.title
}

// Body returns the current dialog body.
func (d *Dialog) Body() string {
	return d.body
}

// SetSize updates the area the dialog is centered in.
func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles key events. handled is true whenever the dialog is
// visible, so callers must not pass the key on.
func (d *Dialog) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	if !d.visible {
		return nil, false
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	if d.kind == DialogConfirm {
		switch key.String() {
		case "y", "Y":
			return d.answer(true), true
		case "n", "N", "esc":
			return d.answer(false), true
		}
		return nil, true
	}

	switch key.String() {
	case "enter", "esc", " ":
		d.Hide()
	}
	return nil, true
}

func (d *Dialog) answer(confirmed bool) tea.Cmd {
	id := d.id
	d.Hide()
	return func() tea.Msg {
		return DialogResultMsg{ID: id, Confirmed: confirmed}
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the dialog, centered when a size is known.
func (d *Dialog) View() string {
	if !d.visible {
		return ""
	}

	boxWidth := 56
	if d.width > 0 && d.width-8 < boxWidth {
		boxWidth = d.width - 8
	}
	if boxWidth < 24 {
		boxWidth = 24
	}

	box := d.theme.Dialog
	titleStyle := d.theme.DialogTitle.Foreground(styles.Blossom)
	title := d.title
	switch d.kind {
	case DialogError:
		box = d.theme.DialogError
		titleStyle = d.theme.DialogTitle.Foreground(styles.Rose)
		if title == "" {
			title = d.cat.DialogError
		}
	case DialogWarning:
		box = d.theme.DialogWarn
		titleStyle = d.theme.DialogTitle.Foreground(styles.Amber)
		if title == "" {
			title = d.cat.DialogWarning
		}
	case DialogConfirm:
		if title == "" {
			title = d.cat.DialogConfirm
		}
	default:
		if title == "" {
			title = d.cat.DialogNotice
		}
	}

	footer := d.cat.DialogAck
	if d.kind == DialogConfirm {
		footer = d.cat.DialogYesNo
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(d.theme.DialogBody.Width(boxWidth - 6).Render(d.body))
	b.WriteString("\n")
	b.WriteString(d.theme.DialogFooter.Render(footer))

	rendered := box.Width(boxWidth).Render(b.String())
	if d.width > 0 && d.height > 0 {
		return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, rendered)
	}
	return rendered
}
