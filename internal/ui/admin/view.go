// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/resource"
	"github.com/minbao/minbao-tui/internal/ui/styles"
	"github.com/minbao/minbao-tui/internal/util"
)

const (
	colTimeWidth    = 16
	colSessionWidth = 8
	topPaneHeight   = 9
	maxCandidates   = 5
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the console, or the modal dialog when one is open.
func (m Model) View() string {
	if m.dialog.IsVisible() {
		return m.dialog.View()
	}

	width := max(m.width, 40)
	var top string
	if width >= 80 {
		half := (width - 1) / 2
		top = lipgloss.JoinHorizontal(lipgloss.Top,
			m.paneBox(PaneConfig, half, m.configView()),
			" ",
			m.paneBox(PaneFiles, width-half-1, m.filesView()),
		)
	} else {
		top = lipgloss.JoinVertical(lipgloss.Left,
			m.paneBox(PaneConfig, width, m.configView()),
			m.paneBox(PaneFiles, width, m.filesView()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.paneBox(PaneLogs, width, m.logsView()),
	)
}

func (m Model) paneTitle(p Pane) string {
	switch p {
	case PaneConfig:
		return m.cat.PaneConfig
	case PaneFiles:
		return m.cat.PaneFiles
	default:
		return m.cat.PaneLogs
	}
}

func (m Model) paneBox(p Pane, width int, body string) string {
	style := m.theme.Pane
	if p == m.pane {
		style = m.theme.PaneActive
	}
	title := m.theme.PaneTitle.Render(m.paneTitle(p))
	return style.Width(max(width-2, 10)).Render(title + "\n" + body)
}

// stateLine renders the inline status of a resource, or "" when ready.
func stateLine[T any](m Model, r *resource.Remote[T]) string {
	switch r.State() {
	case resource.Idle, resource.Loading:
		return m.theme.Muted.Render(m.cat.Loading)
	case resource.Error:
		return m.theme.Error.Render(m.cat.FetchFailed + api.Detail(r.Err()))
	}
	return ""
}

func (m Model) configView() string {
	var lines []string
	if s := stateLine(m, &m.config); s != "" {
		lines = append(lines, s)
	}
	if !m.config.HasData() {
		return strings.Join(lines, "\n")
	}

	modelValue := "‹ " + m.edit.Model + " ›"
	if !m.edit.InCatalog() {
		modelValue += " " + m.theme.Warning.Render(m.cat.ModelNotInList)
	}
	tempValue := fmt.Sprintf("‹ %.1f ›", m.edit.Temperature)

	lines = append(lines,
		m.fieldRow(fieldModel, m.cat.FieldModel, modelValue),
		m.fieldRow(fieldTemperature, m.cat.FieldTemperature, tempValue),
	)
	if m.saving {
		lines = append(lines, m.theme.Muted.Render(m.cat.Loading))
	}
	return strings.Join(lines, "\n")
}

func (m Model) fieldRow(field int, label, value string) string {
	cursor := "  "
	valueStyle := m.theme.FieldValue
	if m.pane == PaneConfig && m.field == field {
		cursor = m.theme.ListCursor.Render("▸ ")
		valueStyle = m.theme.FieldActive
	}
	return cursor + m.theme.FieldLabel.Render(util.PadRight(label, 6)) + " " + valueStyle.Render(value)
}

func (m Model) filesView() string {
	var lines []string
	if s := stateLine(m, &m.files); s != "" {
		lines = append(lines, s)
	}
	if m.kbBusy {
		lines = append(lines, m.theme.Warning.Render(m.kbOpLabel()))
	}

	if m.picking {
		lines = append(lines, m.theme.FieldLabel.Render(m.cat.UploadPrompt), m.pathInput.View())
		for i, c := range m.candidates {
			if i == maxCandidates {
				lines = append(lines, m.theme.Muted.Render(fmt.Sprintf("  +%d", len(m.candidates)-maxCandidates)))
				break
			}
			prefix := "  "
			if i == m.candCursor {
				prefix = m.theme.ListCursor.Render("▸ ")
			}
			lines = append(lines, prefix+m.theme.ListItem.Render(c.Name))
		}
		return strings.Join(lines, "\n")
	}

	files := m.files.Data()
	if m.files.HasData() && len(files) == 0 {
		lines = append(lines, m.theme.Muted.Render(m.cat.Empty))
	}
	inner := max(m.width/2-6, 10)
	for i, f := range files {
		prefix := "  "
		style := m.theme.ListItem
		if i == m.fileCursor && m.pane == PaneFiles {
			prefix = m.theme.ListCursor.Render("▸ ")
			style = m.theme.FieldActive
		}
		lines = append(lines, prefix+style.Render(util.Truncate(f.Name, inner)))
	}
	return strings.Join(limitLines(lines, topPaneHeight), "\n")
}

func (m Model) logsView() string {
	var lines []string
	if s := stateLine(m, &m.logs); s != "" {
		lines = append(lines, s)
	}
	if m.logs.HasData() && len(m.logs.Data()) == 0 {
		lines = append(lines, m.theme.Muted.Render(m.cat.Empty))
		return strings.Join(lines, "\n")
	}
	if len(m.logs.Data()) > 0 {
		lines = append(lines, m.logTable.View())
	}
	return strings.Join(lines, "\n")
}

// limitLines keeps the first n lines, marking the cut.
func limitLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	out := append([]string{}, lines[:n-1]...)
	return append(out, fmt.Sprintf("  +%d", len(lines)-n+1))
}

// =============================================================================
// LOG TABLE
// =============================================================================

func newLogTable(theme *styles.Theme, cat *i18n.Catalog) table.Model {
	t := table.New(
		table.WithColumns(logColumns(cat, 80)),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(theme.PaneTitle.GetForeground()).Bold(true)
	s.Selected = s.Selected.Foreground(theme.FieldActive.GetForeground()).Bold(true)
	t.SetStyles(s)
	return t
}

// logColumns splits width between the question and answer columns.
func logColumns(cat *i18n.Catalog, width int) []table.Column {
	rest := max(width-colTimeWidth-colSessionWidth-10, 20)
	q := rest * 2 / 5
	return []table.Column{
		{Title: cat.ColTime, Width: colTimeWidth},
		{Title: cat.ColSession, Width: colSessionWidth},
		{Title: cat.ColQuestion, Width: q},
		{Title: cat.ColAnswer, Width: rest - q},
	}
}

func (m *Model) layoutLogTable() {
	if m.width <= 0 {
		return
	}
	m.logTable.SetColumns(logColumns(m.cat, m.tableWidth()))
	m.logTable.SetWidth(m.tableWidth())
	m.logTable.SetHeight(max(m.height-topPaneHeight-8, 3))
	m.syncLogTable()
}

func (m *Model) tableWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 4
}

// syncLogTable rebuilds the rows from the fetched entries.
func (m *Model) syncLogTable() {
	entries := m.logs.Data()
	m.logTable.SetRows(logRows(entries, logColumns(m.cat, m.tableWidth())))
	// table.SetCursor clamps to -1 on an empty table; keep the cursor on a row.
	switch c := m.logTable.Cursor(); {
	case len(entries) == 0:
	case c < 0:
		m.logTable.SetCursor(0)
	case c >= len(entries):
		m.logTable.SetCursor(len(entries) - 1)
	}
}

func logRows(entries []model.LogEntry, cols []table.Column) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		session := e.SessionID
		if session == "" {
			session = "-"
		}
		rows = append(rows, table.Row{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			util.Truncate(session, cols[1].Width),
			util.Truncate(util.FirstLine(e.UserQuestion), cols[2].Width),
			util.Truncate(util.FirstLine(e.AIAnswer), cols[3].Width),
		})
	}
	return rows
}

// kbOpLabel is the busy line for the running knowledge base mutation.
func (m Model) kbOpLabel() string {
	switch m.kbOp {
	case opUpload:
		return m.cat.UploadRunning
	case opDelete:
		return m.cat.DeleteRunning
	default:
		return m.cat.RebuildRunning
	}
}
