// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/staging"
	"github.com/minbao/minbao-tui/internal/ui/components"
)

const deleteDialogPrefix = "delete:"

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init implements tea.Model. Fetching starts on Enter, not Init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case configLoadedMsg:
		if !m.scope.current(msg.scope) || !m.config.Resolve(msg.gen, msg.cfg, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("ADMIN | fetch=config err=%v", msg.err)
			return m, nil
		}
		m.edit = msg.cfg
		return m, nil

	case filesLoadedMsg:
		if !m.scope.current(msg.scope) || !m.files.Resolve(msg.gen, msg.files, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("ADMIN | fetch=files err=%v", msg.err)
		}
		m.clampFileCursor()
		return m, nil

	case logsLoadedMsg:
		if !m.scope.current(msg.scope) || !m.logs.Resolve(msg.gen, msg.entries, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("ADMIN | fetch=logs err=%v", msg.err)
		}
		m.syncLogTable()
		return m, nil

	case configSavedMsg:
		if !m.scope.current(msg.scope) {
			return m, nil
		}
		return m.finishSave(msg)

	case kbDoneMsg:
		if !m.scope.current(msg.scope) {
			return m, nil
		}
		return m.finishKB(msg)

	case stagingListedMsg:
		if !m.scope.current(msg.scope) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("ADMIN | staging list dir=%s err=%v", m.opts.UploadDir, msg.err)
		}
		m.candidates = msg.candidates
		if m.candCursor >= len(m.candidates) {
			m.candCursor = len(m.candidates) - 1
		}
		return m, nil

	case stagingChangedMsg:
		if !m.scope.current(msg.scope) || m.watcher == nil {
			return m, nil
		}
		ctx, id := m.scope.visit()
		return m, tea.Batch(
			listStagingCmd(id, m.opts.UploadDir, m.opts.AllowedExts),
			waitStagingCmd(ctx, m.watcher, id),
		)

	case components.DialogResultMsg:
		name, ok := strings.CutPrefix(msg.ID, deleteDialogPrefix)
		if !ok || !msg.Confirmed || !m.active {
			return m, nil
		}
		return m.startDelete(name)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.picking {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := m.dialog.Update(msg); handled {
		return m, cmd
	}
	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		if !m.active {
			return m, nil
		}
		ctx, id := m.scope.visit()
		return m, m.refreshEditable(ctx, id)
	case key.Matches(msg, m.keys.NextPane):
		m.pane = (m.pane + 1) % paneCount
		m.focusPane()
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.pane = (m.pane + paneCount - 1) % paneCount
		m.focusPane()
		return m, nil
	}

	switch m.pane {
	case PaneConfig:
		return m.handleConfigKey(msg)
	case PaneFiles:
		return m.handleFilesKey(msg)
	default:
		return m.handleLogsKey(msg)
	}
}

func (m Model) handleConfigKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.field = (m.field + fieldCount - 1) % fieldCount
	case key.Matches(msg, m.keys.Down):
		m.field = (m.field + 1) % fieldCount
	case key.Matches(msg, m.keys.Left):
		m.adjust(-1)
	case key.Matches(msg, m.keys.Right):
		m.adjust(1)
	case key.Matches(msg, m.keys.Save):
		return m.startSave()
	}
	return m, nil
}

func (m *Model) adjust(dir int) {
	if !m.config.HasData() {
		return
	}
	switch m.field {
	case fieldModel:
		m.edit = m.edit.CycleModel(dir)
	case fieldTemperature:
		m.edit = m.edit.StepTemperature(float64(dir) * model.TemperatureStep)
	}
}

func (m Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.files.Data()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.fileCursor < len(files)-1 {
			m.fileCursor++
		}
	case key.Matches(msg, m.keys.Upload):
		if m.kbBusy {
			return m, m.busyNotice()
		}
		m.picking = true
		m.candCursor = -1
		return m, m.pathInput.Focus()
	case key.Matches(msg, m.keys.Delete):
		if len(files) == 0 {
			return m, nil
		}
		if m.kbBusy {
			return m, m.busyNotice()
		}
		name := files[m.fileCursor].Name
		m.dialog.ShowConfirm(deleteDialogPrefix+name, m.cat.DialogConfirm, m.cat.DeleteConfirm+"\n\n"+name)
	case key.Matches(msg, m.keys.Rebuild):
		return m.startRebuild()
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Open) {
		entries := m.logs.Data()
		i := m.logTable.Cursor()
		if i >= 0 && i < len(entries) {
			m.dialog.ShowNotice(logTitle(entries[i]), m.logDetail(entries[i]))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.logTable, cmd = m.logTable.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closePicker()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		return m.startUpload(path)
	case msg.Type == tea.KeyUp:
		m.moveCandidate(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.moveCandidate(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) moveCandidate(delta int) {
	if len(m.candidates) == 0 {
		return
	}
	m.candCursor += delta
	if m.candCursor < 0 {
		m.candCursor = 0
	}
	if m.candCursor >= len(m.candidates) {
		m.candCursor = len(m.candidates) - 1
	}
	m.pathInput.SetValue(m.candidates[m.candCursor].Path)
	m.pathInput.CursorEnd()
}

// =============================================================================
// CONFIG SAVE
// =============================================================================

func (m Model) startSave() (tea.Model, tea.Cmd) {
	if m.saving || !m.config.HasData() || !m.active {
		return m, nil
	}
	m.saving = true
	ctx, id := m.scope.visit()
	return m, saveConfigCmd(ctx, m.backend, id, m.edit)
}

func (m Model) finishSave(msg configSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		log.Printf("ADMIN | op=save_config err=%v", msg.err)
		m.dialog.ShowError(m.cat.SaveFailed, api.Detail(msg.err))
		return m, nil
	}

	body := m.cat.SaveOK
	if msg.resp != nil && msg.resp.Message != "" {
		body = msg.resp.Message
	}
	m.dialog.ShowNotice(m.cat.DialogNotice, body)

	ctx, id := m.scope.visit()
	return m, m.refreshConfig(ctx, id)
}

// =============================================================================
// KNOWLEDGE BASE MUTATIONS
// =============================================================================

// beginKB takes the mutation guard. It returns false when another mutation
// is already in flight.
func (m *Model) beginKB(op kbOp) bool {
	if m.kbBusy || !m.active {
		return false
	}
	m.kbBusy = true
	m.kbOp = op
	return true
}

func (m Model) busyNotice() tea.Cmd {
	return components.Notify(m.cat.KBBusy, components.NoticeWarning)
}

func (m Model) startUpload(path string) (tea.Model, tea.Cmd) {
	if !m.beginKB(opUpload) {
		return m, m.busyNotice()
	}
	m.closePicker()
	ctx, id := m.scope.visit()
	return m, uploadCmd(ctx, m.backend, id, staging.ExpandPath(path))
}

func (m Model) startDelete(name string) (tea.Model, tea.Cmd) {
	if !m.beginKB(opDelete) {
		return m, m.busyNotice()
	}
	ctx, id := m.scope.visit()
	return m, deleteCmd(ctx, m.backend, id, name)
}

func (m Model) startRebuild() (tea.Model, tea.Cmd) {
	if !m.beginKB(opRebuild) {
		return m, m.busyNotice()
	}
	ctx, id := m.scope.visit()
	return m, tea.Batch(
		components.Notify(m.cat.RebuildRunning, components.NoticeInfo),
		rebuildCmd(ctx, m.backend, id),
	)
}

func (m Model) finishKB(msg kbDoneMsg) (tea.Model, tea.Cmd) {
	m.kbBusy = false
	m.kbOp = ""
	ctx, id := m.scope.visit()

	if msg.err != nil {
		log.Printf("ADMIN | op=%s target=%q err=%v", msg.op, msg.target, msg.err)
		title := m.cat.RebuildFailed
		switch msg.op {
		case opUpload:
			title = m.cat.UploadFailed
		case opDelete:
			title = m.cat.DeleteFailed
		}
		m.dialog.ShowError(title, api.Detail(msg.err))
		return m, nil
	}

	switch msg.op {
	case opUpload:
		log.Printf("ADMIN | op=%s target=%q result=ok", msg.op, msg.target)
		body := m.cat.UploadOK
		if msg.message != "" {
			body = msg.message
		}
		m.dialog.ShowNotice(m.cat.DialogNotice, body+"\n\n"+m.cat.RebuildRequired)
		return m, m.refreshFiles(ctx, id)

	case opDelete:
		log.Printf("ADMIN | op=%s target=%q result=ok", msg.op, msg.target)
		text := m.cat.DeleteOK
		if msg.message != "" {
			text = msg.message
		}
		return m, tea.Batch(
			components.Notify(text, components.NoticeSuccess),
			m.refreshFiles(ctx, id),
		)

	default:
		switch msg.status {
		case api.RebuildError:
			// 200 with status "error" is still a failed rebuild.
			log.Printf("ADMIN | op=%s status=%s err=%q", msg.op, msg.status, msg.message)
			m.dialog.ShowError(m.cat.RebuildFailed, msg.message)
			return m, nil
		case api.RebuildSuccess:
			m.dialog.ShowNotice(m.cat.DialogNotice, msg.message)
		default:
			m.dialog.ShowWarning(m.cat.DialogWarning, msg.message)
		}
		log.Printf("ADMIN | op=%s status=%s result=ok", msg.op, msg.status)
		return m, nil
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) clampFileCursor() {
	n := len(m.files.Data())
	if m.fileCursor >= n {
		m.fileCursor = n - 1
	}
	if m.fileCursor < 0 {
		m.fileCursor = 0
	}
}

func (m *Model) focusPane() {
	if m.pane == PaneLogs {
		m.logTable.Focus()
	} else {
		m.logTable.Blur()
	}
}

func logTitle(e model.LogEntry) string {
	return fmt.Sprintf("#%d  %s", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"))
}

func (m Model) logDetail(e model.LogEntry) string {
	var b strings.Builder
	if e.SessionID != "" {
		fmt.Fprintf(&b, "%s: %s\n\n", m.cat.ColSession, e.SessionID)
	}
	fmt.Fprintf(&b, "%s:\n%s\n\n%s:\n%s", m.cat.ColQuestion, e.UserQuestion, m.cat.ColAnswer, e.AIAnswer)
	return b.String()
}
