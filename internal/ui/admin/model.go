// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/resource"
	"github.com/minbao/minbao-tui/internal/staging"
	"github.com/minbao/minbao-tui/internal/ui/components"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// Pane identifies one section of the console.
type Pane int

const (
	PaneConfig Pane = iota
	PaneFiles
	PaneLogs
	paneCount
)

// Config field rows.
const (
	fieldModel = iota
	fieldTemperature
	fieldCount
)

// DefaultLogPageSize is the number of log entries fetched per visit.
const DefaultLogPageSize = 20

// Options configures the console.
type Options struct {
	LogPageSize int
	// UploadDir is the local staging directory offered by the upload
	// picker. Empty disables the picker list; a path can still be typed.
	UploadDir   string
	AllowedExts []string
}

// =============================================================================
// ADMIN MODEL
// =============================================================================

// Model is the Bubble Tea model for the admin console.
type Model struct {
	theme   *styles.Theme
	cat     *i18n.Catalog
	keys    KeyMap
	backend Backend
	parent  context.Context
	scope   *scope
	opts    Options
	active  bool

	config resource.Remote[model.AdminConfig]
	files  resource.Remote[[]model.KnowledgeFile]
	logs   resource.Remote[[]model.LogEntry]

	pane Pane

	// Config edit buffer. It is replaced whenever a fetch succeeds.
	edit   model.AdminConfig
	field  int
	saving bool

	fileCursor int

	// kbBusy is the single-flight guard shared by upload, delete and rebuild.
	kbBusy bool
	kbOp   kbOp

	// Upload picker.
	picking    bool
	pathInput  textinput.Model
	candidates []staging.Candidate
	candCursor int
	watcher    *staging.Watcher

	logTable table.Model
	dialog   *components.Dialog

	width  int
	height int
}

// New creates the console. parent bounds every visit's scope.
func New(parent context.Context, theme *styles.Theme, cat *i18n.Catalog, backend Backend, opts Options) Model {
	if parent == nil {
		parent = context.Background()
	}
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	if cat == nil {
		cat = i18n.Default()
	}
	if opts.LogPageSize <= 0 {
		opts.LogPageSize = DefaultLogPageSize
	}
	if len(opts.AllowedExts) == 0 {
		opts.AllowedExts = []string{".txt", ".pdf"}
	}
	opts.UploadDir = staging.ExpandPath(opts.UploadDir)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "~/docs/allergy-guide.txt"
	ti.CharLimit = 1024

	return Model{
		theme:     theme,
		cat:       cat,
		keys:      DefaultKeyMap(),
		backend:   backend,
		parent:    parent,
		scope:     newScope(),
		opts:      opts,
		pathInput: ti,
		logTable:  newLogTable(theme, cat),
		dialog:    components.NewDialog(theme, cat),
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Enter starts a visit: every cache is dropped and refetched.
func (m *Model) Enter() tea.Cmd {
	ctx, id := m.scope.open(m.parent)
	m.active = true

	m.config.Reset()
	m.files.Reset()
	m.logs.Reset()
	m.edit = model.AdminConfig{}
	m.field = fieldModel
	m.fileCursor = 0
	m.saving = false
	m.kbBusy = false
	m.kbOp = ""
	m.closePicker()
	m.dialog.Hide()
	m.syncLogTable()

	cmds := []tea.Cmd{m.refreshAll(ctx, id)}
	if cmd := m.watchStaging(ctx, id); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Leave ends the visit. Outstanding requests are cancelled and their
// results ignored.
func (m *Model) Leave() {
	m.scope.close()
	m.active = false
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	m.closePicker()
	m.dialog.Hide()
}

// Active reports whether a visit is open.
func (m Model) Active() bool {
	return m.active
}

// Modal reports whether a dialog or the upload picker is capturing keys.
func (m Model) Modal() bool {
	return m.dialog.IsVisible() || m.picking
}

// Busy reports whether a knowledge base mutation is in flight.
func (m Model) Busy() bool {
	return m.kbBusy
}

// Pane returns the focused pane.
func (m Model) Pane() Pane {
	return m.pane
}

// Dialog exposes the console's modal dialog.
func (m Model) Dialog() *components.Dialog {
	return m.dialog
}

// Edit returns the config edit buffer.
func (m Model) Edit() model.AdminConfig {
	return m.edit
}

// Files returns the last fetched file list.
func (m Model) Files() []model.KnowledgeFile {
	return m.files.Data()
}

// Logs returns the last fetched log entries.
func (m Model) Logs() []model.LogEntry {
	return m.logs.Data()
}

// SetSize sets the area available to the console.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.dialog.SetSize(width, height)
	m.layoutLogTable()
}

// refreshAll invalidates and refetches the three resources.
func (m *Model) refreshAll(ctx context.Context, id uint64) tea.Cmd {
	return tea.Batch(
		m.refreshConfig(ctx, id),
		m.refreshFiles(ctx, id),
		m.refreshLogs(ctx, id),
	)
}

// refreshEditable refetches config and files. Logs are only fetched on entry.
func (m *Model) refreshEditable(ctx context.Context, id uint64) tea.Cmd {
	return tea.Batch(m.refreshConfig(ctx, id), m.refreshFiles(ctx, id))
}

func (m *Model) refreshConfig(ctx context.Context, id uint64) tea.Cmd {
	return fetchConfigCmd(ctx, m.backend, id, m.config.Begin())
}

func (m *Model) refreshFiles(ctx context.Context, id uint64) tea.Cmd {
	return fetchFilesCmd(ctx, m.backend, id, m.files.Begin())
}

func (m *Model) refreshLogs(ctx context.Context, id uint64) tea.Cmd {
	return fetchLogsCmd(ctx, m.backend, id, m.logs.Begin(), m.opts.LogPageSize)
}

// watchStaging arms the staging directory watcher for this visit.
func (m *Model) watchStaging(ctx context.Context, id uint64) tea.Cmd {
	if m.opts.UploadDir == "" {
		return nil
	}
	w, err := staging.NewWatcher(m.opts.UploadDir, stagingDebounce)
	if err != nil {
		log.Printf("ADMIN | staging watch dir=%s err=%v", m.opts.UploadDir, err)
		return listStagingCmd(id, m.opts.UploadDir, m.opts.AllowedExts)
	}
	m.watcher = w
	return tea.Batch(
		listStagingCmd(id, m.opts.UploadDir, m.opts.AllowedExts),
		waitStagingCmd(ctx, w, id),
	)
}

func (m *Model) closePicker() {
	m.picking = false
	m.pathInput.Reset()
	m.pathInput.Blur()
	m.candCursor = -1
}
