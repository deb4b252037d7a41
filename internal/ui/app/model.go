// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/ui/admin"
	"github.com/minbao/minbao-tui/internal/ui/chat"
	"github.com/minbao/minbao-tui/internal/ui/components"
	"github.com/minbao/minbao-tui/internal/ui/login"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// noticeTTL is how long a status notice stays up.
const noticeTTL = 4 * time.Second

// Deps carries everything the TUI needs. Gate must unlock Router's session.
type Deps struct {
	Ctx          context.Context
	Theme        *styles.Theme
	Catalog      *i18n.Catalog
	Router       *Router
	Gate         *auth.Gate
	Chatter      chat.Chatter
	Backend      admin.Backend
	ChatOptions  chat.Options
	AdminOptions admin.Options
	// Origin is shown at the right of the status bar.
	Origin string
}

type clearNoticeMsg struct {
	seq int
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Model is the top-level Bubble Tea model.
type Model struct {
	theme  *styles.Theme
	cat    *i18n.Catalog
	router *Router

	chat  chat.Model
	login login.Model
	admin admin.Model

	header *components.Header
	status *components.StatusBar

	noticeSeq int

	width  int
	height int
}

// New creates the application model.
func New(d Deps) *Model {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	if d.Theme == nil {
		d.Theme = styles.NewTheme("auto")
	}
	if d.Catalog == nil {
		d.Catalog = i18n.Default()
	}
	if d.Router == nil {
		d.Router = NewRouter()
	}

	header := components.NewHeader(d.Theme, d.Catalog.Title, d.Catalog.Subtitle, []components.Tab{
		{Key: "F1", Label: d.Catalog.NavChat},
		{Key: "F2", Label: d.Catalog.NavAdmin},
	})
	status := components.NewStatusBar(d.Theme)
	status.SetHelp(d.Catalog.ChatHelp)
	status.SetRight(d.Origin)

	return &Model{
		theme:  d.Theme,
		cat:    d.Catalog,
		router: d.Router,
		chat:   chat.New(d.Ctx, d.Theme, d.Catalog, d.Chatter, d.ChatOptions),
		login:  login.New(d.Ctx, d.Theme, d.Catalog, d.Gate),
		admin:  admin.New(d.Ctx, d.Theme, d.Catalog, d.Backend, d.AdminOptions),
		header: header,
		status: status,
	}
}

// CurrentView returns the view being shown.
func (m *Model) CurrentView() View {
	return m.router.View()
}

// Chat returns the chat view model.
func (m *Model) Chat() chat.Model {
	return m.chat
}

// Admin returns the admin view model.
func (m *Model) Admin() admin.Model {
	return m.admin
}

// Login returns the login view model.
func (m *Model) Login() login.Model {
	return m.login
}

// Notice returns the status bar notice.
func (m *Model) Notice() string {
	return m.status.Notice()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.chat.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case login.UnlockedMsg:
		return m, m.fire(EventUnlocked)

	case login.CancelMsg:
		return m, m.fire(EventCancelLogin)

	case components.NoticeMsg:
		m.noticeSeq++
		seq := m.noticeSeq
		m.status.SetNotice(msg.Text, msg.Level)
		return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.status.ClearNotice()
		}
		return m, nil

	case chat.ResponseMsg:
		// Delivered whatever view is showing.
		return m, m.updateChat(msg)
	}

	// Everything else (results, ticks, blinks) goes to every child; each
	// ignores what it does not own.
	return m, tea.Batch(m.updateChat(msg), m.updateLogin(msg), m.updateAdmin(msg))
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	view := m.router.View()
	modal := view == ViewAdmin && m.admin.Modal()
	if !modal {
		switch msg.String() {
		case "f1", "alt+1":
			return m.fire(EventNavChat)
		case "f2", "alt+2":
			return m.fire(EventNavAdmin)
		}
	}

	switch view {
	case ViewLogin:
		return m.updateLogin(msg)
	case ViewAdmin:
		return m.updateAdmin(msg)
	default:
		return m.updateChat(msg)
	}
}

// fire runs ev through the router and the enter/leave hooks it implies.
func (m *Model) fire(ev Event) tea.Cmd {
	t := m.router.Fire(ev)
	if !t.Changed {
		return nil
	}
	log.Printf("VIEW | event=%s from=%s to=%s", t.Event, t.From, t.To)

	switch t.From {
	case ViewChat:
		m.chat.Blur()
	case ViewAdmin:
		m.admin.Leave()
	}
	m.status.ClearNotice()

	var cmd tea.Cmd
	switch t.To {
	case ViewChat:
		m.header.SetActive(0)
		m.status.SetHelp(m.cat.ChatHelp)
		cmd = m.chat.Focus()
	case ViewLogin:
		m.header.SetActive(1)
		m.status.SetHelp(m.cat.LoginHelp)
		cmd = m.login.Reset()
	case ViewAdmin:
		m.header.SetActive(1)
		m.status.SetHelp(m.cat.AdminHelp)
		cmd = m.admin.Enter()
	}
	return cmd
}

func (m *Model) updateChat(msg tea.Msg) tea.Cmd {
	updated, cmd := m.chat.Update(msg)
	m.chat = updated.(chat.Model)
	return cmd
}

func (m *Model) updateLogin(msg tea.Msg) tea.Cmd {
	updated, cmd := m.login.Update(msg)
	m.login = updated.(login.Model)
	return cmd
}

func (m *Model) updateAdmin(msg tea.Msg) tea.Cmd {
	updated, cmd := m.admin.Update(msg)
	m.admin = updated.(admin.Model)
	return cmd
}

func (m *Model) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.status.SetWidth(width)

	body := tea.WindowSizeMsg{
		Width:  width,
		Height: max(height-lipgloss.Height(m.header.View())-1, 3),
	}
	return tea.Batch(m.updateChat(body), m.updateLogin(body), m.updateAdmin(body))
}

// View renders the current state.
func (m *Model) View() string {
	var content string
	switch m.router.View() {
	case ViewLogin:
		content = m.login.View()
	case ViewAdmin:
		content = m.admin.View()
	default:
		content = m.chat.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		content,
		m.status.View(),
	)
}
