// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/ui/components"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

// =============================================================================
// ROUTER
// =============================================================================

func unlockedSession(t *testing.T, r *Router) {
	t.Helper()
	v, err := auth.NewStaticVerifier(config.DefaultPassphrase, "")
	require.NoError(t, err)
	out, err := auth.NewGate(v, r.Session()).Submit(context.Background(), config.DefaultPassphrase)
	require.NoError(t, err)
	require.True(t, out.Unlocked)
}

func TestRouter_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		from     View
		unlocked bool
		event    Event
		want     View
	}{
		{"chat nav admin locked", ViewChat, false, EventNavAdmin, ViewLogin},
		{"chat nav admin unlocked", ViewChat, true, EventNavAdmin, ViewAdmin},
		{"chat nav chat", ViewChat, false, EventNavChat, ViewChat},
		{"chat unlocked ignored", ViewChat, true, EventUnlocked, ViewChat},
		{"chat cancel ignored", ViewChat, false, EventCancelLogin, ViewChat},
		{"login unlocked", ViewLogin, true, EventUnlocked, ViewAdmin},
		{"login unlocked without session", ViewLogin, false, EventUnlocked, ViewLogin},
		{"login cancel", ViewLogin, false, EventCancelLogin, ViewChat},
		{"login nav chat", ViewLogin, false, EventNavChat, ViewChat},
		{"login nav admin locked", ViewLogin, false, EventNavAdmin, ViewLogin},
		{"admin nav chat", ViewAdmin, true, EventNavChat, ViewChat},
		{"admin nav admin", ViewAdmin, true, EventNavAdmin, ViewAdmin},
		{"admin cancel ignored", ViewAdmin, true, EventCancelLogin, ViewAdmin},
		{"admin unlocked ignored", ViewAdmin, true, EventUnlocked, ViewAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter()
			if tt.unlocked {
				unlockedSession(t, r)
			}
			r.view = tt.from

			tr := r.Fire(tt.event)
			if tr.To != tt.want {
				t.Errorf("Fire(%s) from %s = %s, want %s", tt.event, tt.from, tr.To, tt.want)
			}
			assert.Equal(t, tt.from, tr.From)
			assert.Equal(t, tt.from != tt.want, tr.Changed)
			assert.Equal(t, tt.want, r.View())
		})
	}
}

func TestRouter_StartsInChatLocked(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, ViewChat, r.View())
	assert.False(t, r.Session().Unlocked())
}

// =============================================================================
// MODEL
// =============================================================================

type fakeBackend struct {
	mu      sync.Mutex
	fetches int
	answer  string
}

func (f *fakeBackend) Chat(context.Context, string) (string, error) {
	return f.answer, nil
}

func (f *fakeBackend) GetConfig(context.Context) (model.AdminConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return model.AdminConfig{Model: "gpt-4o", Temperature: 0.5}, nil
}

func (f *fakeBackend) SaveConfig(_ context.Context, cfg model.AdminConfig) (*api.ConfigUpdateResponse, error) {
	return &api.ConfigUpdateResponse{Message: "ok", Config: cfg}, nil
}

func (f *fakeBackend) ListFiles(context.Context) ([]model.KnowledgeFile, error) {
	return model.FileNames([]string{"a.txt"}), nil
}

func (f *fakeBackend) UploadPath(context.Context, string) (*api.MessageResponse, error) {
	return &api.MessageResponse{Message: "ok"}, nil
}

func (f *fakeBackend) DeleteFile(context.Context, string) (*api.MessageResponse, error) {
	return &api.MessageResponse{Message: "ok"}, nil
}

func (f *fakeBackend) RebuildIndex(context.Context) (*api.RebuildResponse, error) {
	return &api.RebuildResponse{Status: api.RebuildSuccess, Message: "ok"}, nil
}

func (f *fakeBackend) ListLogs(context.Context, int) (*api.LogPage, error) {
	return &api.LogPage{Page: 1, Size: 20}, nil
}

func (f *fakeBackend) configFetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newTestApp(t *testing.T) (*Model, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{answer: "建议..."}
	router := NewRouter()
	v, err := auth.NewStaticVerifier(config.DefaultPassphrase, "")
	require.NoError(t, err)

	m := New(Deps{
		Ctx:     context.Background(),
		Theme:   styles.NewTheme("dark"),
		Catalog: i18n.Default(),
		Router:  router,
		Gate:    auth.NewGate(v, router.Session()),
		Chatter: b,
		Backend: b,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, b
}

// settle runs cmd and feeds every message produced within a short window
// back into m. Commands that block longer (cursor blinks, spinner ticks,
// notice timers) are abandoned.
func settle(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		msg, ok := runWithin(c, 100*time.Millisecond)
		if !ok || msg == nil {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		if _, quit := msg.(tea.QuitMsg); quit {
			continue
		}
		_, next := m.Update(msg)
		queue = append(queue, next)
	}
}

func runWithin(cmd tea.Cmd, d time.Duration) (tea.Msg, bool) {
	if cmd == nil {
		return nil, false
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d):
		return nil, false
	}
}

func sendKey(m *Model, k tea.KeyMsg) {
	_, cmd := m.Update(k)
	settle(m, cmd)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	keyF1    = tea.KeyMsg{Type: tea.KeyF1}
	keyF2    = tea.KeyMsg{Type: tea.KeyF2}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestApp_LoginFlow(t *testing.T) {
	m, b := newTestApp(t)
	require.Equal(t, ViewChat, m.CurrentView())

	sendKey(m, keyF2)
	require.Equal(t, ViewLogin, m.CurrentView())

	for i := 0; i < 2; i++ {
		typeText(m, "admin999")
		sendKey(m, keyEnter)
		assert.Equal(t, ViewLogin, m.CurrentView(), "wrong attempt %d", i+1)
		assert.Empty(t, m.Login().Value())
		assert.Equal(t, i18n.Default().LoginFailed, m.Login().ErrorText())
	}
	assert.Equal(t, 0, b.configFetches())

	typeText(m, "admin888")
	sendKey(m, keyEnter)
	assert.Equal(t, ViewAdmin, m.CurrentView())
	assert.True(t, m.Admin().Active())
	assert.Equal(t, 1, b.configFetches())
	assert.Equal(t, "gpt-4o", m.Admin().Edit().Model)
}

func TestApp_SessionLastsForProcess(t *testing.T) {
	m, b := newTestApp(t)
	sendKey(m, keyF2)
	typeText(m, "admin888")
	sendKey(m, keyEnter)
	require.Equal(t, ViewAdmin, m.CurrentView())

	sendKey(m, keyF1)
	assert.Equal(t, ViewChat, m.CurrentView())
	assert.False(t, m.Admin().Active(), "leaving admin closes its scope")

	sendKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	assert.Equal(t, ViewAdmin, m.CurrentView(), "no second login")
	assert.Equal(t, 2, b.configFetches(), "admin refetches on every entry")
}

func TestApp_EscCancelsLogin(t *testing.T) {
	m, _ := newTestApp(t)
	sendKey(m, keyF2)
	require.Equal(t, ViewLogin, m.CurrentView())

	sendKey(m, keyEsc)
	assert.Equal(t, ViewChat, m.CurrentView())
}

func TestApp_ChatReplyLandsAfterNavigation(t *testing.T) {
	m, _ := newTestApp(t)

	typeText(m, "宝宝对鸡蛋过敏怎么办")
	_, send := m.Update(keyEnter)
	require.NotNil(t, send)
	require.True(t, m.Chat().Sending())

	sendKey(m, keyF2)
	require.Equal(t, ViewLogin, m.CurrentView())

	settle(m, send)
	msgs := m.Chat().Session().Conversation().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "宝宝对鸡蛋过敏怎么办", msgs[1].Content)
	assert.Equal(t, "建议...", msgs[2].Content)
	assert.False(t, m.Chat().Sending())

	sendKey(m, keyF1)
	assert.Equal(t, 3, m.Chat().Session().Conversation().Len(), "conversation survives navigation")
}

func TestApp_NoticeLifecycle(t *testing.T) {
	m, _ := newTestApp(t)

	m.Update(components.NoticeMsg{Text: i18n.Default().KBBusy, Level: components.NoticeWarning})
	assert.Equal(t, "另一个知识库操作正在进行中", m.Notice())

	m.Update(clearNoticeMsg{seq: m.noticeSeq - 1})
	assert.NotEmpty(t, m.Notice(), "stale clear is ignored")

	m.Update(clearNoticeMsg{seq: m.noticeSeq})
	assert.Empty(t, m.Notice())
}

func TestApp_CtrlCQuits(t *testing.T) {
	m, _ := newTestApp(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ViewShowsHeader(t *testing.T) {
	m, _ := newTestApp(t)
	view := m.View()
	assert.Contains(t, view, i18n.Default().Title)
	assert.Contains(t, view, i18n.Default().NavChat)
}
