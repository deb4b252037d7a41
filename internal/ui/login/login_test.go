// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/ui/styles"
)

func newTestForm(t *testing.T, verifier auth.Verifier) (Model, *auth.Gate) {
	t.Helper()
	gate := auth.NewGate(verifier, auth.NewSession())
	m := New(context.Background(), styles.NewTheme("dark"), i18n.Default(), gate)
	return m, gate
}

func staticVerifier(t *testing.T) auth.Verifier {
	t.Helper()
	v, err := auth.NewStaticVerifier(config.DefaultPassphrase, "")
	require.NoError(t, err)
	return v
}

// submit types passphrase, presses enter and delivers the check result.
func submit(t *testing.T, m Model, passphrase string) (Model, tea.Msg) {
	t.Helper()
	for _, r := range passphrase {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	require.Equal(t, passphrase, m.Value())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.True(t, m.Checking())

	result := findCheck(t, cmd)
	updated, cmd = m.Update(result)
	m = updated.(Model)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func findCheck(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case checkResultMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if r, ok := c().(checkResultMsg); ok {
				return r
			}
		}
	}
	t.Fatal("no check command issued")
	return nil
}

type failingLogin struct{ err error }

func (f failingLogin) Login(context.Context, string) (*api.LoginResponse, error) {
	return nil, f.err
}

// =============================================================================
// TESTS
// =============================================================================

func TestLogin_WrongTwiceThenCorrect(t *testing.T) {
	m, gate := newTestForm(t, staticVerifier(t))

	for i := 0; i < 2; i++ {
		var msg tea.Msg
		m, msg = submit(t, m, "wrong")
		assert.Nil(t, msg, "attempt %d must not unlock", i+1)
		assert.Empty(t, m.Value(), "attempt %d must clear the field", i+1)
		assert.Equal(t, i18n.Default().LoginFailed, m.ErrorText())
		assert.True(t, gate.Failed())
		assert.False(t, gate.Session().Unlocked())
	}

	m, msg := submit(t, m, "admin888")
	unlocked, ok := msg.(UnlockedMsg)
	require.True(t, ok, "got %T, want UnlockedMsg", msg)
	assert.Empty(t, unlocked.Token)
	assert.Empty(t, m.ErrorText())
	assert.Empty(t, m.Value())
	assert.False(t, gate.Failed())
	assert.True(t, gate.Session().Unlocked())
}

func TestLogin_SubmitIgnoredWhileChecking(t *testing.T) {
	m, _ := newTestForm(t, staticVerifier(t))

	updated, first := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, first)

	updated, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, second)
	assert.True(t, m.Checking())
}

func TestLogin_ServiceUnavailable(t *testing.T) {
	cause := &api.ClientError{Type: api.ErrTypeTransport, Op: "login", Message: "connection refused"}
	m, gate := newTestForm(t, auth.NewServiceVerifier(failingLogin{err: cause}))

	m, msg := submit(t, m, "secret")
	assert.Nil(t, msg)
	assert.Empty(t, m.Value())
	assert.True(t, strings.HasPrefix(m.ErrorText(), i18n.Default().LoginUnavailable), "got %q", m.ErrorText())
	assert.Error(t, gate.LastError())
	assert.False(t, gate.Session().Unlocked())
}

func TestLogin_EscCancels(t *testing.T) {
	m, _ := newTestForm(t, staticVerifier(t))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, CancelMsg{}, cmd())
}

func TestLogin_ResultAfterEscIgnored(t *testing.T) {
	m, gate := newTestForm(t, staticVerifier(t))
	for _, r := range "admin888" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	updated, check := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.True(t, m.Checking())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.False(t, m.Checking())

	updated, cmd := m.Update(findCheck(t, check))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, gate.Session().Unlocked())
	assert.False(t, gate.Failed())
	assert.Empty(t, m.ErrorText())
}

func TestLogin_ResetDropsPendingCheck(t *testing.T) {
	m, gate := newTestForm(t, staticVerifier(t))
	for _, r := range "admin888" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	updated, check := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	m.Reset()
	updated, cmd := m.Update(findCheck(t, check))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.Checking())
	assert.False(t, gate.Session().Unlocked())
}

func TestLogin_ViewMasksInput(t *testing.T) {
	m, _ := newTestForm(t, staticVerifier(t))
	for _, r := range "admin888" {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	view := m.View()
	assert.NotContains(t, view, "admin888")
	assert.Contains(t, view, i18n.Default().LoginTitle)
}

func TestLogin_ResetClearsError(t *testing.T) {
	m, _ := newTestForm(t, staticVerifier(t))
	m, _ = submit(t, m, "nope")
	require.NotEmpty(t, m.ErrorText())

	m.Reset()
	assert.Empty(t, m.ErrorText())
	assert.Empty(t, m.Value())
}
