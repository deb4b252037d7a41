// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/minbao/minbao-tui/internal/model"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the history, the thinking indicator and the input box.
func (m Model) View() string {
	if !m.ready {
		return m.cat.Loading
	}

	status := ""
	if m.session.Sending() {
		status = m.spinner.View() + " " + m.theme.ThinkingText.Render(m.cat.Thinking)
	}

	input := m.theme.InputContainer.
		Width(max(m.width-inputChrome, 10)).
		Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		status,
		input,
	)
}

// refresh rebuilds the viewport content from the conversation.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	msgs := m.session.Conversation().Messages()
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

func (m *Model) bubbleWidth() int {
	w := m.width * 4 / 5
	if m.width < 60 {
		w = m.width - 2
	}
	return max(w, 10)
}

func (m *Model) renderMessage(msg model.Message) string {
	width := m.bubbleWidth()

	if msg.IsUser() {
		label := m.theme.UserLabel.Render(m.cat.UserLabel)
		body := m.theme.UserBubble.MaxWidth(width).Width(min(width, lipgloss.Width(msg.Content)+4)).Render(msg.Content)
		block := lipgloss.JoinVertical(lipgloss.Right, label, body)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}

	label := m.theme.AssistantLabel.Render(m.cat.AssistantLabel)
	return lipgloss.JoinVertical(lipgloss.Left, label, m.renderAssistant(msg, width))
}

func (m *Model) renderAssistant(msg model.Message, width int) string {
	if cached, ok := m.rendered[msg.ID]; ok {
		return cached
	}

	content := msg.Content
	if r := m.markdownRenderer(); r != nil {
		if out, err := r.Render(msg.Content); err == nil {
			content = strings.Trim(out, "\n")
		}
	}
	out := m.theme.AssistantBubble.Width(width).Render(content)
	m.rendered[msg.ID] = out
	return out
}
