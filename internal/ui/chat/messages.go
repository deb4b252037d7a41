// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ResponseMsg carries the result of one chat request back to the model.
type ResponseMsg struct {
	Question string
	Answer   string
	Err      error
}

// askCmd issues the chat request for question.
func askCmd(ctx context.Context, client Chatter, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := client.Chat(ctx, question)
		return ResponseMsg{Question: question, Answer: answer, Err: err}
	}
}
