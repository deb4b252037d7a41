// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"strings"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/i18n"
	"github.com/minbao/minbao-tui/internal/model"
)

// Chatter answers a single question.
type Chatter interface {
	Chat(ctx context.Context, question string) (string, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is a conversation plus its sending guard. It is not safe for
// concurrent use; the owner serializes Begin and Complete.
type Session struct {
	conv    *model.Conversation
	sending bool
	cat     *i18n.Catalog
}

// NewSession creates a session seeded with the catalog greeting.
func NewSession(cat *i18n.Catalog) *Session {
	if cat == nil {
		cat = i18n.Default()
	}
	return &Session{
		conv: model.NewConversation(cat.Greeting),
		cat:  cat,
	}
}

// Conversation returns the underlying conversation.
func (s *Session) Conversation() *model.Conversation {
	return s.conv
}

// Sending reports whether a question is awaiting its reply.
func (s *Session) Sending() bool {
	return s.sending
}

// Begin accepts text as the next question. It returns the trimmed question
// and true when the send was accepted; blank text or an outstanding send
// leaves the session untouched and returns false.
func (s *Session) Begin(text string) (string, bool) {
	question := strings.TrimSpace(text)
	if question == "" || s.sending {
		return "", false
	}
	s.sending = true
	s.conv.AddUserMessage(question)
	return question, true
}

// Complete records the outcome of the outstanding request as exactly one
// assistant message and clears the sending flag.
func (s *Session) Complete(answer string, err error) model.Message {
	if err != nil {
		log.Printf("CHAT | result=error type=%s err=%v", errorType(err), err)
	}
	msg := s.conv.AddAssistantMessage(Reply(s.cat, answer, err))
	s.sending = false
	return msg
}

// Send runs a whole exchange synchronously. ok is false when the send was
// rejected by Begin, in which case no request is made.
func (s *Session) Send(ctx context.Context, client Chatter, text string) (reply model.Message, ok bool) {
	question, ok := s.Begin(text)
	if !ok {
		return model.Message{}, false
	}
	answer, err := client.Chat(ctx, question)
	return s.Complete(answer, err), true
}

// Reply maps a chat result to the text shown to the parent.
func Reply(cat *i18n.Catalog, answer string, err error) string {
	switch {
	case err == nil:
		return answer
	case api.IsTransport(err):
		return cat.NetworkError
	default:
		return cat.BackendError
	}
}

func errorType(err error) string {
	switch {
	case api.IsTransport(err):
		return "transport"
	case api.IsStatus(err):
		return "status"
	default:
		return "other"
	}
}
