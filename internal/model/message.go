// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// Role says who authored a chat message.
type Role string

// Only two parties ever speak: the parent and the advisor.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the chat history. Content is the text shown to
// the user, already localized for errors and fallbacks.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage stamps content with a random ID and the wall clock.
func NewMessage(role Role, content string) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content, Timestamp: time.Now()}
}

// IsUser reports whether the message was typed by the parent.
func (m Message) IsUser() bool { return m.Role == RoleUser }
