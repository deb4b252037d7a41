// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Conversation is an ordered, append-only message history. Insertion order
// is display order; messages are never reordered or removed.
//
// Conversation is not safe for concurrent use. The UI owns it from a single
// event loop.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with an assistant greeting.
// An empty greeting yields an empty conversation.
func NewConversation(greeting string) *Conversation {
	c := &Conversation{}
	if greeting != "" {
		c.AddAssistantMessage(greeting)
	}
	return c
}

// AddUserMessage appends a user message and returns it.
func (c *Conversation) AddUserMessage(content string) Message {
	return c.add(NewMessage(RoleUser, content))
}

// AddAssistantMessage appends an assistant message and returns it.
func (c *Conversation) AddAssistantMessage(content string) Message {
	return c.add(NewMessage(RoleAssistant, content))
}

func (c *Conversation) add(msg Message) Message {
	c.messages = append(c.messages, msg)
	return msg
}

// Messages returns a copy of the history in display order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message, or false if the history is empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
