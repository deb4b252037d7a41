// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command.
//
// Command: chat
// Short:   Chat with the advisor line by line
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Start a new conversation
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel the current question, or exit at the prompt
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/ui/chat"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the prompt the REPL reads from.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history loaded from the
// config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// Prompt reads a line with history navigation.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	return c.line.Prompt(prompt)
}

// AppendHistory records a non-empty input.
func (c *ChatCLI) AppendHistory(item string) {
	c.line.AppendHistory(item)
}

// Close saves history with 0600 permissions and restores the terminal.
func (c *ChatCLI) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(env *Env) error {
	input := NewChatCLI()
	defer input.Close()
	return runChat(context.Background(), env, input)
}

// runChat is the REPL loop. Each question is sent with the same guard and
// reply mapping as the TUI.
func runChat(ctx context.Context, env *Env, input lineReader) error {
	session := chat.NewSession(env.Catalog)
	printGreeting(env, session)

	for {
		line, err := input.Prompt(PromptStyle.Render("敏宝> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D, or end of piped input.
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(env.Out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		input.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			next, cont := handleSlashCommand(env, line, session)
			session = next
			if !cont {
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		reply, ok := session.Send(sendCtx, env.Client, line)
		stop()
		if !ok {
			continue
		}
		printAnswer(env, reply.Content)
	}
}

func handleSlashCommand(env *Env, line string, session *chat.Session) (*chat.Session, bool) {
	cmd := strings.ToLower(strings.Fields(line)[0])
	switch cmd {
	case "/quit", "/q", "/exit":
		return session, false
	case "/clear", "/c":
		session = chat.NewSession(env.Catalog)
		printGreeting(env, session)
	case "/help", "/h":
		fmt.Fprintln(env.Out, DimStyle.Render("/clear  start a new conversation"))
		fmt.Fprintln(env.Out, DimStyle.Render("/quit   exit"))
	default:
		fmt.Fprintf(env.Err, "%s unknown command %s (try /help)\n", WarningStyle.Render("[!]"), cmd)
	}
	return session, true
}

func printGreeting(env *Env, session *chat.Session) {
	if greeting, ok := session.Conversation().Last(); ok {
		fmt.Fprintln(env.Out, AnswerStyle.Render(env.Catalog.AssistantLabel+": ")+greeting.Content)
		fmt.Fprintln(env.Out)
	}
}

func printAnswer(env *Env, content string) {
	fmt.Fprintln(env.Out, AnswerStyle.Render(env.Catalog.AssistantLabel+":"))
	out := content
	if env.Markdown {
		out = renderMarkdown(content, GetTerminalWidth())
	}
	fmt.Fprintln(env.Out, strings.TrimRight(out, "\n"))
	fmt.Fprintln(env.Out)
}
