// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single-question command.
//
// Command: ask
// Short:   Ask one question and print the answer
//
// Examples:
//   minbao ask "宝宝对鸡蛋过敏怎么办"
//   echo "牛奶过敏能喝羊奶吗" | minbao ask
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/minbao/minbao-tui/internal/ui/chat"
)

// maxQuestionBytes bounds a question read from stdin.
const maxQuestionBytes = 16 << 10

var (
	rendererMu    sync.Mutex
	rendererWidth int
	renderer      *glamour.TermRenderer
)

// renderMarkdown renders content for a terminal of width. Rendering failures
// return the content unchanged.
func renderMarkdown(content string, width int) string {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if renderer == nil || rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(width-4, 20)),
		)
		if err != nil {
			return content
		}
		renderer, rendererWidth = r, width
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// askResult is the --json payload of ask.
type askResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HandleAsk sends one question. Without a query argument the question is
// read from a piped stdin.
func HandleAsk(env *Env) error {
	question := strings.TrimSpace(env.Args.Query)
	if question == "" && !env.Interactive && env.In != nil {
		data, err := io.ReadAll(io.LimitReader(env.In, maxQuestionBytes))
		if err != nil {
			return WrapError(err, "read question")
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return ErrMissingArgument("question", `minbao ask "宝宝对鸡蛋过敏怎么办"`)
	}

	return OutputJSON(env.Out, env.Args.JSON, "ask", func() (any, error) {
		answer, err := env.Client.Chat(context.Background(), question)
		if err != nil {
			log.Printf("ASK | result=error err=%v", err)
			if !env.Args.JSON {
				fmt.Fprintln(env.Err, chat.Reply(env.Catalog, "", err))
			}
			return nil, err
		}
		if !env.Args.JSON {
			out := answer
			if env.Markdown {
				out = renderMarkdown(answer, GetTerminalWidth())
			}
			fmt.Fprintln(env.Out, strings.TrimRight(out, "\n"))
		}
		return askResult{Question: question, Answer: answer}, nil
	})
}
