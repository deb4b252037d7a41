// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/resource"
	"github.com/minbao/minbao-tui/internal/staging"
)

// Backend is the subset of api.Client the console uses.
type Backend interface {
	GetConfig(ctx context.Context) (model.AdminConfig, error)
	SaveConfig(ctx context.Context, cfg model.AdminConfig) (*api.ConfigUpdateResponse, error)
	ListFiles(ctx context.Context) ([]model.KnowledgeFile, error)
	UploadPath(ctx context.Context, path string) (*api.MessageResponse, error)
	DeleteFile(ctx context.Context, name string) (*api.MessageResponse, error)
	RebuildIndex(ctx context.Context) (*api.RebuildResponse, error)
	ListLogs(ctx context.Context, size int) (*api.LogPage, error)
}

// kbOp names a knowledge base mutation.
type kbOp string

const (
	opUpload  kbOp = "upload"
	opDelete  kbOp = "delete"
	opRebuild kbOp = "rebuild"
)

// =============================================================================
// MESSAGES
// =============================================================================

type configLoadedMsg struct {
	scope uint64
	gen   resource.Generation
	cfg   model.AdminConfig
	err   error
}

type filesLoadedMsg struct {
	scope uint64
	gen   resource.Generation
	files []model.KnowledgeFile
	err   error
}

type logsLoadedMsg struct {
	scope   uint64
	gen     resource.Generation
	entries []model.LogEntry
	err     error
}

type configSavedMsg struct {
	scope uint64
	resp  *api.ConfigUpdateResponse
	err   error
}

// kbDoneMsg reports the end of a knowledge base mutation.
type kbDoneMsg struct {
	scope   uint64
	op      kbOp
	target  string
	message string
	status  string
	err     error
}

type stagingListedMsg struct {
	scope      uint64
	candidates []staging.Candidate
	err        error
}

type stagingChangedMsg struct {
	scope uint64
}

// =============================================================================
// COMMANDS
// =============================================================================

func fetchConfigCmd(ctx context.Context, b Backend, id uint64, gen resource.Generation) tea.Cmd {
	return func() tea.Msg {
		cfg, err := b.GetConfig(ctx)
		return configLoadedMsg{scope: id, gen: gen, cfg: cfg, err: err}
	}
}

func fetchFilesCmd(ctx context.Context, b Backend, id uint64, gen resource.Generation) tea.Cmd {
	return func() tea.Msg {
		files, err := b.ListFiles(ctx)
		return filesLoadedMsg{scope: id, gen: gen, files: files, err: err}
	}
}

func fetchLogsCmd(ctx context.Context, b Backend, id uint64, gen resource.Generation, size int) tea.Cmd {
	return func() tea.Msg {
		page, err := b.ListLogs(ctx, size)
		var entries []model.LogEntry
		if page != nil {
			entries = page.Entries
		}
		return logsLoadedMsg{scope: id, gen: gen, entries: entries, err: err}
	}
}

func saveConfigCmd(ctx context.Context, b Backend, id uint64, cfg model.AdminConfig) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.SaveConfig(ctx, cfg)
		return configSavedMsg{scope: id, resp: resp, err: err}
	}
}

func uploadCmd(ctx context.Context, b Backend, id uint64, path string) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.UploadPath(ctx, path)
		done := kbDoneMsg{scope: id, op: opUpload, target: path, err: err}
		if resp != nil {
			done.message = resp.Message
		}
		return done
	}
}

func deleteCmd(ctx context.Context, b Backend, id uint64, name string) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.DeleteFile(ctx, name)
		done := kbDoneMsg{scope: id, op: opDelete, target: name, err: err}
		if resp != nil {
			done.message = resp.Message
		}
		return done
	}
}

func rebuildCmd(ctx context.Context, b Backend, id uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.RebuildIndex(ctx)
		done := kbDoneMsg{scope: id, op: opRebuild, err: err}
		if resp != nil {
			done.message = resp.Message
			done.status = resp.Status
		}
		return done
	}
}

func listStagingCmd(id uint64, dir string, exts []string) tea.Cmd {
	return func() tea.Msg {
		cands, err := staging.List(dir, exts)
		return stagingListedMsg{scope: id, candidates: cands, err: err}
	}
}

// waitStagingCmd blocks until the staging directory changes or the visit
// ends. A closed watcher or cancelled visit yields no message.
func waitStagingCmd(ctx context.Context, w *staging.Watcher, id uint64) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return stagingChangedMsg{scope: id}
		}
	}
}

const stagingDebounce = 250 * time.Millisecond
