// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/i18n"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"files"},
			wantSub: "files",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"logs", "--size", "50"},
			wantSub: "logs",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("size") != "50" {
					t.Errorf("Flag(size) = %q, want %q", p.Flag("size"), "50")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"set", "--temperature=0.3"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("temperature") != "0.3" {
					t.Errorf("Flag(temperature) = %q, want %q", p.Flag("temperature"), "0.3")
				}
			},
		},
		{
			name:    "boolean flag at end",
			args:    []string{"files", "--json"},
			wantSub: "files",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "declared bool does not swallow positional",
			args:    []string{"delete", "--yes", "notes.txt"},
			bools:   []string{"yes"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("yes"))
				assert.Equal(t, "notes.txt", p.Positional(1))
			},
		},
		{
			name:    "negative number is a value",
			args:    []string{"set", "--temperature", "-1"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "-1", p.Flag("temperature"))
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"upload", "a.txt", "b.pdf"},
			wantSub: "upload",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 3 {
					t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
				}
				assert.Equal(t, []string{"a.txt", "b.pdf"}, p.PositionalFrom(1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	p := NewArgParser(nil)
	assert.Empty(t, p.Subcommand())
	assert.Equal(t, 0, p.PositionalCount())
	assert.Empty(t, p.Positional(3))
	assert.Empty(t, p.PositionalFrom(1))
	assert.False(t, p.HasFlag("json"))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"Y", true, false},
		{"on", true, false},
		{"0", false, false},
		{"no", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBoolString(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoolString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBoolString(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		check   func(*testing.T, Args)
	}{
		{name: "no args starts tui", argv: nil, wantCmd: CmdTUI},
		{name: "explicit tui", argv: []string{"tui"}, wantCmd: CmdTUI},
		{
			name:    "global flags before command",
			argv:    []string{"--backend", "http://10.0.0.5:8000", "--lang=en", "chat"},
			wantCmd: CmdChat,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "http://10.0.0.5:8000", a.Backend)
				assert.Equal(t, "en", a.Lang)
			},
		},
		{
			name:    "ask joins the query",
			argv:    []string{"ask", "宝宝对鸡蛋过敏", "怎么办"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "宝宝对鸡蛋过敏 怎么办", a.Query)
			},
		},
		{
			name:    "admin keeps raw args",
			argv:    []string{"admin", "logs", "--size", "5", "--json"},
			wantCmd: CmdAdmin,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "logs", a.Subcommand)
				assert.True(t, a.JSON)
				assert.Equal(t, []string{"logs", "--size", "5"}, a.Raw)
			},
		},
		{
			name:    "verbose short flag",
			argv:    []string{"doctor", "-v"},
			wantCmd: CmdDoctor,
			check: func(t *testing.T, a Args) {
				assert.True(t, a.Verbose)
			},
		},
		{name: "config", argv: []string{"config", "path"}, wantCmd: CmdConfig},
		{name: "version", argv: []string{"version"}, wantCmd: CmdVersion},
		{name: "help flag", argv: []string{"--help"}, wantCmd: CmdHelp},
		{name: "unknown", argv: []string{"frobnicate"}, wantCmd: CmdUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("ParseArgs(%v) = %s, want %s", tt.argv, cmd, tt.wantCmd)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

// =============================================================================
// TEST BACKEND
// =============================================================================

// fakeBackend is a minimal stand-in for the advisory backend.
type fakeBackend struct {
	mu       sync.Mutex
	cfg      map[string]any
	files    []string
	uploaded []string
	deleted  []string
	rebuilds int
	chatFail int // status to fail chat with, 0 for success
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		cfg:   map[string]any{"model": "gpt-4o", "temperature": 0.5},
		files: []string{"鸡蛋过敏.txt"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ArgyAgent"})
	})
	mux.HandleFunc("POST /api/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fail := fb.chatFail
		fb.mu.Unlock()
		if fail != 0 {
			writeJSON(w, fail, map[string]string{"detail": "boom"})
			return
		}
		var req api.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, map[string]string{"answer": "建议：" + req.Question})
	})
	mux.HandleFunc("GET /api/v1/admin/config", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, fb.cfg)
	})
	mux.HandleFunc("POST /api/v1/admin/config", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		for k, v := range in {
			fb.cfg[k] = v
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "配置已更新", "config": fb.cfg})
	})
	mux.HandleFunc("GET /api/v1/admin/files", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"files": fb.files, "count": len(fb.files)})
	})
	mux.HandleFunc("POST /api/v1/admin/upload", func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "no file"})
			return
		}
		fb.mu.Lock()
		fb.uploaded = append(fb.uploaded, hdr.Filename)
		fb.files = append(fb.files, hdr.Filename)
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "文件 " + hdr.Filename + " 上传成功"})
	})
	mux.HandleFunc("DELETE /api/v1/admin/files/{name}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.deleted = append(fb.deleted, r.PathValue("name"))
		writeJSON(w, http.StatusOK, map[string]string{"message": "文件已删除"})
	})
	mux.HandleFunc("POST /api/v1/admin/rebuild", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.rebuilds++
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "知识库构建成功，收录3条片段"})
	})
	mux.HandleFunc("GET /api/v1/admin/logs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"total": 1, "page": 1, "size": 20,
			"logs": []map[string]any{{
				"id": 7, "session_id": nil, "user_question": "宝宝对鸡蛋过敏怎么办",
				"ai_answer": "建议...", "created_at": "2025-01-02T03:04:05",
			}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	*Env
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestEnv(t *testing.T, baseURL string, argv ...string) testEnv {
	t.Helper()
	_, args := ParseArgs(argv)
	cfg := config.Default()
	cfg.Backend.URL = baseURL
	var out, errb bytes.Buffer
	return testEnv{
		Env: &Env{
			Args:    args,
			Config:  cfg,
			Catalog: i18n.Default(),
			Client:  api.NewClient(baseURL),
			In:      strings.NewReader(""),
			Out:     &out,
			Err:     &errb,
		},
		out: &out,
		err: &errb,
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("MINBAO_BACKEND_URL", "")
	t.Setenv("MINBAO_LANG", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.SaveTOML(config.Default(), path))

	_, args := ParseArgs([]string{"--config", path, "--backend", "http://10.0.0.2:9000/", "--lang", "en", "doctor"})
	cfg, err := LoadConfig(args)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:9000", cfg.Backend.URL)
	assert.Equal(t, "en", cfg.UI.Language)

	fresh, err := LoadConfig(Args{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBackendURL, fresh.Backend.URL, "each load builds its own config")
}

// =============================================================================
// CHAT REPL TESTS
// =============================================================================

type scriptedInput struct {
	lines   []string
	history []string
}

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func TestRunChat_AnswersAndSkipsBlank(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "chat")
	in := &scriptedInput{lines: []string{"   ", "宝宝对鸡蛋过敏怎么办", "/quit", "never sent"}}

	require.NoError(t, runChat(context.Background(), env.Env, in))

	out := env.out.String()
	assert.Contains(t, out, i18n.Default().Greeting)
	assert.Contains(t, out, "建议：宝宝对鸡蛋过敏怎么办")
	assert.NotContains(t, out, "never sent")
	assert.Equal(t, []string{"宝宝对鸡蛋过敏怎么办", "/quit"}, in.history)
}

func TestRunChat_BackendErrorString(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.chatFail = http.StatusInternalServerError
	env := newTestEnv(t, srv.URL, "chat")

	require.NoError(t, runChat(context.Background(), env.Env, &scriptedInput{lines: []string{"hi"}}))
	assert.Contains(t, env.out.String(), "⚠️ 出错了：无法连接到大脑。")
}

func TestRunChat_NetworkErrorString(t *testing.T) {
	_, srv := newFakeBackend(t)
	url := srv.URL
	srv.Close()
	env := newTestEnv(t, url, "chat")

	require.NoError(t, runChat(context.Background(), env.Env, &scriptedInput{lines: []string{"hi"}}))
	assert.Contains(t, env.out.String(), "🚫 网络错误，请检查后端是否启动。")
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestHandleAsk_JSON(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "--json", "ask", "牛奶过敏")

	require.NoError(t, HandleAsk(env.Env))

	var resp struct {
		Success bool      `json:"success"`
		Data    askResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "建议：牛奶过敏", resp.Data.Answer)
}

func TestHandleAsk_ReadsPipedQuestion(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "ask")
	env.In = strings.NewReader("花生过敏\n")

	require.NoError(t, HandleAsk(env.Env))
	assert.Contains(t, env.out.String(), "建议：花生过敏")
}

func TestHandleAsk_MissingQuestion(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1", "ask")
	env.Interactive = true

	err := HandleAsk(env.Env)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// ADMIN TESTS
// =============================================================================

func TestHandleAdmin_RejectsWrongPassphrase(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "rebuild", "--passphrase", "admin999")

	err := HandleAdmin(env.Env)
	require.ErrorIs(t, err, ErrPassphraseRejected)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Equal(t, 0, fb.rebuilds)
}

func TestHandleAdmin_ShowConfig(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "config", "--passphrase", "admin888")

	require.NoError(t, HandleAdmin(env.Env))
	assert.Contains(t, env.out.String(), "gpt-4o")
	assert.Contains(t, env.out.String(), "0.5")
}

func TestHandleAdmin_SetConfig(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "set", "--temperature", "0.3", "--passphrase", "admin888")

	require.NoError(t, HandleAdmin(env.Env))
	assert.Contains(t, env.out.String(), "配置已更新")
	assert.InDelta(t, 0.3, fb.cfg["temperature"], 1e-9)
	assert.Equal(t, "gpt-4o", fb.cfg["model"], "unset fields keep their value")
}

func TestHandleAdmin_SetConfigValidates(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "set", "--temperature", "3", "--passphrase", "admin888")

	err := HandleAdmin(env.Env)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleAdmin_UploadThenRebuildHint(t *testing.T) {
	fb, srv := newFakeBackend(t)
	path := filepath.Join(t.TempDir(), "牛奶过敏.txt")
	require.NoError(t, os.WriteFile(path, []byte("牛奶过敏的宝宝可以选择深度水解配方。"), 0600))
	env := newTestEnv(t, srv.URL, "admin", "upload", path, "--passphrase", "admin888")

	require.NoError(t, HandleAdmin(env.Env))
	assert.Equal(t, []string{"牛奶过敏.txt"}, fb.uploaded)
	assert.Contains(t, env.out.String(), i18n.Default().RebuildRequired)
	assert.Equal(t, 0, fb.rebuilds, "upload never rebuilds")
}

func TestHandleAdmin_UploadRejectsExtension(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "upload", "notes.docx", "--passphrase", "admin888")

	err := HandleAdmin(env.Env)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Empty(t, fb.uploaded)
}

func TestHandleAdmin_DeleteNeedsYesInJSONMode(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "--json", "admin", "delete", "鸡蛋过敏.txt", "--passphrase", "admin888")

	err := HandleAdmin(env.Env)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Empty(t, fb.deleted)

	env = newTestEnv(t, srv.URL, "--json", "admin", "delete", "--yes", "鸡蛋过敏.txt", "--passphrase", "admin888")
	require.NoError(t, HandleAdmin(env.Env))
	assert.Equal(t, []string{"鸡蛋过敏.txt"}, fb.deleted)
}

func TestHandleAdmin_DeleteInteractiveDecline(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "delete", "鸡蛋过敏.txt", "--passphrase", "admin888")
	env.Interactive = true
	env.In = strings.NewReader("n\n")

	require.NoError(t, HandleAdmin(env.Env))
	assert.Empty(t, fb.deleted)
}

func TestHandleAdmin_Rebuild(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "rebuild", "--passphrase", "admin888")

	require.NoError(t, HandleAdmin(env.Env))
	assert.Equal(t, 1, fb.rebuilds)
	assert.Contains(t, env.out.String(), "知识库构建成功，收录3条片段")
}

func TestHandleAdmin_Logs(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "admin", "logs", "--passphrase", "admin888")

	require.NoError(t, HandleAdmin(env.Env))
	assert.Contains(t, env.out.String(), "#7")
	assert.Contains(t, env.out.String(), "宝宝对鸡蛋过敏怎么办")

	env = newTestEnv(t, srv.URL, "admin", "logs", "--size", "500", "--passphrase", "admin888")
	assert.Equal(t, ExitUsageError, GetExitCode(HandleAdmin(env.Env)))
}

func TestHandleAdmin_UnknownSubcommand(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1", "admin", "explode")
	assert.Equal(t, ExitUsageError, GetExitCode(HandleAdmin(env.Env)))
}

// =============================================================================
// DOCTOR AND CONFIG TESTS
// =============================================================================

func TestHandleDoctor_Healthy(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newTestEnv(t, srv.URL, "--json", "doctor")
	env.Config.Log.File = filepath.Join(t.TempDir(), "minbao.log")

	require.NoError(t, HandleDoctor(env.Env))

	var resp struct {
		Success bool       `json:"success"`
		Data    DoctorData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Summary.Healthy)
	assert.Equal(t, 0, resp.Data.Summary.Failed)
}

func TestHandleDoctor_BackendDown(t *testing.T) {
	_, srv := newFakeBackend(t)
	url := srv.URL
	srv.Close()
	env := newTestEnv(t, url, "doctor")
	env.Config.Log.File = filepath.Join(t.TempDir(), "minbao.log")

	err := HandleDoctor(env.Env)
	require.Error(t, err)
	assert.Contains(t, env.out.String(), "Backend unreachable")
}

func TestHandleConfig_InitAndPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	env := newTestEnv(t, "http://127.0.0.1:8000", "--config", path, "config", "init")

	require.NoError(t, HandleConfig(env.Env))
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBackendURL, cfg.Backend.URL)

	env = newTestEnv(t, "http://127.0.0.1:8000", "--config", path, "config", "init")
	assert.Equal(t, ExitUsageError, GetExitCode(HandleConfig(env.Env)), "existing file needs --force")

	env = newTestEnv(t, "http://127.0.0.1:8000", "--config", path, "config", "path")
	require.NoError(t, HandleConfig(env.Env))
	assert.Equal(t, path+"\n", env.out.String())
}

func TestHandleConfig_TOTP(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:8000", "--json", "config", "totp")
	require.NoError(t, HandleConfig(env.Env))

	var resp struct {
		Data totpEnrollment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Secret)
	assert.True(t, strings.HasPrefix(resp.Data.URL, "otpauth://totp/"))
}

func TestHandleConfig_ShowMasksSecrets(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:8000", "config", "show")
	require.NoError(t, HandleConfig(env.Env))
	assert.NotContains(t, env.out.String(), config.DefaultPassphrase)
}

// =============================================================================
// ERRORS AND CONFIRMATION
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", &ValidationError{Field: "x"}, ExitUsageError},
		{"config", &ConfigError{Err: errors.New("bad")}, ExitConfigError},
		{"passphrase", WrapError(ErrPassphraseRejected, "admin"), ExitAuthError},
		{"transport", &api.ClientError{Type: api.ErrTypeTransport}, ExitNetworkError},
		{"not found", &api.ClientError{Type: api.ErrTypeStatus, Status: http.StatusNotFound}, ExitNotFound},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.want {
			t.Errorf("GetExitCode(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRequireConfirmation(t *testing.T) {
	var out bytes.Buffer
	ok, err := RequireConfirmation("delete", ConfirmationOptions{Interactive: true, In: strings.NewReader("YES\n"), Out: &out})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "[y/N]")

	ok, err = RequireConfirmation("delete", ConfirmationOptions{Interactive: true, In: strings.NewReader(""), Out: &out})
	require.NoError(t, err)
	assert.False(t, ok, "EOF declines")

	_, err = RequireConfirmation("delete", ConfirmationOptions{})
	assert.Error(t, err, "non-interactive needs --yes")
}
