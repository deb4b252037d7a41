// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbao/minbao-tui/internal/model"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// unreachableURL returns an origin nothing is listening on.
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat_Success(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "宝宝对鸡蛋过敏怎么办", req.Question)

		writeJSON(w, http.StatusOK, ChatResponse{Answer: "建议..."})
	})

	answer, err := client.Chat(context.Background(), "宝宝对鸡蛋过敏怎么办")
	require.NoError(t, err)
	if answer != "建议..." {
		t.Errorf("answer = %q, want %q", answer, "建议...")
	}
}

func TestChat_StatusError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)

	assert.True(t, IsStatus(err))
	assert.False(t, IsTransport(err))
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, "500: boom", Detail(err))
}

func TestChat_TransportError(t *testing.T) {
	client := NewClient(unreachableURL(t))

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)

	assert.True(t, IsTransport(err))
	assert.False(t, IsStatus(err))
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, 0, StatusCode(err))
}

func TestChat_DecodeError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>proxy page</html>")
	})

	_, err := client.Chat(context.Background(), "q")
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeDecode, ce.Type)
	assert.False(t, IsTransport(err))
}

func TestChat_Canceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Chat(ctx, "q")
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.True(t, IsTransport(err))
}

func TestValidationDetailList(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"query", "size"}, "msg": "ensure this value is less than or equal to 100"}},
		})
	})

	_, err := client.GetConfig(context.Background())
	require.Error(t, err)
	assert.Contains(t, Detail(err), "less than or equal to 100")
}

// =============================================================================
// ADMIN
// =============================================================================

func TestGetAndSaveConfig(t *testing.T) {
	current := model.AdminConfig{Model: "gpt-3.5-turbo", Temperature: 0.2}
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/admin/config", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, current)
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&current))
			writeJSON(w, http.StatusOK, map[string]any{"message": "配置更新成功", "config": current})
		}
	})

	ctx := context.Background()
	cfg, err := client.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)

	resp, err := client.SaveConfig(ctx, model.AdminConfig{Model: "gpt-4.1-mini", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "配置更新成功", resp.Message)
	assert.Equal(t, "gpt-4.1-mini", resp.Config.Model)
}

func TestListFiles_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []model.KnowledgeFile
	}{
		{"object", `{"files":["b.txt","a.pdf"],"count":2}`, []model.KnowledgeFile{{Name: "a.pdf"}, {Name: "b.txt"}}},
		{"bare array when data dir missing", `[]`, []model.KnowledgeFile{}},
		{"empty object", `{"files":[],"count":0}`, []model.KnowledgeFile{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})
			files, err := client.ListFiles(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestUploadFile_Multipart(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "egg.txt", hdr.Filename)
		assert.Equal(t, "鸡蛋过敏", string(data))

		writeJSON(w, http.StatusOK, MessageResponse{Message: "文件 egg.txt 上传成功", Path: "../data/egg.txt"})
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "egg.txt")
	require.NoError(t, os.WriteFile(path, []byte("鸡蛋过敏"), 0644))

	resp, err := client.UploadPath(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "egg.txt")
}

func TestUploadPath_MissingFile(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.UploadPath(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeRequest, ce.Type)
}

func TestDeleteFile_EscapesName(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/admin/files/%E8%8A%B1%E7%94%9F%20notes.txt", r.URL.EscapedPath())
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "文件不存在"})
	})

	_, err := client.DeleteFile(context.Background(), "花生 notes.txt")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, "404: 文件不存在", Detail(err))
}

func TestRebuildIndex(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusOK, RebuildResponse{Status: "warning", Message: "数据目录为空"})
	})

	resp, err := client.RebuildIndex(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "数据目录为空", resp.Message)
}

func TestListLogs(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total":2,"page":1,"size":20,"logs":[
			{"id":2,"session_id":null,"user_question":"牛奶过敏","ai_answer":"换水解配方","created_at":"2025-03-01T10:20:30.123456"},
			{"id":1,"session_id":"s-1","user_question":"q","ai_answer":"a","created_at":"2025-03-01T09:00:00Z"}
		]}`)
	})

	page, err := client.ListLogs(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)

	first := page.Entries[0]
	assert.Equal(t, int64(2), first.ID)
	assert.Empty(t, first.SessionID)
	assert.Equal(t, 2025, first.CreatedAt.Year())
	assert.Equal(t, 20, first.CreatedAt.Minute())
	assert.Equal(t, "s-1", page.Entries[1].SessionID)
}

func TestListLogs_SizeRange(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	for _, size := range []int{0, 101} {
		_, err := client.ListLogs(context.Background(), size)
		var ce *ClientError
		require.True(t, errors.As(err, &ce), "size %d", size)
		assert.Equal(t, ErrTypeRequest, ce.Type)
	}
}

// =============================================================================
// TOKEN & MISC
// =============================================================================

func TestSetToken_AddsBearer(t *testing.T) {
	var (
		mu  sync.Mutex
		got string
	)
	header := func() string {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = r.Header.Get("Authorization")
		mu.Unlock()
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: "ArgyAgent"})
	})

	_, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Empty(t, header())

	client.SetToken("tok-123")
	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", header())
	assert.Equal(t, "ArgyAgent", health.Service)
}

func TestLogin(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Passphrase != "open sesame" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid passphrase"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "signed", "expires_at": "2030-01-01T00:00:00Z"})
	})

	resp, err := client.Login(context.Background(), "open sesame")
	require.NoError(t, err)
	assert.Equal(t, "signed", resp.Token)

	_, err = client.Login(context.Background(), "wrong")
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestNewClient_TrimsSlash(t *testing.T) {
	c := NewClient("http://127.0.0.1:8000/")
	if c.BaseURL() != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}
	if NewClient("").BaseURL() != DefaultBaseURL {
		t.Errorf("empty base URL should fall back to %q", DefaultBaseURL)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-03-01T10:20:30Z", false},
		{"2025-03-01T10:20:30+08:00", false},
		{"2025-03-01T10:20:30", false},
		{"2025-03-01T10:20:30.5", false},
		{"2025-03-01 10:20:30", false},
		{"", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		_, err := ParseTimestamp(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestamp(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
