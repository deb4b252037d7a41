// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/minbao/minbao-tui/internal/model"
	"github.com/minbao/minbao-tui/internal/staging"
)

// Backend messages, as the production service words them.
const (
	MsgBadExtension  = "仅支持 .txt 或 .pdf格式文件"
	MsgFileMissing   = "文件不存在"
	MsgEmptyData     = "数据目录为空"
	MsgNoContent     = "数据目录中没有可索引的内容"
	MsgEmptyQuestion = "问题不能为空"
	MsgNotBuilt      = "知识库尚未建立，请联系管理员重建知识库。"
	MsgNoMatch       = "资料里暂时没有找到相关内容，建议咨询儿科医生。"
	MsgConfigSaved   = "配置更新成功"
	MsgBadPassphrase = "口令错误"
	MsgTooManyTries  = "尝试次数过多，请稍后再试"
)

// maxUploadBytes bounds one staged file.
const maxUploadBytes = 10 << 20

// tokenTTL is the lifetime of an issued admin token.
const tokenTTL = 12 * time.Hour

// Login attempts per client IP: loginBurst at once, then one per
// loginInterval.
const (
	loginBurst    = 5
	loginInterval = 2 * time.Second
)

// allowedExts are the stageable extensions.
var allowedExts = []string{".txt", ".pdf"}

// Options configures a Server.
type Options struct {
	// DBPath is the SQLite file. Empty keeps everything in memory.
	DBPath string
	// Passphrase is accepted by the login endpoint.
	Passphrase string
	// Config is the initial model configuration.
	Config model.AdminConfig
	// Quiet disables request logging.
	Quiet bool
}

// Server is an in-process stand-in for the advisory backend.
type Server struct {
	echo  *echo.Echo
	store *Store
	pass  string

	buildMu sync.Mutex

	mu     sync.Mutex
	files  map[string][]byte
	config model.AdminConfig
	now    func() time.Time
}

// New opens the store and registers every route.
func New(opts Options) (*Server, error) {
	store, err := OpenStore(opts.DBPath)
	if err != nil {
		return nil, err
	}

	cfg := opts.Config
	if cfg.Model == "" {
		cfg.Model = model.ModelCatalog[0]
	}
	cfg.Temperature = model.ClampTemperature(cfg.Temperature)

	s := &Server{
		echo:   echo.New(),
		store:  store,
		pass:   opts.Passphrase,
		files:  make(map[string][]byte),
		config: cfg,
		now:    time.Now,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = opts.Quiet
	if !opts.Quiet {
		s.echo.Use(middleware.Logger())
	}
	s.echo.Use(middleware.Recover())
	s.RegisterRoutes(s.echo)
	return s, nil
}

// RegisterRoutes registers the backend routes on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/chat", s.Chat)
	e.POST("/api/v1/rebuild", s.Rebuild)
	e.POST("/api/v1/auth/login", s.Login, loginLimiter())

	admin := e.Group("/api/v1/admin")
	admin.GET("/config", s.GetConfig)
	admin.POST("/config", s.UpdateConfig)
	admin.GET("/files", s.ListFiles)
	admin.POST("/upload", s.Upload)
	admin.DELETE("/files/:name", s.DeleteFile)
	admin.POST("/rebuild", s.Rebuild)
	admin.GET("/logs", s.ListLogs)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the listener and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close closes the store without touching the listener.
func (s *Server) Close() error {
	return s.store.Close()
}

// Stage adds or replaces a staged file.
func (s *Server) Stage(name string, data []byte) error {
	if !staging.Allowed(name, allowedExts) {
		return fmt.Errorf("%s: %s", name, MsgBadExtension)
	}
	s.mu.Lock()
	s.files[filepath.Base(name)] = data
	s.mu.Unlock()
	return nil
}

// SeedDir stages every .txt and .pdf file in dir.
func (s *Server) SeedDir(dir string) (int, error) {
	candidates, err := staging.List(staging.ExpandPath(dir), allowedExts)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range candidates {
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return n, err
		}
		if err := s.Stage(c.Name, data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// =============================================================================
// ERROR BODIES
// =============================================================================

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"detail": msg})
}

// validationError mimics a request validation failure body.
func validationError(c echo.Context, loc []string, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": loc, "msg": msg, "type": "value_error"}},
	})
}

// =============================================================================
// CHAT
// =============================================================================

type chatRequest struct {
	Question *string `json:"question"`
}

// Health answers GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "ArgyAgent"})
}

// Chat answers POST /api/v1/chat from the indexed snapshot.
func (s *Server) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, []string{"body"}, "invalid request body")
	}
	if req.Question == nil {
		return validationError(c, []string{"body", "question"}, "field required")
	}
	question := *req.Question
	if strings.TrimSpace(question) == "" {
		return detail(c, http.StatusBadRequest, MsgEmptyQuestion)
	}

	answer, err := s.answer(ctx, question)
	if err != nil {
		log.Printf("DEVSERVER | op=chat err=%v", err)
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	if _, err := s.store.RecordChat(ctx, question, answer, s.now()); err != nil {
		log.Printf("DEVSERVER | op=record err=%v", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) answer(ctx context.Context, question string) (string, error) {
	chunks, err := s.store.Chunks(ctx)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return MsgNotBuilt, nil
	}
	hits := Retrieve(chunks, question, TopK)
	if len(hits) == 0 {
		return MsgNoMatch, nil
	}

	var b strings.Builder
	b.WriteString("根据知识库资料：\n")
	for _, h := range hits {
		fmt.Fprintf(&b, "\n> %s\n\n*来源：%s*\n", strings.ReplaceAll(h.Content, "\n", "\n> "), h.Source)
	}
	return b.String(), nil
}

// =============================================================================
// AUTH
// =============================================================================

func loginLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(loginInterval),
		Burst:     loginBurst,
		ExpiresIn: 10 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			log.Printf("DEVSERVER | op=login result=throttled client=%s", identifier)
			return detail(c, http.StatusTooManyRequests, MsgTooManyTries)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return detail(c, http.StatusForbidden, err.Error())
		},
	})
}

type loginRequest struct {
	Passphrase string `json:"passphrase"`
}

// Login issues a session token for the configured passphrase.
func (s *Server) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, []string{"body"}, "invalid request body")
	}
	if s.pass == "" || subtle.ConstantTimeCompare([]byte(req.Passphrase), []byte(s.pass)) != 1 {
		return detail(c, http.StatusUnauthorized, MsgBadPassphrase)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token":      uuid.NewString(),
		"expires_at": s.now().Add(tokenTTL).UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// CONFIG
// =============================================================================

type configUpdate struct {
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature"`
}

// GetConfig answers GET /api/v1/admin/config.
func (s *Server) GetConfig(c echo.Context) error {
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()
	return c.JSON(http.StatusOK, cfg)
}

// UpdateConfig applies the fields present in the body.
func (s *Server) UpdateConfig(c echo.Context) error {
	var req configUpdate
	if err := c.Bind(&req); err != nil {
		return validationError(c, []string{"body"}, "invalid request body")
	}
	if t := req.Temperature; t != nil && (*t < model.MinTemperature || *t > model.MaxTemperature) {
		return validationError(c, []string{"body", "temperature"}, "temperature must be between 0 and 2")
	}

	s.mu.Lock()
	if req.Model != nil && *req.Model != "" {
		s.config.Model = *req.Model
	}
	if req.Temperature != nil {
		s.config.Temperature = *req.Temperature
	}
	cfg := s.config
	s.mu.Unlock()

	log.Printf("DEVSERVER | op=config model=%s temperature=%.2f", cfg.Model, cfg.Temperature)
	return c.JSON(http.StatusOK, map[string]any{"message": MsgConfigSaved, "config": cfg})
}

// =============================================================================
// FILES
// =============================================================================

func (s *Server) fileNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListFiles answers GET /api/v1/admin/files.
func (s *Server) ListFiles(c echo.Context) error {
	names := s.fileNames()
	return c.JSON(http.StatusOK, map[string]any{"files": names, "count": len(names)})
}

// Upload stages the multipart "file" field.
func (s *Server) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return validationError(c, []string{"body", "file"}, "field required")
	}
	name := filepath.Base(fh.Filename)
	if !staging.Allowed(name, allowedExts) {
		return detail(c, http.StatusBadRequest, MsgBadExtension)
	}

	f, err := fh.Open()
	if err != nil {
		return detail(c, http.StatusInternalServerError, "文件保存失败："+err.Error())
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return detail(c, http.StatusInternalServerError, "文件保存失败："+err.Error())
	}

	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()

	log.Printf("DEVSERVER | op=upload file=%s bytes=%d", name, len(data))
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("文件 '%s' 上传成功", name),
		"path":    name,
	})
}

// DeleteFile removes a staged file. The index snapshot is untouched.
func (s *Server) DeleteFile(c echo.Context) error {
	name := c.Param("name")
	if c.Request().URL.RawPath != "" {
		if un, err := url.PathUnescape(name); err == nil {
			name = un
		}
	}

	s.mu.Lock()
	_, ok := s.files[name]
	delete(s.files, name)
	s.mu.Unlock()

	if !ok {
		return detail(c, http.StatusNotFound, MsgFileMissing)
	}
	log.Printf("DEVSERVER | op=delete file=%s", name)
	return c.JSON(http.StatusOK, map[string]string{"message": fmt.Sprintf("文件 '%s' 已删除", name)})
}

// =============================================================================
// INDEX
// =============================================================================

// RebuildResult is the body of a rebuild response.
type RebuildResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BuildIndex replaces the index snapshot with the staged .txt files.
// Rebuilds run one at a time.
func (s *Server) BuildIndex(ctx context.Context) RebuildResult {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	s.mu.Lock()
	var docs []string
	for name := range s.files {
		if strings.EqualFold(filepath.Ext(name), ".txt") {
			docs = append(docs, name)
		}
	}
	sort.Strings(docs)
	contents := make([]string, len(docs))
	for i, name := range docs {
		contents[i] = string(s.files[name])
	}
	s.mu.Unlock()

	if len(docs) == 0 {
		return RebuildResult{Status: "warning", Message: MsgEmptyData}
	}

	var chunks []Chunk
	for i, name := range docs {
		for seq, piece := range Split(contents[i], ChunkSize, ChunkOverlap) {
			chunks = append(chunks, Chunk{Source: name, Seq: seq, Content: piece})
		}
	}
	if len(chunks) == 0 {
		return RebuildResult{Status: "error", Message: MsgNoContent}
	}

	if err := s.store.ReplaceChunks(ctx, chunks); err != nil {
		log.Printf("DEVSERVER | op=rebuild err=%v", err)
		return RebuildResult{Status: "error", Message: err.Error()}
	}
	log.Printf("DEVSERVER | op=rebuild files=%d chunks=%d", len(docs), len(chunks))
	return RebuildResult{Status: "success", Message: fmt.Sprintf("知识库构建成功，收录%d条片段", len(chunks))}
}

// Rebuild answers POST /api/v1/admin/rebuild. Outcomes are reported in the
// body with status 200.
func (s *Server) Rebuild(c echo.Context) error {
	return c.JSON(http.StatusOK, s.BuildIndex(c.Request().Context()))
}

// =============================================================================
// LOGS
// =============================================================================

func queryInt(c echo.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		return 0, false
	}
	return n, true
}

// ListLogs answers GET /api/v1/admin/logs?page=&size=.
func (s *Server) ListLogs(c echo.Context) error {
	page, ok := queryInt(c, "page", 1, 1, 0)
	if !ok {
		return validationError(c, []string{"query", "page"}, "page must be >= 1")
	}
	size, ok := queryInt(c, "size", 10, 1, 100)
	if !ok {
		return validationError(c, []string{"query", "size"}, "size must be between 1 and 100")
	}

	logs, total, err := s.store.ListLogs(c.Request().Context(), page, size)
	if err != nil {
		log.Printf("DEVSERVER | op=logs err=%v", err)
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total": total,
		"page":  page,
		"size":  size,
		"logs":  logs,
	})
}
