// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timestampLayout is the naive ISO format the production backend emits.
const timestampLayout = "2006-01-02T15:04:05.000000"

// =============================================================================
// SCHEMA
// =============================================================================

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS chat_log (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id    TEXT,
		user_question TEXT NOT NULL,
		ai_answer     TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_log_created ON chat_log(created_at)`,
	`CREATE TABLE IF NOT EXISTS chunks (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		source  TEXT NOT NULL,
		seq     INTEGER NOT NULL,
		content TEXT NOT NULL
	)`,
}

// =============================================================================
// STORE
// =============================================================================

// Store keeps the conversation log and the indexed chunk snapshot.
type Store struct {
	db *sql.DB
}

// ChatLog is one recorded exchange.
type ChatLog struct {
	ID           int64   `json:"id"`
	SessionID    *string `json:"session_id"`
	UserQuestion string  `json:"user_question"`
	AIAnswer     string  `json:"ai_answer"`
	CreatedAt    string  `json:"created_at"`
}

// Chunk is one indexed fragment of a knowledge file.
type Chunk struct {
	Source  string
	Seq     int
	Content string
}

// OpenStore opens path, or a private in-memory database when path is empty.
func OpenStore(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has one writer, and every :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if path != "" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordChat appends an exchange to chat_log.
func (s *Store) RecordChat(ctx context.Context, question, answer string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_log (session_id, user_question, ai_answer, created_at) VALUES (NULL, ?, ?, ?)`,
		question, answer, at.Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("record chat: %w", err)
	}
	return res.LastInsertId()
}

// ListLogs returns page (1-based) of chat_log, newest first, and the total
// row count.
func (s *Store) ListLogs(ctx context.Context, page, size int) ([]ChatLog, int, error) {
	if page < 1 || size < 1 {
		return nil, 0, errors.New("page and size must be positive")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_question, ai_answer, created_at
		 FROM chat_log ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	logs := make([]ChatLog, 0, size)
	for rows.Next() {
		var (
			l   ChatLog
			sid sql.NullString
		)
		if err := rows.Scan(&l.ID, &sid, &l.UserQuestion, &l.AIAnswer, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan log: %w", err)
		}
		if sid.Valid {
			l.SessionID = &sid.String
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

// ReplaceChunks swaps the index snapshot for chunks in one transaction.
func (s *Store) ReplaceChunks(ctx context.Context, chunks []Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks (source, seq, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.Source, c.Seq, c.Content); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return tx.Commit()
}

// Chunks returns the whole index snapshot in source order.
func (s *Store) Chunks(ctx context.Context) ([]Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, seq, content FROM chunks ORDER BY source, seq`)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.Source, &c.Seq, &c.Content); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
