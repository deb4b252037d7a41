// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main runs the local development backend for minbao.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minbao/minbao-tui/internal/cli"
	"github.com/minbao/minbao-tui/internal/config"
	"github.com/minbao/minbao-tui/internal/devserver"
	"github.com/minbao/minbao-tui/internal/model"
)

const usage = `devbackend - local backend for minbao

Usage:
  devbackend [--addr HOST:PORT] [--db PATH] [--seed DIR] [--passphrase SECRET] [--quiet]

Flags:
  --addr        Listen address (default 127.0.0.1:8000)
  --db          SQLite file for the chat log and index (default in-memory)
  --seed        Stage every .txt/.pdf file in DIR at startup
  --rebuild     Build the index from the seeded files at startup
  --passphrase  Passphrase accepted by /api/v1/auth/login (default admin888)
  --quiet       Disable request logging
`

func main() {
	p := cli.NewArgParser(append([]string{"devbackend"}, os.Args[1:]...), "quiet", "rebuild", "help", "h")
	if p.BoolFlag("help") || p.BoolFlag("h") {
		fmt.Print(usage)
		return
	}

	addr := p.FlagOrDefault("addr", "127.0.0.1:8000")
	srv, err := devserver.New(devserver.Options{
		DBPath:     p.Flag("db"),
		Passphrase: p.FlagOrDefault("passphrase", config.DefaultPassphrase),
		Config:     model.AdminConfig{Model: model.ModelCatalog[0], Temperature: 0.2},
		Quiet:      p.BoolFlag("quiet"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}

	if dir := p.Flag("seed"); dir != "" {
		n, err := srv.SeedDir(dir)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", dir, err)
		}
		log.Printf("Staged %d file(s) from %s", n, dir)
	}
	if p.BoolFlag("rebuild") {
		if err := rebuildOnStart(srv); err != nil {
			log.Printf("Startup rebuild failed: %v", err)
		}
	}

	go func() {
		log.Printf("Backend listening on http://%s", addr)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down backend...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown gracefully: %v", err)
	}
}

func rebuildOnStart(srv *devserver.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res := srv.BuildIndex(ctx)
	if res.Status == "error" {
		return errors.New(res.Message)
	}
	log.Printf("Index: %s (%s)", res.Message, res.Status)
	return nil
}
