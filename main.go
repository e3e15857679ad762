// bitum TUI - a terminal client for the bitum chat server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/cache"
	"github.com/bitum-chat/bitum-tui/internal/config"
	"github.com/bitum-chat/bitum-tui/internal/notify"
	"github.com/bitum-chat/bitum-tui/internal/session"
	"github.com/bitum-chat/bitum-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	serverURL := flag.String("server", "", "server base URL (overrides config)")
	refreshMS := flag.Int("refresh", 0, "refresh interval in milliseconds (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bitum %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// The TUI owns the terminal; refuse to start on a pipe.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "bitum needs an interactive terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *refreshMS > 0 {
		cfg.Refresh.IntervalMillis = *refreshMS
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	setupLogging()

	// Hot reload config edits while the TUI runs.
	watcher, err := config.NewWatcher(500 * time.Millisecond)
	if err == nil {
		if err := watcher.Watch(); err != nil {
			log.Printf("config watcher disabled: %v", err)
		}
		defer watcher.Close()
	}

	client, err := api.NewClient(cfg.Server.URL, api.WithTimeout(cfg.Timeout()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	queue := notify.NewQueue()
	host := notify.MustMount(notify.DefaultSlot, queue)

	// The snapshot cache is optional; run without it when unavailable.
	var store *cache.Store
	if dir, err := config.Dir(); err == nil {
		store, err = cache.Open(cache.DefaultPath(dir))
		if err != nil {
			log.Printf("snapshot cache disabled: %v", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	m := ui.New(client, cfg, queue, host, store)

	// Audit identity transitions to the debug log. The store broadcasts
	// outside the update loop, so external consumers never touch the model.
	go func() {
		for identity := range m.Identity().Subscribe() {
			if identity.Authenticated() {
				log.Printf("session resolved: signed in as %s", identity.User.Username)
			} else if identity.Phase == session.PhaseResolved {
				log.Printf("session resolved: not signed in")
			}
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running bitum: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to a file under the config
// directory. Nothing may write to the terminal while the TUI owns it.
func setupLogging() {
	dir, err := config.Dir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	if err := config.EnsureDir(); err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "bitum.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
