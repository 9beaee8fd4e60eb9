package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pacer/internal/config"
	"github.com/sadopc/pacer/internal/engine"
	"github.com/sadopc/pacer/internal/logger"
	"github.com/sadopc/pacer/internal/notify"
	"github.com/sadopc/pacer/internal/store"
	"github.com/sadopc/pacer/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.GetLogPath()); err != nil {
		// The TUI owns stdout, so logging stays off rather than noisy.
		fmt.Fprintf(os.Stderr, "warning: log file unavailable: %v\n", err)
	}

	s, err := store.New(cfg.GetDatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// One-shot restore from a backup produced by the export picker.
	if path := os.Getenv("PACER_IMPORT"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading import file: %v\n", err)
			os.Exit(1)
		}
		n, err := s.ImportLegacyReports(string(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error importing reports: %v\n", err)
			os.Exit(1)
		}
		logger.Info("imported reports", "count", n, "from", path)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notifications.Enabled {
		notifier = notify.NewDesktop(cfg.Notifications.Sound)
	}

	policy := engine.SuggestionPolicy{
		Threshold: cfg.Suggestion.Threshold(),
		Streak:    cfg.Suggestion.Streak,
	}
	eng, err := engine.New(s, engine.SystemClock{}, notifier, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Reload pacing state when the config file is edited while running.
	watcher, err := config.Watch(func(updated *config.Config) {
		logger.Info("config reloaded")
		if err := eng.Refresh(); err != nil {
			logger.Warn("refresh after config change", "err", err)
		}
	})
	if err != nil {
		logger.Warn("config watcher unavailable", "err", err)
	}
	if watcher != nil {
		defer watcher.Close()
	}

	app := tui.NewApp(s, eng)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
