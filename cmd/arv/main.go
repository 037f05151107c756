// Package main is the entry point of arv, a terminal viewer for Artillery
// load test reports. It parses flags, loads configuration and services, and
// runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/artillery-report-tui/internal/app"
	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/logger"
	"github.com/j-veylop/artillery-report-tui/internal/services"
	"github.com/j-veylop/artillery-report-tui/internal/ui/tabs/endpoints"
	"github.com/j-veylop/artillery-report-tui/internal/ui/tabs/explorer"
	"github.com/j-veylop/artillery-report-tui/internal/ui/tabs/info"
	"github.com/j-veylop/artillery-report-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/artillery-report-tui/internal/ui/tabs/summary"
	"github.com/j-veylop/artillery-report-tui/internal/version"
)

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if isHelp(err) {
			os.Exit(0)
		}
		// go-flags has already printed the error.
		os.Exit(2)
	}

	if opts.Version {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.apply(cfg)

	closeLog, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	logger.Info("starting", "version", version.GetVersion(), "report", cfg.ReportPath, "watch", cfg.WatchReport)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	model.OpenOnStart(cfg.ReportPath)

	// Tab order matches app.TabID.
	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state, cfg),
		explorer.New(state, cfg),
		endpoints.New(state, cfg),
		summary.New(state, cfg),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
