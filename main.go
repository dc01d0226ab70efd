// ragdesk - terminal client for the ragdesk document-chat service.
//
// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/auth"
	"github.com/nextgensoft/ragdesk/internal/cli"
	"github.com/nextgensoft/ragdesk/internal/config"
	"github.com/nextgensoft/ragdesk/internal/storage"
	"github.com/nextgensoft/ragdesk/internal/ui/dash"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdProjects:
		err = cli.HandleProjects(args)
	case cli.CmdDocs:
		err = cli.HandleDocs(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdCache:
		err = cli.HandleCache(args)
	case cli.CmdExport:
		err = cli.HandleExport(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
	if err != nil {
		os.Exit(1)
	}
}

// runTUI starts the dashboard. Logging goes to the state-dir file so it
// never fights bubbletea for the terminal.
func runTUI(args cli.Args) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}
	if args.Verbose {
		cfg.Logging.Verbose = true
	}
	config.SetGlobal(cfg)

	logPath, err := cfg.LogFilePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	logger, closeLog, err := config.SetupLogging(cfg.Logging, logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	defer closeLog()

	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	client := api.NewClient(cfg.Server.BaseURL, auth.DefaultSource(dir),
		api.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
		api.WithMaxRetries(cfg.Server.MaxRetries),
		api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
		api.WithLogger(logger),
	)

	opts := []dash.AppOption{}
	if cfg.Cache.Enabled {
		if cachePath, cerr := cfg.CachePath(); cerr == nil {
			if cache, cerr := storage.Open(cachePath); cerr == nil {
				defer cache.Close()
				opts = append(opts, dash.WithConversationCache(cache))
			} else {
				logger.Warn("offline cache unavailable", "error", cerr)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := dash.NewApp(ctx, client, cfg, opts...)

	// Config edits apply on the next screen; the running program picks up
	// the new Global on its next client-side read.
	if cfgPath, perr := config.Path(); perr == nil {
		if watcher, werr := config.Watch(cfgPath, func(*config.Config) {}); werr == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
