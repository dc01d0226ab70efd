// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/auth"
	"github.com/nextgensoft/ragdesk/internal/config"
)

// setup loads configuration (honoring --server) and builds an API client
// backed by the default token chain.
func setup(args Args) (*config.Config, *api.Client, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}
	config.SetGlobal(cfg)

	dir, err := config.Dir()
	if err != nil {
		return nil, nil, err
	}
	tokens := auth.DefaultSource(dir)

	client := api.NewClient(cfg.Server.BaseURL, tokens,
		api.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
		api.WithMaxRetries(cfg.Server.MaxRetries),
		api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)
	return cfg, client, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errorf prints a message to stderr and returns it as an error for the
// exit code.
func errorf(format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	fmt.Fprintln(os.Stderr, "Error:", err)
	return err
}
