// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/nextgensoft/ragdesk/internal/config"
)

// HandleConfig runs the config subcommands: show, set, path.
func HandleConfig(args Args) error {
	path, err := config.Path()
	if err != nil {
		return errorf("%v", err)
	}

	switch args.Subcommand {
	case "", "show":
		cfg, err := config.Load(path)
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(cfg)
		}
		fmt.Printf("server.url          %s\n", cfg.Server.BaseURL)
		fmt.Printf("server.user_id      %s\n", cfg.Server.UserID)
		fmt.Printf("server.timeout      %ds\n", cfg.Server.TimeoutSeconds)
		fmt.Printf("server.max_retries  %d\n", cfg.Server.MaxRetries)
		fmt.Printf("ui.theme            %s\n", cfg.UI.Theme)
		fmt.Printf("ui.markdown         %t\n", cfg.UI.Markdown)
		fmt.Printf("ui.code_style       %s\n", cfg.UI.CodeStyle)
		fmt.Printf("logging.level       %s\n", cfg.Logging.Level)
		fmt.Printf("cache.enabled       %t\n", cfg.Cache.Enabled)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return errorf("usage: ragdesk config set KEY VALUE")
		}
		cfg, err := config.Load(path)
		if err != nil {
			return errorf("%v", err)
		}
		if err := applyConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
			return errorf("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			return errorf("%v", err)
		}
		if err := cfg.Save(path); err != nil {
			return errorf("%v", err)
		}
		if !args.Quiet {
			fmt.Printf("Set %s = %s\n", args.ConfigKey, args.ConfigVal)
		}
		return nil

	case "path":
		fmt.Println(path)
		return nil

	default:
		return errorf("unknown config subcommand %q", args.Subcommand)
	}
}

// applyConfigKey maps dotted keys to config fields. Only the commonly
// tweaked ones are settable from the CLI; the rest take a text editor.
func applyConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "server.url":
		cfg.Server.BaseURL = value
	case "server.user_id":
		cfg.Server.UserID = value
	case "server.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number of seconds", key)
		}
		cfg.Server.TimeoutSeconds = n
	case "server.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a whole number", key)
		}
		cfg.Server.MaxRetries = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		cfg.UI.Markdown = b
	case "ui.code_style":
		cfg.UI.CodeStyle = value
	case "ui.timestamps":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		cfg.UI.ShowTimestamps = b
	case "logging.level":
		cfg.Logging.Level = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		cfg.Cache.Enabled = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
