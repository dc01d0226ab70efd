// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/nextgensoft/ragdesk/internal/config"
	"github.com/nextgensoft/ragdesk/internal/storage"
)

// HandleCache runs the offline cache subcommands: stats, clear, prune.
func HandleCache(args Args) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return errorf("%v", err)
	}
	path, err := cfg.CachePath()
	if err != nil {
		return errorf("%v", err)
	}

	switch args.Subcommand {
	case "", "stats":
		cache, err := storage.Open(path)
		if err != nil {
			return errorf("open cache: %v", err)
		}
		defer cache.Close()

		chats, err := cache.ListConversations("")
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(struct {
				Path          string `json:"path"`
				Conversations int    `json:"conversations"`
			}{path, len(chats)})
		}
		fmt.Printf("Cache:         %s\n", path)
		fmt.Printf("Conversations: %d\n", len(chats))
		return nil

	case "clear":
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errorf("clear cache: %v", err)
		}
		if !args.Quiet {
			fmt.Println("Cache cleared.")
		}
		return nil

	case "prune":
		cache, err := storage.Open(path)
		if err != nil {
			return errorf("open cache: %v", err)
		}
		defer cache.Close()

		removed, err := cache.Prune(30 * 24 * time.Hour)
		if err != nil {
			return errorf("%v", err)
		}
		if !args.Quiet {
			fmt.Printf("Pruned %d conversations older than 30 days.\n", removed)
		}
		return nil

	default:
		return errorf("unknown cache subcommand %q", args.Subcommand)
	}
}
