// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/nextgensoft/ragdesk/internal/export"
)

// HandleExport writes a conversation transcript to a file.
func HandleExport(args Args) error {
	if args.Chat == "" {
		return errorf("usage: ragdesk export --chat ID [--format markdown|json] [--output DIR]")
	}

	_, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	chat, err := client.GetChat(ctx, args.Chat)
	if err != nil {
		return errorf("%v", err)
	}

	opts := export.DefaultOptions()
	if args.Output != "" {
		opts.OutputDir = args.Output
	}
	exporter, err := export.ForFormat(args.Format, opts)
	if err != nil {
		return errorf("%v", err)
	}

	path, err := export.ToFile(chat, exporter, opts)
	if err != nil {
		return errorf("%v", err)
	}
	if !args.Quiet {
		fmt.Println("Wrote", path)
	}
	return nil
}
