// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/util"
)

// HandleDocs runs the document subcommands: list, upload, add-url,
// delete, chunks.
func HandleDocs(args Args) error {
	if args.Project == "" {
		return errorf("--project is required")
	}

	_, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}

	// Uploads of large files can take a while; everything else is quick.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	switch args.Subcommand {
	case "", "list", "ls":
		docs, err := client.ListDocuments(ctx, args.Project)
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(docs)
		}
		if len(docs) == 0 {
			fmt.Println("No documents.")
			return nil
		}
		for _, d := range docs {
			size := ""
			if d.FileSize > 0 {
				size = humanize.Bytes(uint64(d.FileSize))
			}
			fmt.Printf("%-36s  %-40s  %8s  %s\n", d.ID, util.TruncateRunes(d.Filename, 40), size, d.ProcessingStatus)
		}
		return nil

	case "upload", "up":
		if len(args.Raw) == 0 {
			return errorf("usage: ragdesk docs upload --project ID FILE")
		}
		path := args.Raw[0]
		var progress api.UploadProgress
		if !args.Quiet {
			progress = func(step string) {
				fmt.Fprintf(os.Stderr, "%s...\n", step)
			}
		}
		doc, err := client.UploadFile(ctx, args.Project, path, progress)
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(doc)
		}
		fmt.Printf("Uploaded %s (%s); processing has started.\n", doc.Filename, doc.ID)
		return nil

	case "add-url", "url":
		if len(args.Raw) == 0 {
			return errorf("usage: ragdesk docs add-url --project ID URL")
		}
		doc, err := client.AddURL(ctx, args.Project, args.Raw[0])
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(doc)
		}
		fmt.Printf("Added %s (%s); processing has started.\n", doc.Filename, doc.ID)
		return nil

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return errorf("usage: ragdesk docs delete --project ID DOC_ID")
		}
		if err := client.DeleteDocument(ctx, args.Project, args.Raw[0]); err != nil {
			return errorf("%v", err)
		}
		if !args.Quiet {
			fmt.Println("Deleted.")
		}
		return nil

	case "chunks":
		if len(args.Raw) == 0 {
			return errorf("usage: ragdesk docs chunks --project ID DOC_ID")
		}
		chunks, err := client.ListChunks(ctx, args.Project, args.Raw[0])
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(chunks)
		}
		if len(chunks) == 0 {
			fmt.Println("No chunks yet; the document may still be processing.")
			return nil
		}
		for _, c := range chunks {
			header := fmt.Sprintf("--- chunk %d", c.Index)
			if c.Page > 0 {
				header += fmt.Sprintf(" (page %d)", c.Page)
			}
			fmt.Println(header)
			fmt.Println(c.Content)
		}
		return nil

	default:
		return errorf("unknown docs subcommand %q", args.Subcommand)
	}
}
