// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nextgensoft/ragdesk/internal/util"
)

// HandleProjects runs the projects subcommands: list, create, delete.
func HandleProjects(args Args) error {
	_, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args.Subcommand {
	case "", "list", "ls":
		projects, err := client.ListProjects(ctx)
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(projects)
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%-36s  %-30s  %s\n", p.ID, util.TruncateRunes(p.Name, 30), util.TruncateRunes(p.Description, 40))
		}
		return nil

	case "create":
		if len(args.Raw) == 0 {
			return errorf("usage: ragdesk projects create NAME [DESCRIPTION]")
		}
		name := args.Raw[0]
		desc := strings.Join(args.Raw[1:], " ")
		project, err := client.CreateProject(ctx, name, desc)
		if err != nil {
			return errorf("%v", err)
		}
		if args.JSON {
			return printJSON(project)
		}
		fmt.Printf("Created project %s (%s)\n", project.Name, project.ID)
		return nil

	case "delete", "rm":
		if len(args.Raw) == 0 {
			return errorf("usage: ragdesk projects delete ID")
		}
		if err := client.DeleteProject(ctx, args.Raw[0]); err != nil {
			return errorf("%v", err)
		}
		if !args.Quiet {
			fmt.Println("Deleted.")
		}
		return nil

	default:
		return errorf("unknown projects subcommand %q", args.Subcommand)
	}
}
