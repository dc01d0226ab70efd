// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/auth"
)

// HandleStatus reports server reachability, sign-in state, and the
// project count.
func HandleStatus(args Args) error {
	cfg, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := struct {
		Server    string `json:"server"`
		Reachable bool   `json:"reachable"`
		SignedIn  bool   `json:"signed_in"`
		Projects  int    `json:"projects,omitempty"`
		Error     string `json:"error,omitempty"`
	}{Server: cfg.Server.BaseURL}

	if err := client.Health(ctx); err != nil {
		status.Error = err.Error()
	} else {
		status.Reachable = true
	}

	if status.Reachable {
		projects, err := client.ListProjects(ctx)
		switch {
		case err == nil:
			status.SignedIn = true
			status.Projects = len(projects)
		case errors.Is(err, auth.ErrNotAuthenticated), errors.Is(err, api.ErrAuthFailed):
			// No token, or the server rejected it.
		default:
			status.Error = err.Error()
		}
	}

	if args.JSON {
		return printJSON(status)
	}

	fmt.Printf("Server:    %s\n", status.Server)
	if status.Reachable {
		fmt.Println("Health:    ok")
	} else {
		fmt.Printf("Health:    unreachable (%s)\n", status.Error)
	}
	if status.SignedIn {
		fmt.Printf("Signed in: yes (%d projects)\n", status.Projects)
	} else {
		fmt.Println("Signed in: no (run 'ragdesk login')")
	}
	return nil
}
