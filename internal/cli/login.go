// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/nextgensoft/ragdesk/internal/auth"
	"github.com/nextgensoft/ragdesk/internal/config"
)

// HandleLogin reads an API token without echo and stores it encrypted in
// the local keystore, then verifies it against the server.
func HandleLogin(args Args) error {
	dir, err := config.Dir()
	if err != nil {
		return errorf("%v", err)
	}

	fmt.Print("API token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return errorf("read token: %v", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return errorf("no token entered")
	}

	keystore := auth.NewKeystore(dir)
	if err := keystore.Save(token); err != nil {
		return errorf("store token: %v", err)
	}

	// Verify the token actually works before declaring success.
	cfg, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Token stored, but %s is not reachable: %v\n", cfg.Server.BaseURL, err)
		return nil
	}

	if !args.Quiet {
		fmt.Println("Signed in.")
	}
	return nil
}

// HandleLogout removes the stored token.
func HandleLogout(args Args) error {
	dir, err := config.Dir()
	if err != nil {
		return errorf("%v", err)
	}
	if err := auth.NewKeystore(dir).Delete(); err != nil {
		return errorf("remove token: %v", err)
	}
	if !args.Quiet {
		fmt.Println("Signed out.")
	}
	return nil
}
