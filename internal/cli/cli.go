// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdAsk
	CmdChat
	CmdProjects
	CmdDocs
	CmdConfig
	CmdCache
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Server  string

	// Command-specific
	Query      string
	Project    string
	Chat       string
	File       string
	URL        string
	ConfigKey  string
	ConfigVal  string
	Subcommand string
	Format     string
	Output     string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `ragdesk - terminal client for the ragdesk document-chat service

Ask questions against your own document collections from the terminal,
manage projects and their knowledge bases, and tune retrieval settings.

Usage:
  ragdesk                         Start the dashboard TUI (default)
  ragdesk login                   Store an API token in the local keystore
  ragdesk logout                  Remove the stored token
  ragdesk status                  Check server health and sign-in state
  ragdesk ask "question"          Ask a one-shot question
    --project ID                  Project to search (required)
    --chat ID                     Continue an existing chat instead of a new one
  ragdesk chat                    Interactive chat REPL
    --project ID                  Project to chat in (required)
    --chat ID                     Resume an existing chat
  ragdesk projects [subcommand]   Project management
    list                          List projects (default)
    create NAME [DESCRIPTION]     Create a project
    delete ID                     Delete a project
  ragdesk docs [subcommand]       Document management
    list --project ID             List documents
    upload --project ID FILE      Upload a file
    add-url --project ID URL      Ingest a web page
    delete --project ID DOC_ID    Delete a document
    chunks --project ID DOC_ID    Show a document's chunks
  ragdesk export --chat ID        Export a conversation transcript
    --format markdown|json        Output format (default: markdown)
    --output DIR                  Output directory (default: .)
  ragdesk config [show|set|path]  Configuration
  ragdesk cache [stats|clear|prune] Offline conversation cache
  ragdesk version                 Print version
  ragdesk help                    Show this help

Global Flags:
  --server URL    Override the configured server URL
  --json          Machine-readable output where supported
  -q, --quiet     Minimal output
  -v, --verbose   Debug output to stderr

Environment:
  RAGDESK_TOKEN       API token (overrides the keystore)
  RAGDESK_SERVER_URL  Server URL (overrides the config file)
`

// Parse reads os.Args and returns the command to run.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui", "dash":
		return CmdTUI, args

	case "login":
		return CmdLogin, args

	case "logout":
		return CmdLogout, args

	case "status", "s":
		return CmdStatus, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		parseChatArgs(&args, remaining)
		return CmdChat, args

	case "projects", "project", "p":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
			args.Raw = remaining[1:]
		}
		return CmdProjects, args

	case "docs", "documents", "doc":
		parseDocsArgs(&args, remaining)
		return CmdDocs, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "cache":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
			args.Raw = remaining[1:]
		}
		return CmdCache, args

	case "export":
		parseExportArgs(&args, remaining)
		return CmdExport, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Bare "ragdesk some question" reads naturally as an ask.
		args.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, args
	}
}

func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--server":
			if i+1 < len(argv) {
				i++
				args.Server = argv[i]
			}
		default:
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

func parseAskArgs(args *Args, remaining []string) {
	var queryParts []string
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "-p", "--project":
			if i+1 < len(remaining) {
				i++
				args.Project = remaining[i]
			}
		case "-c", "--chat":
			if i+1 < len(remaining) {
				i++
				args.Chat = remaining[i]
			}
		default:
			queryParts = append(queryParts, remaining[i])
		}
	}
	args.Query = strings.Join(queryParts, " ")
}

func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "-p", "--project":
			if i+1 < len(remaining) {
				i++
				args.Project = remaining[i]
			}
		case "-c", "--chat":
			if i+1 < len(remaining) {
				i++
				args.Chat = remaining[i]
			}
		}
	}
}

func parseDocsArgs(args *Args, remaining []string) {
	var positional []string
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "-p", "--project":
			if i+1 < len(remaining) {
				i++
				args.Project = remaining[i]
			}
		default:
			positional = append(positional, remaining[i])
		}
	}
	if len(positional) > 0 {
		args.Subcommand = positional[0]
		positional = positional[1:]
	}
	args.Raw = positional
}

func parseExportArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "-c", "--chat":
			if i+1 < len(remaining) {
				i++
				args.Chat = remaining[i]
			}
		case "-f", "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		case "-o", "--output":
			if i+1 < len(remaining) {
				i++
				args.Output = remaining[i]
			}
		default:
			// A bare argument reads as the chat ID.
			if args.Chat == "" {
				args.Chat = remaining[i]
			}
		}
	}
}

func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = remaining[0]
	if args.Subcommand == "set" {
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// PrintUsage writes the help text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes build information to stdout.
func PrintVersion() {
	fmt.Printf("ragdesk %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
