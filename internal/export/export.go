// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to files. Markdown keeps
// citations and timestamps readable; JSON keeps the full records for
// downstream tooling.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/util"
)

// Exporter converts a conversation to one output format.
type Exporter interface {
	Export(chat model.ChatWithMessages) ([]byte, error)
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files land; default is the working directory.
	OutputDir string

	// IncludeMetadata adds the title/date/count header.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message times.
	IncludeTimestamps bool
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch format {
	case "", "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (markdown, json)", format)
	}
}

// ToFile exports a conversation and returns the written path. Optimistic
// placeholders never appear in exports; they are client-side state.
func ToFile(chat model.ChatWithMessages, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	chat.Messages = dropOptimistic(chat.Messages)
	content, err := exporter.Export(chat)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	filename := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(chat.Title),
		time.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFileWithDir(outputPath, content, 0o644, 0o755); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return outputPath, nil
}

func dropOptimistic(msgs []model.Message) []model.Message {
	kept := make([]model.Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.IsOptimistic() {
			kept = append(kept, m)
		}
	}
	return kept
}

// sanitizeFilename replaces characters that are invalid in filenames on
// either Windows or Unix.
func sanitizeFilename(s string) string {
	s = util.TruncateRunes(s, 50)

	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return "untitled"
	}
	return string(result)
}
