// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/util"
)

// stdoutSink streams tokens straight to the terminal and remembers the
// final answer for the markdown re-render.
type stdoutSink struct {
	quiet  bool
	tokens strings.Builder
	done   api.DoneEvent
	final  bool
}

func (s *stdoutSink) OnStatus(status string) {
	if !s.quiet {
		fmt.Fprintf(os.Stderr, "[%s]\n", status)
	}
}

func (s *stdoutSink) OnToken(content string) {
	s.tokens.WriteString(content)
	fmt.Print(content)
}

func (s *stdoutSink) OnDone(done api.DoneEvent) {
	s.done = done
	s.final = true
}

// answer returns the server's persisted message when it sent one, or the
// message assembled from the streamed tokens.
func (s *stdoutSink) answer() (model.Message, bool) {
	if s.done.AIMessage != nil {
		return *s.done.AIMessage, true
	}
	if text := s.tokens.String(); text != "" {
		return model.Message{Role: model.RoleAssistant, Content: text}, true
	}
	return model.Message{}, false
}

// HandleAsk sends one question and streams the answer to stdout.
func HandleAsk(args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return errorf("nothing to ask; usage: ragdesk ask --project ID \"question\"")
	}
	if args.Project == "" {
		return errorf("--project is required")
	}

	cfg, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chatID := args.Chat
	if chatID == "" {
		title := util.TruncateRunes(args.Query, 60)
		created, err := client.CreateChat(ctx, args.Project, title)
		if err != nil {
			return errorf("create chat: %v", err)
		}
		chatID = created.ID
	}

	sink := &stdoutSink{quiet: args.Quiet}
	start := time.Now()
	if err := client.StreamMessage(ctx, args.Project, chatID, cfg.Server.UserID, args.Query, sink); err != nil {
		fmt.Println()
		return errorf("%v", err)
	}
	fmt.Println()

	answer, ok := sink.answer()
	if !ok {
		return errorf("no response received")
	}

	// Streamed tokens are raw text; replay the finished answer through
	// glamour when stdout is worth decorating.
	if !args.Quiet && cfg.UI.Markdown {
		if rendered, err := renderMarkdown(answer.Content); err == nil {
			fmt.Print(rendered)
		}
	}

	if len(answer.Citations) > 0 {
		fmt.Println(formatSources(answer.Citations))
	}
	if args.Verbose {
		fmt.Fprintf(os.Stderr, "answered in %s (chat %s)\n", time.Since(start).Round(time.Millisecond), chatID)
	}
	return nil
}

func renderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

func formatSources(cites []model.Citation) string {
	parts := make([]string, 0, len(cites))
	for _, c := range cites {
		if c.Page > 0 {
			parts = append(parts, fmt.Sprintf("%s p.%d", c.Filename, c.Page))
		} else {
			parts = append(parts, c.Filename)
		}
	}
	return "Sources: " + strings.Join(parts, ", ")
}
