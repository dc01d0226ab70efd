// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/chat"
	"github.com/nextgensoft/ragdesk/internal/config"
	"github.com/nextgensoft/ragdesk/internal/export"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/storage"
)

const replHelp = `Commands:
  /history        Show the conversation so far
  /sources        Show citations from the last answer
  /export [fmt]   Write the transcript to a file (markdown or json)
  /help, /h       Show this help
  /quit, /q       Exit (Ctrl+D also works)
`

// HandleChat runs the interactive REPL against one conversation.
func HandleChat(args Args) error {
	if args.Project == "" {
		return errorf("--project is required")
	}

	cfg, client, err := setup(args)
	if err != nil {
		return errorf("%v", err)
	}

	ctx := context.Background()

	chatID := args.Chat
	if chatID == "" {
		created, err := client.CreateChat(ctx, args.Project, "Terminal chat")
		if err != nil {
			return errorf("create chat: %v", err)
		}
		chatID = created.ID
	}

	opts := []chat.SessionOption{}
	if cfg.Cache.Enabled {
		if cachePath, err := cfg.CachePath(); err == nil {
			if cache, err := storage.Open(cachePath); err == nil {
				defer cache.Close()
				opts = append(opts, chat.WithCache(cache))
			}
		}
	}
	session := chat.NewSession(client, args.Project, chatID, cfg.Server.UserID, opts...)

	if err := session.Load(ctx); err != nil {
		return errorf("load chat: %v", err)
	}
	if session.FromCache() {
		fmt.Println("Offline: showing cached conversation; sends will fail until the server is back.")
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer saveReplHistory(line, historyPath)

	if !args.Quiet {
		fmt.Printf("Chatting in %s (chat %s). /help for commands, Ctrl+D to exit.\n", args.Project, chatID)
	}

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF on Ctrl+D
			fmt.Println()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runReplCommand(input, session); quit {
				return nil
			}
			continue
		}

		sink := &stdoutSink{quiet: args.Quiet}
		if _, err := session.Reconciler().Begin(input); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		if err := streamToSink(ctx, client, session, args.Project, chatID, cfg, input, sink); err != nil {
			fmt.Fprintln(os.Stderr, "\nError:", err)
			continue
		}
		fmt.Println()
		if answer, ok := sink.answer(); ok && len(answer.Citations) > 0 {
			fmt.Println(formatSources(answer.Citations))
		}
	}
}

// streamToSink streams through both the reconciler (so /history stays
// consistent) and the stdout sink.
func streamToSink(ctx context.Context, client *api.Client, session *chat.Session, projectID, chatID string, cfg *config.Config, content string, sink *stdoutSink) error {
	tee := teeSink{session.Reconciler(), sink}
	err := client.StreamMessage(ctx, projectID, chatID, cfg.Server.UserID, content, tee)
	if err == nil && session.Reconciler().Busy() {
		err = chat.ErrStreamTruncated
	}
	if err != nil {
		session.Reconciler().Fail(err)
	}
	if session.Reconciler().ConsumeReload() {
		if lerr := session.Load(ctx); lerr != nil && err == nil {
			fmt.Fprintln(os.Stderr, "Warning: refresh failed:", lerr)
		}
	}
	return err
}

// teeSink fans one event stream out to several sinks in order.
type teeSink []api.StreamSink

func (t teeSink) OnStatus(status string) {
	for _, s := range t {
		s.OnStatus(status)
	}
}

func (t teeSink) OnToken(content string) {
	for _, s := range t {
		s.OnToken(content)
	}
}

func (t teeSink) OnDone(done api.DoneEvent) {
	for _, s := range t {
		s.OnDone(done)
	}
}

func runReplCommand(input string, session *chat.Session) (quit bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h":
		fmt.Print(replHelp)
	case "/history":
		for _, msg := range session.Reconciler().Messages() {
			label := "assistant"
			if msg.Role == model.RoleUser {
				label = "you"
			}
			fmt.Printf("[%s] %s\n", label, msg.Content)
		}
	case "/export":
		format := ""
		if fields := strings.Fields(input); len(fields) > 1 {
			format = fields[1]
		}
		exporter, err := export.ForFormat(format, nil)
		if err != nil {
			fmt.Println(err)
			return false
		}
		chat := model.ChatWithMessages{
			Chat:     model.Chat{ID: session.Reconciler().ChatID(), Title: session.Title()},
			Messages: session.Reconciler().Messages(),
		}
		path, err := export.ToFile(chat, exporter, nil)
		if err != nil {
			fmt.Println("Export failed:", err)
		} else {
			fmt.Println("Wrote", path)
		}
	case "/sources":
		msgs := session.Reconciler().Messages()
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == model.RoleAssistant {
				if len(msgs[i].Citations) == 0 {
					fmt.Println("No citations on the last answer.")
				} else {
					fmt.Println(formatSources(msgs[i].Citations))
				}
				return false
			}
		}
		fmt.Println("No answers yet.")
	default:
		fmt.Println("Unknown command. /help for the list.")
	}
	return false
}

func replHistoryPath() string {
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat_history")
}

func saveReplHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
