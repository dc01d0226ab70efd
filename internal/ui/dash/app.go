// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/chat"
	"github.com/nextgensoft/ragdesk/internal/config"
	"github.com/nextgensoft/ragdesk/internal/model"
	chatui "github.com/nextgensoft/ragdesk/internal/ui/chat"
	"github.com/nextgensoft/ragdesk/internal/ui/styles"
)

// App is the root model: it owns the screen stack and routes navigation
// messages between the project list, the detail screen, and open chats.
type App struct {
	theme  *styles.Theme
	client *api.Client
	cache  chat.Cache
	ctx    context.Context
	cfg    *config.Config

	projects *ProjectList
	detail   *ProjectDetail
	chat     *chatui.Model

	width  int
	height int
}

// AppOption configures the app.
type AppOption func(*App)

// WithConversationCache enables offline conversation fallback.
func WithConversationCache(c chat.Cache) AppOption {
	return func(a *App) { a.cache = c }
}

// NewApp builds the dashboard rooted at the project list.
func NewApp(ctx context.Context, client *api.Client, cfg *config.Config, opts ...AppOption) *App {
	theme := styles.New(cfg.UI.Theme)
	a := &App{
		theme:  theme,
		client: client,
		ctx:    ctx,
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.projects = NewProjectList(ctx, client, theme)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.projects.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every screen tracks the size so switches render correctly.
		a.projects.Update(msg)
		if a.detail != nil {
			a.detail.Update(msg)
		}
		if a.chat != nil {
			a.chat.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && (a.chat == nil || !a.chat.Busy()) {
			return a, tea.Quit
		}

	case OpenProjectMsg:
		a.detail = NewProjectDetail(a.ctx, a.client, msg.Project, a.theme)
		a.detail.codeStyle = a.cfg.UI.CodeStyle
		cmds := []tea.Cmd{a.detail.Init()}
		if a.width > 0 {
			a.detail.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, tea.Batch(cmds...)

	case CloseProjectMsg:
		a.detail = nil
		return a, loadProjectsCmd(a.ctx, a.client)

	case OpenChatMsg:
		return a, a.openChat(msg.Chat)

	case chatui.BackMsg:
		a.chat = nil
		if a.detail != nil {
			return a, loadChatsCmd(a.ctx, a.client, a.detail.project.ID)
		}
		return a, nil
	}

	return a, a.routeToActive(msg)
}

// routeToActive forwards a message to the top screen only.
func (a *App) routeToActive(msg tea.Msg) tea.Cmd {
	switch {
	case a.chat != nil:
		_, cmd := a.chat.Update(msg)
		return cmd
	case a.detail != nil:
		_, cmd := a.detail.Update(msg)
		return cmd
	default:
		_, cmd := a.projects.Update(msg)
		return cmd
	}
}

func (a *App) openChat(c model.Chat) tea.Cmd {
	opts := []chat.SessionOption{}
	if a.cache != nil {
		opts = append(opts, chat.WithCache(a.cache))
	}
	session := chat.NewSession(a.client, c.ProjectID, c.ID, a.cfg.Server.UserID, opts...)

	a.chat = chatui.New(a.ctx, a.client, session, a.theme,
		chatui.WithTimestamps(a.cfg.UI.ShowTimestamps),
	)
	cmds := []tea.Cmd{a.chat.Init()}
	if a.width > 0 {
		a.chat.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	switch {
	case a.chat != nil:
		return a.chat.View()
	case a.detail != nil:
		return a.detail.View()
	default:
		return a.projects.View()
	}
}
