// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
)

// ProjectsLoadedMsg carries the project list or the error that replaced it.
type ProjectsLoadedMsg struct {
	Projects []model.Project
	Err      error
}

// ProjectCreatedMsg reports a finished project create.
type ProjectCreatedMsg struct {
	Project model.Project
	Err     error
}

// ProjectDeletedMsg reports a finished project delete.
type ProjectDeletedMsg struct {
	ProjectID string
	Err       error
}

// ChatsLoadedMsg carries a project's chat list.
type ChatsLoadedMsg struct {
	Chats []model.Chat
	Err   error
}

// ChatCreatedMsg reports a finished chat create.
type ChatCreatedMsg struct {
	Chat model.Chat
	Err  error
}

// ChatDeletedMsg reports a finished chat delete.
type ChatDeletedMsg struct {
	ChatID string
	Err    error
}

// DocumentsLoadedMsg carries a project's document list.
type DocumentsLoadedMsg struct {
	Documents []model.Document
	Err       error
}

// DocumentAddedMsg reports a finished upload or URL ingest.
type DocumentAddedMsg struct {
	Document model.Document
	Err      error
}

// DocumentDeletedMsg reports a finished document delete.
type DocumentDeletedMsg struct {
	DocumentID string
	Err        error
}

// ChunksLoadedMsg carries a document's chunks for the inspector.
type ChunksLoadedMsg struct {
	Document model.Document
	Chunks   []model.Chunk
	Err      error
}

// SettingsLoadedMsg carries a project's retrieval settings.
type SettingsLoadedMsg struct {
	Settings model.ProjectSettings
	Err      error
}

// SettingsSavedMsg reports a finished settings update.
type SettingsSavedMsg struct {
	Settings model.ProjectSettings
	Err      error
}

func loadProjectsCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		projects, err := client.ListProjects(ctx)
		return ProjectsLoadedMsg{Projects: projects, Err: err}
	}
}

func createProjectCmd(ctx context.Context, client *api.Client, name, description string) tea.Cmd {
	return func() tea.Msg {
		project, err := client.CreateProject(ctx, name, description)
		return ProjectCreatedMsg{Project: project, Err: err}
	}
}

func deleteProjectCmd(ctx context.Context, client *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		return ProjectDeletedMsg{ProjectID: projectID, Err: client.DeleteProject(ctx, projectID)}
	}
}

func loadChatsCmd(ctx context.Context, client *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		chats, err := client.ListChats(ctx, projectID)
		return ChatsLoadedMsg{Chats: chats, Err: err}
	}
}

func createChatCmd(ctx context.Context, client *api.Client, projectID, title string) tea.Cmd {
	return func() tea.Msg {
		chat, err := client.CreateChat(ctx, projectID, title)
		return ChatCreatedMsg{Chat: chat, Err: err}
	}
}

func deleteChatCmd(ctx context.Context, client *api.Client, chatID string) tea.Cmd {
	return func() tea.Msg {
		return ChatDeletedMsg{ChatID: chatID, Err: client.DeleteChat(ctx, chatID)}
	}
}

func loadDocumentsCmd(ctx context.Context, client *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		docs, err := client.ListDocuments(ctx, projectID)
		return DocumentsLoadedMsg{Documents: docs, Err: err}
	}
}

func uploadFileCmd(ctx context.Context, client *api.Client, projectID, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := client.UploadFile(ctx, projectID, path, nil)
		return DocumentAddedMsg{Document: doc, Err: err}
	}
}

func addURLCmd(ctx context.Context, client *api.Client, projectID, pageURL string) tea.Cmd {
	return func() tea.Msg {
		doc, err := client.AddURL(ctx, projectID, pageURL)
		return DocumentAddedMsg{Document: doc, Err: err}
	}
}

func deleteDocumentCmd(ctx context.Context, client *api.Client, projectID, documentID string) tea.Cmd {
	return func() tea.Msg {
		return DocumentDeletedMsg{DocumentID: documentID, Err: client.DeleteDocument(ctx, projectID, documentID)}
	}
}

func loadChunksCmd(ctx context.Context, client *api.Client, projectID string, doc model.Document) tea.Cmd {
	return func() tea.Msg {
		chunks, err := client.ListChunks(ctx, projectID, doc.ID)
		return ChunksLoadedMsg{Document: doc, Chunks: chunks, Err: err}
	}
}

func loadSettingsCmd(ctx context.Context, client *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		settings, err := client.GetSettings(ctx, projectID)
		return SettingsLoadedMsg{Settings: settings, Err: err}
	}
}

func saveSettingsCmd(ctx context.Context, client *api.Client, projectID string, s model.ProjectSettings) tea.Cmd {
	return func() tea.Msg {
		saved, err := client.UpdateSettings(ctx, projectID, s)
		return SettingsSavedMsg{Settings: saved, Err: err}
	}
}
