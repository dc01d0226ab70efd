// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nextgensoft/ragdesk/internal/model"
)

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, "/health")
	return err
}

// ListProjects returns the caller's projects.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	raw, err := c.get(ctx, "/api/projects")
	if err != nil {
		return nil, err
	}
	return decodeAs[[]model.Project](raw)
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, projectID string) (model.Project, error) {
	raw, err := c.get(ctx, "/api/projects/"+url.PathEscape(projectID))
	if err != nil {
		return model.Project{}, err
	}
	return decodeAs[model.Project](raw)
}

// CreateProject creates a project and returns the record.
func (c *Client) CreateProject(ctx context.Context, name, description string) (model.Project, error) {
	body := map[string]string{"name": name, "description": description}
	raw, err := c.post(ctx, "/api/projects", body)
	if err != nil {
		return model.Project{}, err
	}
	return decodeAs[model.Project](raw)
}

// DeleteProject removes a project and everything under it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	_, err := c.del(ctx, "/api/projects/"+url.PathEscape(projectID))
	return err
}

// ListChats returns a project's conversations.
func (c *Client) ListChats(ctx context.Context, projectID string) ([]model.Chat, error) {
	raw, err := c.get(ctx, "/api/projects/"+url.PathEscape(projectID)+"/chats")
	if err != nil {
		return nil, err
	}
	return decodeAs[[]model.Chat](raw)
}

// CreateChat starts a conversation in a project.
func (c *Client) CreateChat(ctx context.Context, projectID, title string) (model.Chat, error) {
	body := map[string]string{"title": title, "project_id": projectID}
	raw, err := c.post(ctx, "/api/chats", body)
	if err != nil {
		return model.Chat{}, err
	}
	return decodeAs[model.Chat](raw)
}

// DeleteChat removes a conversation.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	_, err := c.del(ctx, "/api/chats/"+url.PathEscape(chatID))
	return err
}

// GetChat loads a conversation with its full message history. The result
// replaces any local view of the conversation wholesale. A payload without
// an id fails with ErrMalformedChat rather than returning an empty chat.
func (c *Client) GetChat(ctx context.Context, chatID string) (model.ChatWithMessages, error) {
	raw, err := c.get(ctx, "/api/chats/"+url.PathEscape(chatID))
	if err != nil {
		return model.ChatWithMessages{}, err
	}
	chat, err := decodeAs[model.ChatWithMessages](raw)
	if err != nil {
		return model.ChatWithMessages{}, err
	}
	if chat.ID == "" {
		return model.ChatWithMessages{}, ErrMalformedChat
	}
	return chat, nil
}

// GetSettings fetches a project's retrieval settings.
func (c *Client) GetSettings(ctx context.Context, projectID string) (model.ProjectSettings, error) {
	raw, err := c.get(ctx, "/api/projects/"+url.PathEscape(projectID)+"/settings")
	if err != nil {
		return model.ProjectSettings{}, err
	}
	return decodeAs[model.ProjectSettings](raw)
}

// UpdateSettings replaces a project's retrieval settings. Range errors are
// caught locally before the round trip.
func (c *Client) UpdateSettings(ctx context.Context, projectID string, s model.ProjectSettings) (model.ProjectSettings, error) {
	if err := s.Validate(); err != nil {
		return model.ProjectSettings{}, err
	}
	raw, err := c.put(ctx, "/api/projects/"+url.PathEscape(projectID)+"/settings", s)
	if err != nil {
		return model.ProjectSettings{}, err
	}
	return decodeAs[model.ProjectSettings](raw)
}

// ListDocuments returns a project's knowledge-base sources.
func (c *Client) ListDocuments(ctx context.Context, projectID string) ([]model.Document, error) {
	raw, err := c.get(ctx, "/api/projects/"+url.PathEscape(projectID)+"/files")
	if err != nil {
		return nil, err
	}
	return decodeAs[[]model.Document](raw)
}

// RequestUpload asks for a presigned upload slot for a file.
func (c *Client) RequestUpload(ctx context.Context, projectID, filename string, size int64, fileType string) (model.UploadTicket, error) {
	body := map[string]any{
		"filename":  filename,
		"file_size": size,
		"file_type": fileType,
	}
	raw, err := c.post(ctx, "/api/projects/"+url.PathEscape(projectID)+"/files/upload-url", body)
	if err != nil {
		return model.UploadTicket{}, err
	}
	ticket, err := decodeAs[model.UploadTicket](raw)
	if err != nil {
		return model.UploadTicket{}, err
	}
	if ticket.UploadURL == "" {
		return model.UploadTicket{}, fmt.Errorf("upload ticket missing url")
	}
	return ticket, nil
}

// ConfirmUpload tells the backend the presigned PUT finished, which queues
// ingestion.
func (c *Client) ConfirmUpload(ctx context.Context, projectID, s3Key string) (model.Document, error) {
	body := map[string]string{"s3_key": s3Key}
	raw, err := c.post(ctx, "/api/projects/"+url.PathEscape(projectID)+"/files/confirm", body)
	if err != nil {
		return model.Document{}, err
	}
	return decodeAs[model.Document](raw)
}

// AddURL links a web page into the knowledge base.
func (c *Client) AddURL(ctx context.Context, projectID, pageURL string) (model.Document, error) {
	body := map[string]string{"url": pageURL}
	raw, err := c.post(ctx, "/api/projects/"+url.PathEscape(projectID)+"/urls", body)
	if err != nil {
		return model.Document{}, err
	}
	return decodeAs[model.Document](raw)
}

// DeleteDocument removes a source and its chunks.
func (c *Client) DeleteDocument(ctx context.Context, projectID, documentID string) error {
	_, err := c.del(ctx, "/api/projects/"+url.PathEscape(projectID)+"/files/"+url.PathEscape(documentID))
	return err
}

// ListChunks returns the passages extracted from a document.
func (c *Client) ListChunks(ctx context.Context, projectID, documentID string) ([]model.Chunk, error) {
	raw, err := c.get(ctx, "/api/projects/"+url.PathEscape(projectID)+"/files/"+url.PathEscape(documentID)+"/chunks")
	if err != nil {
		return nil, err
	}
	return decodeAs[[]model.Chunk](raw)
}

// SendFeedback records a rating on an assistant message.
func (c *Client) SendFeedback(ctx context.Context, fb model.Feedback) error {
	_, err := c.post(ctx, "/api/feedback", fb)
	return err
}
