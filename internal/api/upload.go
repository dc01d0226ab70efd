// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nextgensoft/ragdesk/internal/model"
)

// Upload saga steps, reported through the progress callback and named in
// errors so the user knows how far the upload got.
const (
	UploadStepRequest = "request"
	UploadStepPut     = "put"
	UploadStepConfirm = "confirm"
)

// UploadProgress is called as each saga step starts.
type UploadProgress func(step string)

// UploadError wraps a saga failure with the step that failed. There is no
// rollback: the server garbage-collects unconfirmed uploads.
type UploadError struct {
	Step string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed at %s step: %v", e.Step, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// UploadDocument runs the three-step upload saga: request a presigned URL,
// PUT the raw bytes, confirm. Returns the ingested document record.
func (c *Client) UploadDocument(ctx context.Context, projectID, filename string, size int64, contentType string, r io.Reader, progress UploadProgress) (model.Document, error) {
	report := func(step string) {
		if progress != nil {
			progress(step)
		}
	}

	report(UploadStepRequest)
	ticket, err := c.RequestUpload(ctx, projectID, filename, size, contentType)
	if err != nil {
		return model.Document{}, &UploadError{Step: UploadStepRequest, Err: err}
	}

	report(UploadStepPut)
	if err := c.PutRaw(ctx, ticket.UploadURL, contentType, size, r); err != nil {
		return model.Document{}, &UploadError{Step: UploadStepPut, Err: err}
	}

	report(UploadStepConfirm)
	doc, err := c.ConfirmUpload(ctx, projectID, ticket.S3Key)
	if err != nil {
		return model.Document{}, &UploadError{Step: UploadStepConfirm, Err: err}
	}
	return doc, nil
}

// UploadFile is UploadDocument for a local path, inferring size and
// content type from the file.
func (c *Client) UploadFile(ctx context.Context, projectID, path string, progress UploadProgress) (model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return model.Document{}, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.UploadDocument(ctx, projectID, filepath.Base(path), info.Size(), contentType, f, progress)
}

// PutRaw sends bytes to a presigned object-storage URL. This bypasses the
// backend entirely: no bearer token, no JSON handling, just the body with
// its content type. Failures use the same *APIError surface as API calls.
func (c *Client) PutRaw(ctx context.Context, rawURL, contentType string, size int64, r io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawURL, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: "object storage rejected upload"}
	}
	return nil
}
