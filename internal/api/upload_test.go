// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDocumentSaga(t *testing.T) {
	var steps []string
	var putBody string

	mux := http.NewServeMux()
	var baseURL string
	mux.HandleFunc("POST /api/projects/p1/files/upload-url", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "upload-url")
		io.WriteString(w, `{"data": {"upload_url": "`+baseURL+`/bucket/key1", "s3_key": "key1", "document": {"id": "d1", "filename": "lease.pdf", "processing_status": "pending"}}}`)
	})
	mux.HandleFunc("PUT /bucket/key1", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "put")
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		// Presigned PUT carries no bearer token.
		assert.Empty(t, r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		putBody = string(data)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/projects/p1/files/confirm", func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, "confirm")
		io.WriteString(w, `{"data": {"id": "d1", "filename": "lease.pdf", "processing_status": "uploaded"}}`)
	})

	c, srv := newTestClient(t, mux)
	baseURL = srv.URL

	var reported []string
	doc, err := c.UploadDocument(context.Background(), "p1", "lease.pdf", 9, "application/pdf",
		strings.NewReader("%PDF-1.7\n"), func(step string) { reported = append(reported, step) })
	require.NoError(t, err)

	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, []string{"upload-url", "put", "confirm"}, steps)
	assert.Equal(t, []string{UploadStepRequest, UploadStepPut, UploadStepConfirm}, reported)
	assert.Equal(t, "%PDF-1.7\n", putBody)
}

func TestUploadDocumentPutFailureNamesStep(t *testing.T) {
	mux := http.NewServeMux()
	var baseURL string
	mux.HandleFunc("POST /api/projects/p1/files/upload-url", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": {"upload_url": "`+baseURL+`/bucket/key1", "s3_key": "key1", "document": {"id": "d1"}}}`)
	})
	mux.HandleFunc("PUT /bucket/key1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	confirmed := false
	mux.HandleFunc("POST /api/projects/p1/files/confirm", func(w http.ResponseWriter, r *http.Request) {
		confirmed = true
	})

	c, srv := newTestClient(t, mux)
	baseURL = srv.URL

	_, err := c.UploadDocument(context.Background(), "p1", "lease.pdf", 3, "application/pdf",
		strings.NewReader("abc"), nil)

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, UploadStepPut, uerr.Step)
	// No compensation and no confirm after a failed PUT.
	assert.False(t, confirmed)
}

func TestUploadDocumentRequestFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		io.WriteString(w, `{"detail": "file too large"}`)
	}))

	_, err := c.UploadDocument(context.Background(), "p1", "huge.bin", 1<<40, "application/octet-stream",
		strings.NewReader(""), nil)

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, UploadStepRequest, uerr.Step)
	assert.Contains(t, err.Error(), "file too large")
}

func TestAddURL(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/p1/urls", r.URL.Path)
		io.WriteString(w, `{"data": {"id": "d3", "filename": "https://example.com/faq", "source_url": "https://example.com/faq", "processing_status": "pending"}}`)
	}))

	doc, err := c.AddURL(context.Background(), "p1", "https://example.com/faq")
	require.NoError(t, err)
	assert.Equal(t, "d3", doc.ID)
}
