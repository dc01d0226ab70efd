// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Document processing states reported by the backend while a source works
// its way through the ingestion pipeline.
const (
	ProcessingPending   = "pending"
	ProcessingUploaded  = "uploaded"
	ProcessingChunking  = "processing"
	ProcessingCompleted = "completed"
	ProcessingFailed    = "failed"
)

// Document is one knowledge-base source: an uploaded file or a linked URL.
type Document struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id,omitempty"`
	Filename         string    `json:"filename"`
	FileSize         int64     `json:"file_size,omitempty"`
	FileType         string    `json:"file_type,omitempty"`
	S3Key            string    `json:"s3_key,omitempty"`
	SourceURL        string    `json:"source_url,omitempty"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        Timestamp `json:"created_at,omitzero"`
}

// Chunk is one retrievable passage extracted from a document.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id,omitempty"`
	Index      int    `json:"chunk_index"`
	Content    string `json:"content"`
	Page       int    `json:"page,omitempty"`
}

// UploadTicket is the backend's answer to an upload request: a presigned
// URL to PUT the bytes to, the provisional document record, and the storage
// key to confirm with once the PUT succeeds.
type UploadTicket struct {
	UploadURL string   `json:"upload_url"`
	Document  Document `json:"document"`
	S3Key     string   `json:"s3_key"`
}
