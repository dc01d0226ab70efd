// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"

	"github.com/nextgensoft/ragdesk/internal/model"
)

// JSONExporter writes the full conversation record as indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// FileExtension implements Exporter.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// Export implements Exporter.
func (e *JSONExporter) Export(chat model.ChatWithMessages) ([]byte, error) {
	if len(chat.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}
	return json.MarshalIndent(chat, "", "  ")
}
