// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// ProjectSettings controls retrieval behavior for one project. All fields
// are interpreted server-side; the client validates ranges before PUT so
// obvious mistakes fail locally with a readable message.
type ProjectSettings struct {
	ProjectID           string  `json:"project_id,omitempty"`
	EmbeddingModel      string  `json:"embedding_model"`
	RAGStrategy         string  `json:"rag_strategy"`
	AgentType           string  `json:"agent_type"`
	ChunksPerSearch     int     `json:"chunks_per_search"`
	FinalContextSize    int     `json:"final_context_size"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	NumberOfQueries     int     `json:"number_of_queries"`
	RerankingEnabled    bool    `json:"reranking_enabled"`
	RerankingModel      string  `json:"reranking_model,omitempty"`
	VectorWeight        float64 `json:"vector_weight"`
	KeywordWeight       float64 `json:"keyword_weight"`
}

// Validate checks ranges the backend would reject anyway, so the failure
// surfaces before the round trip.
func (s ProjectSettings) Validate() error {
	if s.ChunksPerSearch < 1 || s.ChunksPerSearch > 100 {
		return fmt.Errorf("chunks_per_search must be between 1 and 100, got %d", s.ChunksPerSearch)
	}
	if s.FinalContextSize < 1 || s.FinalContextSize > 100 {
		return fmt.Errorf("final_context_size must be between 1 and 100, got %d", s.FinalContextSize)
	}
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be between 0 and 1, got %g", s.SimilarityThreshold)
	}
	if s.NumberOfQueries < 1 || s.NumberOfQueries > 10 {
		return fmt.Errorf("number_of_queries must be between 1 and 10, got %d", s.NumberOfQueries)
	}
	if s.VectorWeight < 0 || s.VectorWeight > 1 {
		return fmt.Errorf("vector_weight must be between 0 and 1, got %g", s.VectorWeight)
	}
	if s.KeywordWeight < 0 || s.KeywordWeight > 1 {
		return fmt.Errorf("keyword_weight must be between 0 and 1, got %g", s.KeywordWeight)
	}
	return nil
}
