// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Feedback ratings.
const (
	RatingPositive = "positive"
	RatingNegative = "negative"
)

// Feedback is a user's verdict on one assistant message.
type Feedback struct {
	MessageID string `json:"message_id"`
	Rating    string `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Category  string `json:"category,omitempty"`
}
