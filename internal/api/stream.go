// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nextgensoft/ragdesk/internal/model"
)

// Stream event names emitted by the backend.
const (
	eventStatus = "status"
	eventToken  = "token"
	eventDone   = "done"
	eventError  = "error"
)

// DoneEvent is the terminal payload of a successful stream. Either message
// may be absent: the backend persists asynchronously and sometimes omits
// one or both records.
type DoneEvent struct {
	UserMessage *model.Message `json:"userMessage"`
	AIMessage   *model.Message `json:"aiMessage"`
}

// StreamSink receives decoded stream events in arrival order. Calls happen
// from the goroutine running the decode loop; implementations synchronize
// their own state.
type StreamSink interface {
	// OnStatus reports a retrieval-phase change ("searching", "generating").
	OnStatus(status string)
	// OnToken delivers one answer fragment.
	OnToken(content string)
	// OnDone delivers the terminal event.
	OnDone(done DoneEvent)
}

// EventDecoder parses a text/event-stream body into StreamSink calls.
//
// The decoder is chunk-agnostic: bytes may arrive split at any boundary,
// including mid-line and mid-rune, and the decoded event sequence is the
// same. A trailing line without a newline is carried until more bytes
// arrive and processed at end of stream.
type EventDecoder struct {
	sink   StreamSink
	logger *slog.Logger

	carry string
	event string
	done  bool
}

// NewEventDecoder builds a decoder feeding sink.
func NewEventDecoder(sink StreamSink, logger *slog.Logger) *EventDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventDecoder{sink: sink, logger: logger}
}

// Decode consumes r until EOF, an error event, or a read failure. A server
// error event aborts immediately with *StreamError; events decoded before
// the failure have already reached the sink.
func (d *EventDecoder) Decode(r io.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if derr := d.Feed(string(buf[:n])); derr != nil {
				return derr
			}
		}
		if err == io.EOF {
			return d.Close()
		}
		if err != nil {
			return &APIError{Status: 0, Message: err.Error()}
		}
	}
}

// Feed processes one chunk of the stream.
func (d *EventDecoder) Feed(chunk string) error {
	d.carry += chunk
	for {
		idx := strings.IndexByte(d.carry, '\n')
		if idx < 0 {
			return nil
		}
		line := d.carry[:idx]
		d.carry = d.carry[idx+1:]
		if err := d.processLine(line); err != nil {
			return err
		}
	}
}

// Close flushes a final unterminated line.
func (d *EventDecoder) Close() error {
	if d.carry == "" {
		return nil
	}
	line := d.carry
	d.carry = ""
	return d.processLine(line)
}

func (d *EventDecoder) processLine(line string) error {
	line = strings.TrimSuffix(line, "\r")

	// A blank line terminates the current event block.
	if line == "" {
		d.event = ""
		return nil
	}

	if name, ok := strings.CutPrefix(line, "event:"); ok {
		d.event = strings.TrimSpace(name)
		return nil
	}

	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		// Comments and unknown fields are ignored per the SSE format.
		return nil
	}
	return d.dispatch(d.event, strings.TrimSpace(payload))
}

// dispatch decodes one data payload for the current event. A payload that
// fails to parse is logged and skipped; one bad event must not kill the
// stream.
func (d *EventDecoder) dispatch(event, payload string) error {
	switch event {
	case eventStatus:
		var ev struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			d.logger.Warn("skipping malformed status event", "error", err)
			return nil
		}
		d.sink.OnStatus(ev.Status)

	case eventToken:
		var ev struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			d.logger.Warn("skipping malformed token event", "error", err)
			return nil
		}
		d.sink.OnToken(ev.Content)

	case eventDone:
		var ev DoneEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			d.logger.Warn("skipping malformed done event", "error", err)
			return nil
		}
		d.done = true
		d.sink.OnDone(ev)

	case eventError:
		var ev struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			d.logger.Warn("skipping malformed error event", "error", err)
			return nil
		}
		return &StreamError{Message: ev.Message}

	default:
		d.logger.Debug("ignoring unknown stream event", "event", event)
	}
	return nil
}

// Completed reports whether a done event was decoded.
func (d *EventDecoder) Completed() bool {
	return d.done
}

// StreamMessage sends a user message and decodes the server's event stream
// into sink. The outbound content is NFC-normalized. Cancelling ctx closes
// the response body and ends the decode loop.
//
// A non-2xx initial response fails with *APIError before any event is
// decoded; in particular a 401 never reaches the sink.
func (c *Client) StreamMessage(ctx context.Context, projectID, chatID, userID, content string, sink StreamSink) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"content": norm.NFC.String(content)})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/api/projects/" + url.PathEscape(projectID) +
		"/chats/" + url.PathEscape(chatID) + "/messages/stream"
	if userID != "" {
		endpoint += "?clerk_id=" + url.QueryEscape(userID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	return NewEventDecoder(sink, c.logger).Decode(resp.Body)
}
