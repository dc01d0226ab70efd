// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
)

// State is the send lifecycle.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSendInFlight rejects a second send while one is still running. The
// input surface stays disabled until the current send reaches a terminal
// state.
var ErrSendInFlight = errors.New("a send is already in flight")

// ErrEmptyMessage rejects whitespace-only sends.
var ErrEmptyMessage = errors.New("message is empty")

// Reconciler owns the message list of one open conversation. Safe for
// concurrent use: stream events arrive from the decode goroutine while
// the UI reads.
type Reconciler struct {
	mu sync.Mutex

	chatID   string
	messages []model.Message

	state        State
	optimisticID string
	tokens       strings.Builder
	status       string

	needsReload bool
	noReply     bool
}

// NewReconciler creates a reconciler for the given conversation.
func NewReconciler(chatID string) *Reconciler {
	return &Reconciler{chatID: chatID}
}

// ChatID returns the conversation this reconciler owns.
func (r *Reconciler) ChatID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chatID
}

// SetMessages replaces the message list wholesale, as a load or backstop
// reload does. The server is authoritative; no merging happens.
func (r *Reconciler) SetMessages(msgs []model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append([]model.Message(nil), msgs...)
}

// Messages returns a copy of the current message list.
func (r *Reconciler) Messages() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Message(nil), r.messages...)
}

// State returns the current send state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Begin starts a send: it inserts the optimistic user message and moves
// to Sending. Fails with ErrSendInFlight while a send is active, so at
// most one optimistic message ever exists.
func (r *Reconciler) Begin(content string) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateSending || r.state == StateStreaming {
		return model.Message{}, ErrSendInFlight
	}

	content = strings.TrimSpace(norm.NFC.String(content))
	if content == "" {
		return model.Message{}, ErrEmptyMessage
	}

	msg := model.NewOptimisticMessage(content)
	msg.ChatID = r.chatID
	r.messages = append(r.messages, msg)

	r.state = StateSending
	r.optimisticID = msg.ID
	r.tokens.Reset()
	r.status = ""
	r.noReply = false
	return msg, nil
}

// OnStatus implements api.StreamSink.
func (r *Reconciler) OnStatus(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateSending {
		r.state = StateStreaming
	}
	r.status = status
}

// OnToken implements api.StreamSink. Tokens accumulate in arrival order
// and back the synthesized assistant message if the server omits one.
func (r *Reconciler) OnToken(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateSending {
		r.state = StateStreaming
	}
	r.tokens.WriteString(content)
}

// OnDone implements api.StreamSink. The optimistic message is removed and
// replaced by the server's persisted records: user message first, then
// assistant. A missing assistant record is synthesized from the streamed
// tokens; if neither record nor tokens exist, the send produced no reply
// and NoReply reports true.
func (r *Reconciler) OnDone(done api.DoneEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeOptimisticLocked()

	if done.UserMessage != nil {
		r.messages = append(r.messages, *done.UserMessage)
	}

	switch {
	case done.AIMessage != nil:
		r.messages = append(r.messages, *done.AIMessage)
	case r.tokens.Len() > 0:
		r.messages = append(r.messages, model.NewSyntheticAssistantMessage(r.chatID, r.tokens.String()))
	default:
		r.noReply = true
	}

	r.finishLocked(StateDone)
}

// Fail terminates the send after a transport or stream error. The
// optimistic message is removed; confirmed messages stay untouched.
func (r *Reconciler) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateSending && r.state != StateStreaming {
		return
	}
	r.removeOptimisticLocked()
	r.finishLocked(StateFailed)
}

func (r *Reconciler) removeOptimisticLocked() {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if !m.IsOptimistic() {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	r.optimisticID = ""
}

func (r *Reconciler) finishLocked(s State) {
	r.state = s
	r.status = ""
	r.tokens.Reset()
	// Terminal states always schedule the backstop reload, success and
	// failure alike: the server's persisted view wins over anything the
	// stream reported.
	r.needsReload = true
}

// ConsumeReload claims the pending backstop reload. It reports true at
// most once per terminal send, which keeps the reload exactly-once.
func (r *Reconciler) ConsumeReload() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.needsReload {
		return false
	}
	r.needsReload = false
	return true
}

// NoReply reports whether the last completed send produced neither a
// persisted assistant record nor streamed tokens.
func (r *Reconciler) NoReply() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.noReply
}

// Status returns the current agent phase ("searching", "generating")
// while streaming.
func (r *Reconciler) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// StreamingText returns the tokens accumulated so far in this send.
func (r *Reconciler) StreamingText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens.String()
}

// Busy reports whether a send is in flight; the input surface disables
// itself while this is true.
func (r *Reconciler) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateSending || r.state == StateStreaming
}
