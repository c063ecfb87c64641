package app

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrEmptyMessage is a local refusal; no network call was made.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSendInFlight means another send has not resolved yet. The extra
	// send is dropped, not queued.
	ErrSendInFlight = errors.New("a send is already in flight")
)

// SendFailedMessage is the uniform user-facing text for any chat failure.
// The orchestrator does not distinguish failure causes; see DESIGN.md.
const SendFailedMessage = "Something went wrong talking to OpsCopilot."

// Conversation drives one chat turn at a time. The backend is the sole source
// of truth: on every successful send the transcript and trace are replaced
// wholesale with the server's copies, and the user turn is never appended
// optimistically. A failed send leaves both exactly as they were.
type Conversation struct {
	client *Client
	logger *Logger

	mu         sync.Mutex
	transcript []Turn
	trace      []TraceStep
	inFlight   bool
	lastErr    string
}

func NewConversation(client *Client, logger *Logger) *Conversation {
	return &Conversation{client: client, logger: logger}
}

// SendMessage sends text plus the full prior transcript. Blank input and a
// concurrent send are refused before any network call.
func (c *Conversation) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	c.inFlight = true
	c.lastErr = ""
	prior := c.transcript
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	resp, err := c.client.Chat(ctx, text, prior)
	if err != nil {
		c.logger.Err("chat send failed", err, nil)
		c.mu.Lock()
		c.lastErr = SendFailedMessage
		c.mu.Unlock()
		return err
	}

	trace := resp.Trace
	if trace == nil {
		trace = []TraceStep{}
	}
	c.mu.Lock()
	c.transcript = resp.Conversation
	c.trace = trace
	c.mu.Unlock()
	return nil
}

// Transcript returns the turns of the last successful send, oldest first.
// The returned slice is shared and must be treated as read-only.
func (c *Conversation) Transcript() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// Trace returns the steps of the most recent successful turn. Empty before
// any turn completes; untouched by failed sends.
func (c *Conversation) Trace() []TraceStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trace
}

// InFlight reports whether a send has not resolved yet.
func (c *Conversation) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LastError is the user-facing error from the most recent failed send, or ""
// after a success or before any send.
func (c *Conversation) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset drops the transcript and trace, for logout or a new session.
func (c *Conversation) Reset() {
	c.mu.Lock()
	c.transcript = nil
	c.trace = nil
	c.lastErr = ""
	c.mu.Unlock()
}
