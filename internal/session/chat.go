package session

import (
	"alizia-planner/internal/domain"
	"sync"
)

const (
	noReplyText    = "Sin respuesta"
	chatFailedText = "Error al procesar el mensaje"
)

// Chat is the message thread of the open document. It is reset whenever
// another document is opened.
type Chat struct {
	mu       sync.Mutex
	epoch    uint64
	messages []domain.ChatMessage
	busy     bool
}

func (c *Chat) Append(msg domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// Reset empties the thread and binds it to a new epoch. A send still in
// flight for the old epoch will neither append its reply nor clear busy.
func (c *Chat) Reset(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch = epoch
	c.messages = nil
	c.busy = false
}

func (c *Chat) History() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChatMessage(nil), c.messages...)
}

func (c *Chat) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// begin appends the user message and marks the thread busy. It returns the
// history as it was before the message was appended.
func (c *Chat) begin(epoch uint64, msg domain.ChatMessage) ([]domain.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil, ErrNoDocument
	}
	if c.busy {
		return nil, ErrBusy
	}
	prior := append([]domain.ChatMessage(nil), c.messages...)
	c.messages = append(c.messages, msg)
	c.busy = true
	return prior, nil
}

// finish appends the assistant reply and clears busy, unless the thread
// has been reset since begin.
func (c *Chat) finish(epoch uint64, reply domain.ChatMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.messages = append(c.messages, reply)
	c.busy = false
	return true
}

func replyText(resp *domain.ChatResponse, err error) string {
	if err != nil {
		return chatFailedText
	}
	if resp == nil || resp.Response == "" {
		return noReplyText
	}
	return resp.Response
}
