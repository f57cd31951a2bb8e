package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewChatMessage(role Role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// WireMessage is the history entry the assistant endpoint expects.
type WireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []WireMessage `json:"history"`
}

// ChatResponse is the assistant reply. Coordination documents come back in
// UpdatedDocument, lesson plans in UpdatedPlan.
type ChatResponse struct {
	Response        string    `json:"response"`
	UpdatedDocument *Document `json:"updated_document,omitempty"`
	UpdatedPlan     *Document `json:"updated_plan,omitempty"`
}

// Updated returns whichever document snapshot the reply embeds.
func (r *ChatResponse) Updated() *Document {
	if r == nil {
		return nil
	}
	if r.UpdatedDocument != nil {
		return r.UpdatedDocument
	}
	return r.UpdatedPlan
}

func ToWire(history []ChatMessage) []WireMessage {
	out := make([]WireMessage, 0, len(history))
	for _, m := range history {
		out = append(out, WireMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
