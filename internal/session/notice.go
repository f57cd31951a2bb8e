package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Notice struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NoticeBoard collects the messages of failures that have no caller to
// report to, such as background generation. The view drains it.
type NoticeBoard struct {
	mu      sync.Mutex
	notices []Notice
}

func (b *NoticeBoard) Publish(message string) Notice {
	n := Notice{ID: uuid.New(), Message: message, CreatedAt: time.Now().UTC()}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	return n
}

func (b *NoticeBoard) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
