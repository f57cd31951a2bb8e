package session

import (
	"alizia-planner/internal/domain"
	"alizia-planner/internal/worker"
	"context"
)

// Store is the remote document API for one document kind.
type Store interface {
	Kind() domain.Kind
	Get(ctx context.Context, id int64) (*domain.Document, error)
	Update(ctx context.Context, id int64, patch domain.Patch) error
	Generate(ctx context.Context, id int64) error
	GenerateMoment(ctx context.Context, id int64, moment domain.MomentType) error
	Publish(ctx context.Context, id int64) error
	Chat(ctx context.Context, id int64, req domain.ChatRequest) (*domain.ChatResponse, error)
}

// Scheduler runs generation tasks off the caller's goroutine.
// worker.Pool satisfies it.
type Scheduler interface {
	Submit(task worker.Task) bool
}
