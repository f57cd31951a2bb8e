package session

import (
	"alizia-planner/internal/domain"
	"context"
	"fmt"
)

// Generator asks the remote store to produce the document's content. The
// session reloads the document once Generate returns without error.
type Generator interface {
	Generate(ctx context.Context, store Store, id int64) error
	Name() string
}

// SingleCall generates the whole document with one request.
type SingleCall struct{}

func (SingleCall) Name() string { return "single" }

func (SingleCall) Generate(ctx context.Context, store Store, id int64) error {
	return store.Generate(ctx, id)
}

// MultiCall generates one moment per request, in order, stopping at the
// first failure.
type MultiCall struct {
	Moments []domain.MomentType
}

func (MultiCall) Name() string { return "moments" }

func (g MultiCall) Generate(ctx context.Context, store Store, id int64) error {
	for _, m := range g.Moments {
		if err := store.GenerateMoment(ctx, id, m); err != nil {
			return fmt.Errorf("generate moment %s: %w", m, err)
		}
	}
	return nil
}

// GeneratorFor picks the generation strategy of a document kind.
func GeneratorFor(kind domain.Kind) Generator {
	if kind == domain.KindLessonPlan {
		return MultiCall{Moments: domain.MomentSequence}
	}
	return SingleCall{}
}
