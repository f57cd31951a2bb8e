package session

import (
	"alizia-planner/internal/domain"
	apperrors "alizia-planner/internal/errors"
	"alizia-planner/internal/worker"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store that records every call in order.
type fakeStore struct {
	kind domain.Kind

	mu     sync.Mutex
	docs   map[int64]*domain.Document
	calls  []string
	errs   map[string]error
	hook   func(op string)
	chatFn func(req domain.ChatRequest) (*domain.ChatResponse, error)
}

func newFakeStore(kind domain.Kind, docs ...*domain.Document) *fakeStore {
	f := &fakeStore{kind: kind, docs: make(map[int64]*domain.Document), errs: make(map[string]error)}
	for _, d := range docs {
		f.docs[d.ID] = d.Clone()
	}
	return f
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	err := f.errs[op]
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
	return err
}

func (f *fakeStore) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeStore) onCall(hook func(op string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = hook
}

func (f *fakeStore) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) doc(id int64) *domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id].Clone()
}

func (f *fakeStore) Kind() domain.Kind { return f.kind }

func (f *fakeStore) Get(ctx context.Context, id int64) (*domain.Document, error) {
	if err := f.record(fmt.Sprintf("get %d", id)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, apperrors.NotFound("document not found", nil)
	}
	return d.Clone(), nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, patch domain.Patch) error {
	if err := f.record(fmt.Sprintf("update %d", id)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.docs[id]
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Content != nil {
		d.Content = *patch.Content
	}
	return nil
}

func (f *fakeStore) Generate(ctx context.Context, id int64) error {
	if err := f.record(fmt.Sprintf("generate %d", id)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id].Content.MethodologicalStrategies = "Estrategias generadas"
	return nil
}

func (f *fakeStore) GenerateMoment(ctx context.Context, id int64, moment domain.MomentType) error {
	if err := f.record(fmt.Sprintf("moment %d %s", id, moment)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.docs[id]
	if d.Moments == nil {
		d.Moments = &domain.Moments{}
	}
	text := "Contenido de " + string(moment)
	switch moment {
	case domain.MomentApertura:
		d.Moments.Apertura.GeneratedContent = text
	case domain.MomentDesarrollo:
		d.Moments.Desarrollo.GeneratedContent = text
	case domain.MomentCierre:
		d.Moments.Cierre.GeneratedContent = text
	}
	return nil
}

func (f *fakeStore) Publish(ctx context.Context, id int64) error {
	if err := f.record(fmt.Sprintf("publish %d", id)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id].Status = domain.StatusPublished
	return nil
}

func (f *fakeStore) Chat(ctx context.Context, id int64, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := f.record(fmt.Sprintf("chat %d", id)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	fn := f.chatFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return &domain.ChatResponse{Response: "Listo"}, nil
}

// manualScheduler queues tasks until the test runs them.
type manualScheduler struct {
	mu     sync.Mutex
	tasks  []worker.Task
	reject bool
}

func (m *manualScheduler) Submit(task worker.Task) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reject {
		return false
	}
	m.tasks = append(m.tasks, task)
	return true
}

func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// runAll runs queued tasks, including ones queued while running, and
// returns how many ran.
func (m *manualScheduler) runAll(t *testing.T) int {
	t.Helper()
	ran := 0
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return ran
		}
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.mu.Unlock()

		_ = task(context.Background())
		ran++
	}
}

func coordinationDoc(id int64, strategies string) *domain.Document {
	return &domain.Document{
		ID:        id,
		Kind:      domain.KindCoordination,
		Name:      fmt.Sprintf("Documento %d", id),
		Status:    domain.StatusDraft,
		StartDate: "2025-03-01",
		Content: domain.Content{
			MethodologicalStrategies: strategies,
			CategoryIDs:              []int64{1, 2},
			Subjects:                 []domain.SubjectStub{{ID: 10, Name: "Matemática"}},
			SubjectsData: map[string]domain.SubjectData{
				"10": {ClassPlan: []domain.ClassEntry{
					{ClassNumber: 1, Title: "Fracciones", CategoryIDs: []int64{1}},
					{ClassNumber: 2, Title: "Decimales"},
				}},
			},
		},
	}
}

func lessonPlan(id int64, generated bool) *domain.Document {
	plan := &domain.Document{
		ID:              id,
		Kind:            domain.KindLessonPlan,
		Name:            fmt.Sprintf("Plan %d", id),
		Status:          domain.StatusDraft,
		CourseSubjectID: 3,
		CategoryIDs:     []int64{1},
		Moments:         &domain.Moments{},
	}
	if generated {
		plan.Moments.Apertura.GeneratedContent = "a"
		plan.Moments.Desarrollo.GeneratedContent = "d"
		plan.Moments.Cierre.GeneratedContent = "c"
	}
	return plan
}

func newTestSession(t *testing.T, store *fakeStore) (*Session, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	return New(store, sched, zerolog.Nop()), sched
}

func openReady(t *testing.T, s *Session, id int64) {
	t.Helper()
	require.NoError(t, s.Open(context.Background(), id))
	require.Equal(t, StateReady, s.State())
}
