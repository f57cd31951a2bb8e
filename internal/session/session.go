// Package session keeps one open planning document in sync with its chat
// thread and its content generation.
package session

import (
	"alizia-planner/internal/domain"
	apperrors "alizia-planner/internal/errors"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyMessage = apperrors.UnprocessableEntity("El mensaje está vacío", nil)
	ErrNoDocument   = apperrors.Conflict("No hay un documento abierto", nil)
	ErrBusy         = apperrors.Conflict("Hay una operación en curso", nil)
)

// State is where the open document is in its load and generation lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateLoading         State = "loading"
	StateNeedsGeneration State = "needs_generation"
	StateGenerating      State = "generating"
	StateReady           State = "ready"
	StateError           State = "error"
)

// ChatError is returned by Send when the assistant request failed. The
// failure text has already been appended to the thread.
type ChatError struct {
	Err error
}

func (e *ChatError) Error() string { return "chat: " + e.Err.Error() }
func (e *ChatError) Unwrap() error { return e.Err }

// View is a consistent copy of the session for rendering.
type View struct {
	Kind     domain.Kind          `json:"kind"`
	State    State                `json:"state"`
	Busy     bool                 `json:"busy"`
	Version  uint64               `json:"version"`
	Document *domain.Document     `json:"document"`
	Chat     []domain.ChatMessage `json:"chat"`
}

// Service is what the HTTP handlers need from a session.
type Service interface {
	Open(ctx context.Context, id int64) error
	Close()
	Snapshot() View
	Notices() []Notice
	Send(ctx context.Context, text string) (domain.ChatMessage, error)
	Rename(ctx context.Context, name string) (*domain.Document, error)
	RenameClass(ctx context.Context, subjectID int64, classNumber int, title string) (*domain.Document, error)
	Generate(ctx context.Context) error
	Publish(ctx context.Context) (*domain.Document, error)
	Wait(ctx context.Context) error
}

type Session struct {
	kind      domain.Kind
	store     Store
	cache     *Cache
	chat      *Chat
	generator Generator
	scheduler Scheduler
	notices   *NoticeBoard
	logger    zerolog.Logger

	mu        sync.Mutex
	state     State
	ticket    Ticket
	attempted bool
	changed   chan struct{}
}

func New(store Store, scheduler Scheduler, logger zerolog.Logger) *Session {
	kind := store.Kind()
	logger = logger.With().Str("component", "session").Str("kind", string(kind)).Logger()
	s := &Session{
		kind:      kind,
		store:     store,
		cache:     NewCache(store, logger),
		chat:      &Chat{},
		generator: GeneratorFor(kind),
		scheduler: scheduler,
		notices:   &NoticeBoard{},
		logger:    logger,
		state:     StateIdle,
		changed:   make(chan struct{}),
	}
	s.cache.OnWrite(s.afterWrite)
	return s
}

func (s *Session) Kind() domain.Kind { return s.kind }

func (s *Session) setStateLocked(st State) {
	if s.state == st {
		return
	}
	s.logger.Debug().Str("from", string(s.state)).Str("to", string(st)).Int64("document_id", s.ticket.ID).Msg("state change")
	s.state = st
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Session) generatingLocked() bool {
	return s.state == StateNeedsGeneration || s.state == StateGenerating
}

func (s *Session) hasDocumentLocked() bool {
	return s.state == StateReady || s.generatingLocked()
}

// Open switches the session to document id: the chat is cleared, any
// result still in flight for the previous document will be ignored, and
// the document is loaded.
func (s *Session) Open(ctx context.Context, id int64) error {
	s.mu.Lock()
	t := s.cache.Open(id)
	s.chat.Reset(t.Epoch)
	s.ticket = t
	s.attempted = false
	s.setStateLocked(StateLoading)
	s.mu.Unlock()

	s.logger.Info().Int64("document_id", id).Uint64("epoch", t.Epoch).Msg("opening document")

	if _, err := s.cache.Load(context.WithoutCancel(ctx), t); err != nil {
		s.mu.Lock()
		current := s.ticket == t
		if current {
			s.setStateLocked(StateError)
		}
		s.mu.Unlock()
		if !current {
			s.logger.Debug().Err(err).Int64("document_id", id).Msg("ignoring load failure of a document that is no longer open")
			return err
		}
		s.fail("open", apperrors.Notice(err), err)
		return err
	}
	return nil
}

// Close drops the open document and its chat.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.cache.Clear()
	s.chat.Reset(t.Epoch)
	s.ticket = Ticket{}
	s.attempted = false
	s.setStateLocked(StateIdle)
}

// afterWrite runs after every applied cache write and decides whether the
// document needs its content generated. Once an automatic attempt has been
// made, only writes that follow a user action (see rearm) start another, so
// the reload that ends a generation never triggers a new one.
func (s *Session) afterWrite(t Ticket, doc *domain.Document) {
	s.mu.Lock()
	if s.ticket != t || s.generatingLocked() {
		s.mu.Unlock()
		return
	}
	schedule := false
	if !s.attempted && !domain.HasContent(doc) {
		s.attempted = true
		s.setStateLocked(StateNeedsGeneration)
		schedule = true
	} else {
		s.setStateLocked(StateReady)
	}
	s.mu.Unlock()

	if schedule {
		s.schedule(t, "auto")
	}
}

// rearm allows the next write of t to start an automatic generation again.
// It has no effect while a generation is pending or running.
func (s *Session) rearm(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticket == t && !s.generatingLocked() {
		s.attempted = false
	}
}

func (s *Session) schedule(t Ticket, trigger string) {
	runID := uuid.New()
	logger := s.logger.With().
		Str("run_id", runID.String()).
		Str("trigger", trigger).
		Str("generator", s.generator.Name()).
		Int64("document_id", t.ID).
		Logger()

	ok := s.scheduler.Submit(func(ctx context.Context) error {
		return s.runGeneration(ctx, t, logger)
	})
	if ok {
		logger.Debug().Msg("generation scheduled")
		return
	}

	s.mu.Lock()
	if s.ticket == t && s.state == StateNeedsGeneration {
		s.setStateLocked(StateReady)
	}
	s.mu.Unlock()
	s.fail("generate", apperrors.NoticeGenerateFailed, fmt.Errorf("generation run %s was not accepted by the scheduler", runID))
}

func (s *Session) runGeneration(ctx context.Context, t Ticket, logger zerolog.Logger) error {
	s.mu.Lock()
	if s.ticket != t || s.state != StateNeedsGeneration {
		s.mu.Unlock()
		logger.Debug().Msg("skipping generation for a document that is no longer open")
		return nil
	}
	s.setStateLocked(StateGenerating)
	s.mu.Unlock()
	defer s.endGeneration(t)

	logger.Info().Msg("generation started")

	err := s.generator.Generate(ctx, s.store, t.ID)
	if err == nil {
		_, err = s.cache.Load(ctx, t)
	}

	if err != nil {
		s.mu.Lock()
		current := s.ticket == t
		s.mu.Unlock()
		if current {
			s.notices.Publish(apperrors.NoticeGenerateFailed)
		}
		logger.Error().Err(err).Bool("current", current).Msg("generation failed")
		return err
	}
	logger.Info().Msg("generation finished")
	return nil
}

// endGeneration leaves the generating state, also when the run panicked.
func (s *Session) endGeneration(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticket == t && s.state == StateGenerating {
		s.setStateLocked(StateReady)
	}
}

// Generate regenerates the content of the open document in the background.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasDocumentLocked() {
		s.mu.Unlock()
		return ErrNoDocument
	}
	if s.generatingLocked() || s.chat.Busy() {
		s.mu.Unlock()
		return ErrBusy
	}
	t := s.ticket
	s.setStateLocked(StateNeedsGeneration)
	s.mu.Unlock()

	s.schedule(t, "manual")
	return nil
}

// Send posts a message to the assistant. The user message is in the thread
// before the request goes out and exactly one assistant message follows it,
// the fixed failure text when the request fails.
func (s *Session) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if !s.hasDocumentLocked() {
		s.mu.Unlock()
		return domain.ChatMessage{}, ErrNoDocument
	}
	if s.generatingLocked() {
		s.mu.Unlock()
		return domain.ChatMessage{}, ErrBusy
	}
	t := s.ticket
	prior, err := s.chat.begin(t.Epoch, domain.NewChatMessage(domain.RoleUser, text))
	s.mu.Unlock()
	if err != nil {
		return domain.ChatMessage{}, err
	}

	resp, err := s.store.Chat(context.WithoutCancel(ctx), t.ID, domain.ChatRequest{
		Message: text,
		History: domain.ToWire(prior),
	})
	reply := domain.NewChatMessage(domain.RoleAssistant, replyText(resp, err))
	s.chat.finish(t.Epoch, reply)

	if err != nil {
		s.logger.Error().Err(err).Int64("document_id", t.ID).Msg("chat request failed")
		return reply, &ChatError{Err: err}
	}
	if updated := resp.Updated(); updated != nil {
		s.rearm(t)
		s.cache.Set(t, updated)
	}
	return reply, nil
}

func (s *Session) openDocument() (Ticket, *domain.Document, error) {
	s.mu.Lock()
	ok := s.hasDocumentLocked()
	t := s.ticket
	s.mu.Unlock()
	if !ok {
		return Ticket{}, nil, ErrNoDocument
	}
	entry := s.cache.Snapshot()
	if entry.Ticket != t || entry.Document == nil {
		return Ticket{}, nil, ErrNoDocument
	}
	return t, entry.Document, nil
}

// Rename saves a new document name. Saving the current name does nothing.
func (s *Session) Rename(ctx context.Context, name string) (*domain.Document, error) {
	t, doc, err := s.openDocument()
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == doc.Name {
		return doc, nil
	}
	s.rearm(t)
	updated, err := s.cache.PatchAndReload(context.WithoutCancel(ctx), t, domain.Patch{Name: &name})
	if err != nil {
		s.fail("rename", saveNotice(err), err)
		return nil, err
	}
	return updated, nil
}

// RenameClass saves a new title for one class of a subject's plan.
func (s *Session) RenameClass(ctx context.Context, subjectID int64, classNumber int, title string) (*domain.Document, error) {
	t, doc, err := s.openDocument()
	if err != nil {
		return nil, err
	}

	content := doc.Content
	key := fmt.Sprint(subjectID)
	data, ok := content.SubjectsData[key]
	idx := -1
	if ok {
		for i, c := range data.ClassPlan {
			if c.ClassNumber == classNumber {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("Clase %d no encontrada", classNumber), nil)
	}
	title = strings.TrimSpace(title)
	if data.ClassPlan[idx].Title == title {
		return doc, nil
	}
	data.ClassPlan[idx].Title = title
	content.SubjectsData[key] = data

	s.rearm(t)
	updated, err := s.cache.PatchAndReload(context.WithoutCancel(ctx), t, domain.Patch{Content: &content})
	if err != nil {
		s.fail("rename class", saveNotice(err), err)
		return nil, err
	}
	return updated, nil
}

// Publish marks the open document as published. Publication is one-way.
func (s *Session) Publish(ctx context.Context) (*domain.Document, error) {
	t, doc, err := s.openDocument()
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.StatusPublished {
		return nil, apperrors.UnprocessableEntity("El documento ya está publicado", nil)
	}

	ctx = context.WithoutCancel(ctx)
	updated, err := s.cache.reloadAfter(ctx, t, s.store.Publish(ctx, t.ID))
	if err != nil {
		s.fail("publish", apperrors.NoticePublishFailed, err)
		return nil, err
	}
	s.logger.Info().Int64("document_id", t.ID).Msg("document published")
	return updated, nil
}

// Busy reports whether a generation or a chat request is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatingLocked() || s.chat.Busy()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	state := s.state
	t := s.ticket
	busy := s.generatingLocked() || s.chat.Busy()
	s.mu.Unlock()

	entry := s.cache.Snapshot()
	view := View{
		Kind:    s.kind,
		State:   state,
		Busy:    busy,
		Version: entry.Version,
		Chat:    s.chat.History(),
	}
	if entry.Ticket == t {
		view.Document = entry.Document
	}
	return view
}

func (s *Session) Notices() []Notice {
	return s.notices.Drain()
}

// Wait blocks until the open document is neither loading nor generating.
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.state != StateLoading && !s.generatingLocked() {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Session) fail(op, notice string, err error) {
	s.notices.Publish(notice)
	s.logger.Error().Err(err).Str("op", op).Str("notice", notice).Msg("session operation failed")
}

func saveNotice(err error) string {
	if apperrors.IsValidation(err) {
		return apperrors.NoticeValidation
	}
	return apperrors.NoticeSaveFailed
}
