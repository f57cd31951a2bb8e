package session

import (
	"alizia-planner/internal/domain"
	apperrors "alizia-planner/internal/errors"
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Ticket identifies one opening of a document. Results obtained under a
// ticket are only applied while it is still the current one.
type Ticket struct {
	Epoch uint64
	ID    int64
}

// Entry is a copy of the cache slot.
type Entry struct {
	Ticket
	Document *domain.Document
	Version  uint64
}

// Cache is the single authoritative client-side copy of the open document.
// Every write replaces the document wholesale and bumps Version.
type Cache struct {
	store    Store
	validate *validator.Validate
	logger   zerolog.Logger

	mu      sync.RWMutex
	ticket  Ticket
	open    bool
	doc     *domain.Document
	version uint64

	onWrite func(t Ticket, doc *domain.Document)
}

func NewCache(store Store, logger zerolog.Logger) *Cache {
	return &Cache{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// OnWrite registers fn to run after every applied write, outside the lock.
func (c *Cache) OnWrite(fn func(t Ticket, doc *domain.Document)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onWrite = fn
}

// Open starts a new epoch for document id and empties the slot.
func (c *Cache) Open(id int64) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket = Ticket{Epoch: c.ticket.Epoch + 1, ID: id}
	c.open = true
	c.doc = nil
	return c.ticket
}

// Clear empties the slot. In-flight results for the previous document are
// discarded when they arrive.
func (c *Cache) Clear() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket = Ticket{Epoch: c.ticket.Epoch + 1}
	c.open = false
	c.doc = nil
	return c.ticket
}

// Current returns the ticket of the open document, false when none is open.
func (c *Cache) Current() (Ticket, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticket, c.open
}

func (c *Cache) IsCurrent(t Ticket) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open && c.ticket == t
}

func (c *Cache) Snapshot() Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Entry{Ticket: c.ticket, Document: c.doc.Clone(), Version: c.version}
}

// Set replaces the cached document. It reports false when t is stale.
func (c *Cache) Set(t Ticket, doc *domain.Document) bool {
	if doc == nil {
		return false
	}
	doc = doc.Clone()
	if doc.Kind == "" {
		doc.Kind = c.store.Kind()
	}

	c.mu.Lock()
	if !c.open || c.ticket != t {
		c.mu.Unlock()
		c.logger.Debug().
			Uint64("epoch", t.Epoch).
			Int64("document_id", t.ID).
			Msg("dropping stale document write")
		return false
	}
	c.doc = doc
	c.version++
	fn := c.onWrite
	c.mu.Unlock()

	if fn != nil {
		fn(t, doc.Clone())
	}
	return true
}

// Load fetches the document and replaces the cached copy.
func (c *Cache) Load(ctx context.Context, t Ticket) (*domain.Document, error) {
	doc, err := c.store.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	c.Set(t, doc)
	return doc, nil
}

// PatchAndReload sends the changed fields then re-fetches the document.
// The body of the update response is ignored.
func (c *Cache) PatchAndReload(ctx context.Context, t Ticket, patch domain.Patch) (*domain.Document, error) {
	if err := c.validate.Struct(patch); err != nil {
		return nil, apperrors.NewValidationError(err)
	}
	if patch.Empty() {
		return c.Snapshot().Document, nil
	}
	return c.reloadAfter(ctx, t, c.store.Update(ctx, t.ID, patch))
}

// reloadAfter re-fetches the document once a mutation succeeded. A failed
// mutation is returned as is and the cache is left untouched.
func (c *Cache) reloadAfter(ctx context.Context, t Ticket, mutationErr error) (*domain.Document, error) {
	if mutationErr != nil {
		return nil, mutationErr
	}
	return c.Load(ctx, t)
}
