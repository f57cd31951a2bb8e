package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// Pool runs generation sequences off the request goroutine.
type Pool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	mu        sync.RWMutex // guards sends on taskQueue against close
	isClosing atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	logger    zerolog.Logger
}

func NewPool(size, queueSize int, logger zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		taskQueue: make(chan Task, queueSize),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}

	return p
}

func (p *Pool) startWorker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		if err := p.run(task); err != nil {
			p.logger.Warn().Err(err).Msg("worker task failed")
		}
	}
}

func (p *Pool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("worker task panicked")
		}
	}()
	return task(p.ctx)
}

// Submit queues t and reports whether it was accepted. Tasks are refused
// during shutdown and when the queue is full.
func (p *Pool) Submit(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.isClosing.Load() {
		p.logger.Warn().Msg("task submitted during shutdown, dropping")
		return false
	}
	select {
	case p.taskQueue <- t:
		return true
	default:
		p.logger.Warn().Msg("task queue full, dropping task")
		return false
	}
}

// Shutdown closes the queue and waits for workers to finish
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.isClosing.Swap(true) {
		p.mu.Unlock()
		return
	}
	close(p.taskQueue)
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()
}
