// Package loop provides the client's task queue: a single worker goroutine
// that runs posted functions one at a time, in the order they were posted.
//
// Post never runs a task on the caller's stack, so code that is itself
// running inside someone else's callback can safely defer work to the next
// turn of the loop.
package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/philosophies/internal/logging"
)

type Loop struct {
	logger logging.Logger

	mu      sync.Mutex
	queue   []func()
	started bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func New(logger logging.Logger) *Loop {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. It returns immediately; the worker stops when
// ctx is cancelled or after Close once the queue is drained.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.closed {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run(ctx)
}

// Post enqueues task. It reports false when the loop is closed and the task
// was dropped.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	l.signal()
	return true
}

// Flush blocks until every task posted before the call has run.
func (l *Loop) Flush(ctx context.Context) error {
	reached := make(chan struct{})
	if !l.Post(func() { close(reached) }) {
		return ErrClosed
	}
	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, lets the worker finish what is queued and
// waits for it. Safe to call more than once and before Start.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	started := l.started
	l.mu.Unlock()

	if !started {
		return
	}
	l.signal()
	<-l.done
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)

	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-l.wake:
				continue
			case <-ctx.Done():
				return
			}
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.exec(ctx, task)
	}
}

func (l *Loop) exec(ctx context.Context, task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(ctx, "task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}
