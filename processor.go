package logease

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the task capacity of a Serial when none is configured.
const DefaultQueueSize = 1024

// Serial is a serial execution context: tasks submitted with Go run one at a time in
// submission order on a single worker goroutine, and tasks run with Do are mutually
// exclusive with them. Every destination owns exactly one Serial.
type Serial struct {
	mu sync.Mutex // held while any task runs

	state  sync.RWMutex // guards closed and sends on tasks
	closed bool
	tasks  chan func()

	start       sync.Once
	done        chan struct{}
	nonBlocking bool
	dropped     atomic.Uint64
}

// NewSerial creates a Serial buffering up to size pending tasks. With nonBlocking set,
// Go drops tasks instead of waiting when the buffer is full.
func NewSerial(size int, nonBlocking bool) *Serial {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Serial{
		tasks:       make(chan func(), size),
		done:        make(chan struct{}),
		nonBlocking: nonBlocking,
	}
}

// Go submits task to the worker. It returns false if the task was dropped because the
// Serial is closed or, in non-blocking mode, full.
func (s *Serial) Go(task func()) bool {
	if s.enqueue(context.Background(), task, !s.nonBlocking) {
		return true
	}
	s.dropped.Add(1)
	return false
}

// Do runs task on the calling goroutine, excluding any task the worker is running.
func (s *Serial) Do(task func()) {
	s.exec(task)
}

// Flush waits until every task submitted before the call has run.
// A closed Serial is drained by Close, so Flush returns immediately.
func (s *Serial) Flush(ctx context.Context) error {
	marker := make(chan struct{})
	if !s.enqueue(ctx, func() { close(marker) }, true) {
		return ctx.Err()
	}
	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the worker to drain what is queued.
// Closing twice is a no-op.
func (s *Serial) Close(ctx context.Context) error {
	s.stop()
	return s.wait(ctx)
}

// stop marks the Serial closed so Go refuses further tasks and the worker exits once
// the queue is drained. Stopping twice is a no-op.
func (s *Serial) stop() {
	s.state.Lock()
	defer s.state.Unlock()
	if !s.closed {
		s.closed = true
		s.run()
		close(s.tasks)
	}
}

// wait blocks until the worker of a stopped Serial has drained its queue.
func (s *Serial) wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of tasks Go refused so far.
func (s *Serial) Dropped() uint64 {
	return s.dropped.Load()
}

// enqueue sends task to the worker, waiting for buffer space when block is set.
func (s *Serial) enqueue(ctx context.Context, task func(), block bool) bool {
	s.state.RLock()
	defer s.state.RUnlock()

	if s.closed {
		return false
	}
	s.run()

	if !block {
		select {
		case s.tasks <- task:
			return true
		default:
			return false
		}
	}
	select {
	case s.tasks <- task:
		return true
	case <-ctx.Done():
		return false
	}
}

// run starts the worker goroutine on first use.
func (s *Serial) run() {
	s.start.Do(func() {
		go s.process()
	})
}

// process is the worker loop. It exits once tasks is closed and drained.
func (s *Serial) process() {
	defer close(s.done)
	for task := range s.tasks {
		s.exec(task)
	}
}

// exec runs a single task under the execution mutex. A panicking destination is
// reported on the diagnostic channel instead of taking the worker down.
func (s *Serial) exec(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			diagf("destination task panicked: %v", r)
		}
	}()
	task()
}
