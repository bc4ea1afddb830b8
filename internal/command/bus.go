package command

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrClosed is returned by Send once the bus has been closed
var ErrClosed = errors.New("command bus closed")

// Bus is an unbounded multi-producer, single-consumer queue.
// Send never blocks, so background goroutines can always report back
// without waiting on the UI goroutine.
type Bus struct {
	mu     sync.Mutex
	queue  []Command
	closed bool
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Send enqueues a command
func (b *Bus) Send(cmd Command) error {
	if cmd == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	b.queue = append(b.queue, cmd)

	switch cmd.(type) {
	case Tick, Render:
	default:
		log.Debug("command queued", "command", cmd.Name(), "pending", len(b.queue))
	}
	return nil
}

// Drain returns every queued command in send order and empties the queue
func (b *Bus) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return nil
	}
	out := b.queue
	b.queue = nil
	return out
}

// Len returns the number of pending commands
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close makes further sends fail with ErrClosed. Pending commands can still
// be drained.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
