// Package terminal owns the real terminal: raw mode, the alternate screen,
// key parsing and resize notifications. It is a thin bubbletea program whose
// only jobs are to forward input to the event source and to show the last
// frame the application loop drew.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg string

// Options configures the terminal; zero values use the process stdio
type Options struct {
	Input  io.Reader
	Output io.Writer
}

// Terminal drives a bubbletea program in the background. Input waits in an
// unbounded queue until the event source takes it, so nothing is dropped
// and order is kept.
type Terminal struct {
	program *tea.Program
	input   chan tea.Msg

	mu      sync.Mutex
	started bool
	done    chan struct{}
	err     error

	queueMu  sync.Mutex
	queue    []tea.Msg
	finished bool
	wake     chan struct{}
	pumpOnce sync.Once
	release  chan struct{}
	stopOnce sync.Once
}

// New prepares a terminal without touching the tty yet
func New(opts Options) *Terminal {
	t := &Terminal{
		input:   make(chan tea.Msg),
		done:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
		release: make(chan struct{}),
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	t.program = tea.NewProgram(&driver{term: t}, programOpts...)
	return t
}

// Messages implements event.InputDevice
func (t *Terminal) Messages() <-chan tea.Msg {
	return t.input
}

// Start enters raw mode and the alternate screen
func (t *Terminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return errors.New("terminal already started")
	}
	t.started = true

	go func() {
		_, err := t.program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			t.setErr(fmt.Errorf("terminal stopped: %w", err))
		}
		t.queueMu.Lock()
		t.finished = true
		t.queueMu.Unlock()
		t.startPump()
		t.signal()
		close(t.done)
	}()
	return nil
}

// Draw replaces what is shown on screen
func (t *Terminal) Draw(content string) {
	t.program.Send(frameMsg(content))
}

// Stop restores the terminal and waits for the program to exit
func (t *Terminal) Stop() error {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if !started {
		return nil
	}

	t.program.Quit()
	<-t.done
	t.stopOnce.Do(func() { close(t.release) })
	return t.Err()
}

// Done is closed once the terminal has been released
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// Err returns the error the program stopped with, if any
func (t *Terminal) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Terminal) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// forward queues a message for the event source. It never blocks the
// bubbletea loop, which also has to accept Draw calls from the consumer.
func (t *Terminal) forward(msg tea.Msg) {
	t.queueMu.Lock()
	t.queue = append(t.queue, msg)
	t.queueMu.Unlock()

	t.startPump()
	t.signal()
}

func (t *Terminal) startPump() {
	t.pumpOnce.Do(func() { go t.pump() })
}

func (t *Terminal) signal() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// pump moves queued messages to the input channel in order. The channel is
// closed once the program ended and the queue is empty.
func (t *Terminal) pump() {
	for {
		t.queueMu.Lock()
		pending := t.queue
		t.queue = nil
		finished := t.finished
		t.queueMu.Unlock()

		if len(pending) == 0 {
			if finished {
				close(t.input)
				return
			}
			select {
			case <-t.wake:
			case <-t.release:
				return
			}
			continue
		}

		for _, msg := range pending {
			select {
			case t.input <- msg:
			case <-t.release:
				return
			}
		}
	}
}

type driver struct {
	term *Terminal
	view string
}

func (d *driver) Init() tea.Cmd {
	return nil
}

func (d *driver) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(frameMsg); ok {
		d.view = string(m)
		return d, nil
	}
	d.term.forward(msg)
	return d, nil
}

func (d *driver) View() string {
	return d.view
}
