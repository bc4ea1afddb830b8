package command

import (
	"errors"
	"sync"
	"testing"
)

func TestBusDrainPreservesOrder(t *testing.T) {
	bus := NewBus()

	sent := []Command{
		Error{Message: "one"},
		SelectRequest{RequestID: "r1"},
		RefreshCollections{},
		Quit{},
	}
	for _, cmd := range sent {
		if err := bus.Send(cmd); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	got := bus.Drain()
	if len(got) != len(sent) {
		t.Fatalf("Expected %d commands, got %d", len(sent), len(got))
	}
	for i := range sent {
		if got[i] != sent[i] {
			t.Errorf("Expected command %d to be %v, got %v", i, sent[i], got[i])
		}
	}

	if again := bus.Drain(); len(again) != 0 {
		t.Errorf("Expected empty bus after drain, got %d commands", len(again))
	}
}

func TestBusSendAfterClose(t *testing.T) {
	bus := NewBus()
	_ = bus.Send(Tick{})
	bus.Close()

	err := bus.Send(Quit{})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if n := len(bus.Drain()); n != 1 {
		t.Errorf("Expected pending command to survive close, got %d", n)
	}
}

func TestBusIgnoresNil(t *testing.T) {
	bus := NewBus()
	if err := bus.Send(nil); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
	if bus.Len() != 0 {
		t.Errorf("Expected empty bus, got %d", bus.Len())
	}
}

func TestBusConcurrentProducers(t *testing.T) {
	bus := NewBus()
	const producers = 8
	const perProducer = 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = bus.Send(Render{})
			}
		}()
	}
	wg.Wait()

	if got := len(bus.Drain()); got != producers*perProducer {
		t.Errorf("Expected %d commands, got %d", producers*perProducer, got)
	}
}

func TestErrorf(t *testing.T) {
	err := errors.New("boom")
	if got := Errorf("save", err).Message; got != "save: boom" {
		t.Errorf("Expected 'save: boom', got %q", got)
	}
	if got := Errorf("", err).Message; got != "boom" {
		t.Errorf("Expected 'boom', got %q", got)
	}
}
