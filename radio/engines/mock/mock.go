// Package mock provides a scriptable audio engine for testing the playback
// coordinator.
package mock

import (
	"sync"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
)

const eventBuffer = 32

// Engine implements radio.Engine with scriptable outcomes. Each successful
// Open consumes the next queued outcome and emits it on the events channel;
// when the queue is empty the default outcome applies. Tests can also
// inject events directly with Emit.
type Engine struct {
	mu             sync.Mutex
	events         chan radio.Event
	openErr        error
	queue          []radio.Event
	defaultOutcome *radio.Event
	emitStopped    bool

	openCount int
	stopCount int
	volume    float64
	closed    bool
}

// New creates a mock engine with no scripted outcomes. Opens succeed
// silently until an outcome is configured.
func New() *Engine {
	return &Engine{
		events: make(chan radio.Event, eventBuffer),
		volume: -1,
	}
}

// Open consumes and emits the next scripted outcome.
func (e *Engine) Open(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return radio.ErrEngineUnavailable
	}
	if e.openErr != nil {
		return e.openErr
	}

	e.openCount++

	var outcome *radio.Event
	if len(e.queue) > 0 {
		outcome = &e.queue[0]
		e.queue = e.queue[1:]
	} else if e.defaultOutcome != nil {
		outcome = e.defaultOutcome
	}
	if outcome != nil {
		e.emitLocked(*outcome)
	}
	return nil
}

// Stop counts the teardown and, when configured, acknowledges it with an
// EventStopped.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopCount++
	if e.emitStopped && !e.closed {
		e.emitLocked(radio.Event{Type: radio.EventStopped})
	}
	return nil
}

// SetVolume records the most recent level pushed by the coordinator.
func (e *Engine) SetVolume(level float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	return nil
}

// Events returns the engine's event channel.
func (e *Engine) Events() <-chan radio.Event {
	return e.events
}

// Close closes the event channel. Further opens fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.closed = true
		close(e.events)
	}
	return nil
}

// Test control methods

// SetOpenError makes Open fail synchronously with err. Pass nil to restore
// normal operation.
func (e *Engine) SetOpenError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openErr = err
}

// Enqueue queues outcomes, one consumed per successful Open.
func (e *Engine) Enqueue(outcomes ...radio.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, outcomes...)
}

// SetDefaultOutcome sets the outcome emitted by every Open once the queue is
// drained. Pass nil for silence.
func (e *Engine) SetDefaultOutcome(ev *radio.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaultOutcome = ev
}

// EmitStoppedOnStop makes Stop acknowledge with an EventStopped, as the
// production engine does.
func (e *Engine) EmitStoppedOnStop(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emitStopped = on
}

// Emit injects an event, simulating an asynchronous engine callback such as
// a mid-stream failure.
func (e *Engine) Emit(ev radio.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.emitLocked(ev)
	}
}

// OpenCount returns the number of successful Open calls.
func (e *Engine) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openCount
}

// StopCount returns the number of Stop calls.
func (e *Engine) StopCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopCount
}

// Volume returns the last level pushed via SetVolume, or -1 if none.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Engine) emitLocked(ev radio.Event) {
	select {
	case e.events <- ev:
	default:
		// Tests that overflow the buffer are broken anyway.
	}
}
