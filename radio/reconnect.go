package radio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Reconnection cycle. Exactly one cycle runs at a time per coordinator; a
// user pause or shutdown cancels it, and a cancelled cycle publishes
// nothing further.

func (c *Coordinator) startReconnectLocked(cause error) {
	if c.reconnectCancel != nil {
		// A cycle is already in flight.
		return
	}

	cancelled := make(chan struct{})
	c.reconnectCancel = sync.OnceFunc(func() { close(cancelled) })

	c.wg.Add(1)
	go c.reconnectLoop(cancelled, cause)
}

func (c *Coordinator) cancelReconnectLocked() {
	if c.reconnectCancel != nil {
		c.reconnectCancel()
		c.reconnectCancel = nil
	}
	c.attemptResult = nil
}

func (c *Coordinator) reconnectLoop(cancelled <-chan struct{}, cause error) {
	defer c.wg.Done()

	log.Info("starting reconnection cycle", "cause", cause, "max_retries", c.cfg.MaxRetries)

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if !c.announceAttempt(cancelled) {
			return
		}

		delay := c.cfg.retryDelayFor(attempt)
		select {
		case <-cancelled:
			return
		case <-c.done:
			return
		case <-time.After(delay):
		}

		outcome := c.attemptOnce(cancelled)
		switch outcome {
		case attemptCancelled:
			return
		case attemptRecovered:
			c.finishRecovery(cancelled, attempt)
			return
		case attemptFailed:
			log.Warn("reconnection attempt failed", "attempt", attempt, "max_retries", c.cfg.MaxRetries, "delay", delay)
		}
	}

	c.giveUp(cancelled)
}

// announceAttempt publishes the per-attempt notice, unless the cycle was
// cancelled in the meantime.
func (c *Coordinator) announceAttempt(cancelled <-chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-cancelled:
		return false
	default:
	}
	if c.closed {
		return false
	}
	c.setNoticeLocked(Notice{Text: "Reconnecting…", Kind: NoticeInfo})
	return true
}

type attemptOutcome int

const (
	attemptFailed attemptOutcome = iota
	attemptRecovered
	attemptCancelled
)

// attemptOnce re-opens the stream and waits for the engine's verdict, a
// timeout, or cancellation.
func (c *Coordinator) attemptOnce(cancelled <-chan struct{}) attemptOutcome {
	c.mu.Lock()
	select {
	case <-cancelled:
		c.mu.Unlock()
		return attemptCancelled
	default:
	}
	if c.closed {
		c.mu.Unlock()
		return attemptCancelled
	}

	result := make(chan Event, 1)
	c.attemptResult = result
	err := c.engine.Open(c.cfg.StreamURL)
	c.mu.Unlock()

	if err != nil {
		c.clearAttempt()
		return attemptFailed
	}

	timer := time.NewTimer(c.cfg.ConnectTimeout)
	defer timer.Stop()

	for {
		select {
		case <-cancelled:
			c.clearAttempt()
			return attemptCancelled
		case <-c.done:
			c.clearAttempt()
			return attemptCancelled
		case <-timer.C:
			c.clearAttempt()
			_ = c.engine.Stop()
			return attemptFailed
		case ev := <-result:
			switch ev.Type {
			case EventPlaying:
				c.clearAttempt()
				return attemptRecovered
			case EventFailed:
				c.clearAttempt()
				return attemptFailed
			default:
				// Teardown acknowledgement from the previous connection;
				// the verdict is still pending.
			}
		}
	}
}

func (c *Coordinator) clearAttempt() {
	c.mu.Lock()
	c.attemptResult = nil
	c.mu.Unlock()
}

// finishRecovery transitions back to Playing and emits the one-shot success
// notice. A cancellation that raced the successful open wins: the stream is
// released and nothing is published.
func (c *Coordinator) finishRecovery(cancelled <-chan struct{}, attempts int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-cancelled:
		_ = c.engine.Stop()
		return
	default:
	}
	if c.closed {
		_ = c.engine.Stop()
		return
	}

	c.cancelReconnectLocked()
	_ = c.engine.SetVolume(c.volume)
	c.machine.Transition(StatePlaying)
	c.publishStateLocked()
	c.setNoticeLocked(Notice{Text: "Reconnected", Kind: NoticeSuccess})
	log.Info("stream recovered", "attempts", attempts)
}

// giveUp transitions to Failed with a persistent notice. The only way out
// is a manual TogglePlayback, which restarts from attempt 1.
func (c *Coordinator) giveUp(cancelled <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-cancelled:
		return
	default:
	}
	if c.closed {
		return
	}

	c.cancelReconnectLocked()
	_ = c.engine.Stop()
	c.machine.Transition(StateFailed)
	c.publishStateLocked()
	c.setNoticeLocked(Notice{Text: "Connection lost. Press play to try again.", Kind: NoticeFailure})
	log.Error("reconnection attempts exhausted", "max_retries", c.cfg.MaxRetries)
}
