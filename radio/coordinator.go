package radio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Coordinator owns the single live-audio connection. It drives the engine,
// tracks connection state, runs the reconnection policy, and multiplexes
// state changes out to any number of subscribers on four independent
// broadcast channels (playing, loading, volume, notice).
//
// All mutations to playback state and volume are serialized through one
// mutex, so concurrent calls from different screens and asynchronous pushes
// from the hardware volume bridge are applied atomically and in a
// well-defined order.
type Coordinator struct {
	engine Engine
	bridge VolumeBridge
	cfg    Config

	mu      sync.Mutex
	machine *StateMachine
	volume  float64

	playing   *broadcaster[bool]
	loading   *broadcaster[bool]
	volumeCh  *broadcaster[float64]
	noticeCh  *broadcaster[Notice]
	noticeSeq int

	// Reconnection cycle bookkeeping. reconnectCancel is non-nil exactly
	// while a cycle is active; attemptResult is non-nil while one attempt
	// waits for the engine's verdict.
	reconnectCancel func()
	attemptResult   chan Event

	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewCoordinator creates an isolated coordinator. Application code should
// normally go through Init/Default; tests construct their own instances.
func NewCoordinator(cfg Config, engine Engine, bridge VolumeBridge) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, ErrEngineUnavailable
	}
	if bridge == nil {
		bridge = NewNopBridge(cfg.InitialVolume)
	}

	c := &Coordinator{
		engine:  engine,
		bridge:  bridge,
		cfg:     cfg,
		machine: NewStateMachine(),
		volume:  clampVolume(bridge.Level()),
		done:    make(chan struct{}),
	}
	c.playing = newBroadcaster(false)
	c.loading = newBroadcaster(false)
	c.volumeCh = newBroadcaster(c.volume)
	c.noticeCh = newBroadcaster(Notice{})

	c.wg.Add(1)
	go c.run()

	return c, nil
}

// TogglePlayback toggles between connecting/playing and paused. It returns
// an error only if the engine cannot even be asked to open a connection;
// post-connection streaming failures are reported on the notice channel
// instead.
func (c *Coordinator) TogglePlayback() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrShutdown
	}

	switch c.machine.Current() {
	case StateIdle, StatePaused, StateFailed:
		return c.connectLocked()
	default:
		// Connecting, Playing or Reconnecting: user pause. Cancels any
		// pending reconnection attempt before it can fire.
		c.pauseLocked()
		return nil
	}
}

// SetVolume clamps level to [0.0, 1.0], mirrors it into the engine, and
// publishes it on the volume channel. Fire-and-forget.
func (c *Coordinator) SetVolume(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.applyVolumeLocked(level)
}

// SubscribePlaying delivers the current playing flag immediately, then every
// change.
func (c *Coordinator) SubscribePlaying() *Subscription[bool] {
	return c.playing.subscribe()
}

// SubscribeLoading delivers the current loading flag immediately, then every
// change.
func (c *Coordinator) SubscribeLoading() *Subscription[bool] {
	return c.loading.subscribe()
}

// SubscribeVolume delivers the current volume immediately, then every change.
func (c *Coordinator) SubscribeVolume() *Subscription[float64] {
	return c.volumeCh.subscribe()
}

// SubscribeNotice delivers the current notice immediately, then every change.
// The zero Notice means no message is showing.
func (c *Coordinator) SubscribeNotice() *Subscription[Notice] {
	return c.noticeCh.subscribe()
}

// IsPlaying reports the latest published playing flag.
func (c *Coordinator) IsPlaying() bool {
	return c.playing.latest()
}

// IsLoading reports the latest published loading flag.
func (c *Coordinator) IsLoading() bool {
	return c.loading.latest()
}

// Volume reports the latest published volume level.
func (c *Coordinator) Volume() float64 {
	return c.volumeCh.latest()
}

// CurrentNotice reports the latest published notice.
func (c *Coordinator) CurrentNotice() Notice {
	return c.noticeCh.latest()
}

// State returns the current playback state.
func (c *Coordinator) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Shutdown cancels any reconnection cycle, releases the engine, and closes
// every subscription. The coordinator is unusable afterwards.
func (c *Coordinator) Shutdown() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancelReconnectLocked()
	c.machine.Transition(StateIdle)
	c.mu.Unlock()

	close(c.done)
	err := c.engine.Close()
	c.wg.Wait()

	c.playing.close()
	c.loading.close()
	c.volumeCh.close()
	c.noticeCh.close()

	if err != nil {
		return fmt.Errorf("engine close: %w", err)
	}
	return nil
}

// run consumes engine events and hardware volume pushes for the life of the
// coordinator. It is the only reader of both channels, which keeps the two
// write paths funneled through one place.
func (c *Coordinator) run() {
	defer c.wg.Done()

	bridgeCh := c.bridge.Changes()
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-c.engine.Events():
			if !ok {
				return
			}
			c.handleEngineEvent(ev)
		case level := <-bridgeCh:
			c.mu.Lock()
			if !c.closed {
				log.Debug("hardware volume push", "level", level)
				c.applyVolumeLocked(level)
			}
			c.mu.Unlock()
		}
	}
}

func (c *Coordinator) handleEngineEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	// While a reconnection attempt is in flight its outcome belongs to the
	// cycle, not to the normal state machine.
	if c.attemptResult != nil {
		select {
		case c.attemptResult <- ev:
		default:
		}
		return
	}

	switch ev.Type {
	case EventPlaying:
		if c.machine.Current() == StateConnecting {
			c.machine.Transition(StatePlaying)
			c.publishStateLocked()
			log.Debug("stream connected")
		}
	case EventFailed:
		switch c.machine.Current() {
		case StateConnecting, StatePlaying:
			log.Warn("stream failed", "err", ev.Err)
			c.machine.Transition(StateReconnecting)
			c.publishStateLocked()
			c.startReconnectLocked(ev.Err)
		}
	case EventStopped:
		// Teardown acknowledgements carry no state change.
	}
}

func (c *Coordinator) connectLocked() error {
	if err := c.engine.Open(c.cfg.StreamURL); err != nil {
		return fmt.Errorf("cannot open stream: %w", err)
	}
	_ = c.engine.SetVolume(c.volume)

	c.machine.Transition(StateConnecting)
	c.setNoticeLocked(Notice{})
	c.publishStateLocked()
	log.Debug("connecting", "url", c.cfg.StreamURL)
	return nil
}

func (c *Coordinator) pauseLocked() {
	c.cancelReconnectLocked()
	_ = c.engine.Stop()

	c.machine.Transition(StatePaused)
	c.setNoticeLocked(Notice{})
	c.publishStateLocked()
	log.Debug("paused by user")
}

// publishStateLocked derives the playing/loading flags from the current
// state and publishes the ones that changed. Loading is published first so
// that loading=true is always observable before playing=true.
func (c *Coordinator) publishStateLocked() {
	state := c.machine.Current()

	if loading := state.IsLoading(); loading != c.loading.latest() {
		c.loading.publish(loading)
	}
	if playing := state == StatePlaying; playing != c.playing.latest() {
		c.playing.publish(playing)
	}
}

func (c *Coordinator) applyVolumeLocked(level float64) {
	level = clampVolume(level)
	c.volume = level
	_ = c.engine.SetVolume(level)
	c.volumeCh.publish(level)
}

// setNoticeLocked publishes a notice. Transient notices are cleared after
// the configured display window unless a newer notice replaced them first.
func (c *Coordinator) setNoticeLocked(n Notice) {
	c.noticeSeq++
	seq := c.noticeSeq
	c.noticeCh.publish(n)

	if n.IsZero() || !n.transient() {
		return
	}
	time.AfterFunc(c.cfg.NoticeDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.noticeSeq != seq {
			return
		}
		c.noticeSeq++
		c.noticeCh.publish(Notice{})
	})
}

func clampVolume(level float64) float64 {
	switch {
	case level < 0:
		return 0
	case level > 1:
		return 1
	default:
		return level
	}
}

// Process-wide instance. Screens attach and detach constantly while the
// audio connection must persist across navigation, so exactly one
// coordinator exists for the lifetime of the application.
var (
	defaultMu          sync.Mutex
	defaultCoordinator *Coordinator
)

// Init prepares the shared coordinator. It is idempotent: every call after
// the first returns the same instance and ignores its arguments.
func Init(cfg Config, engine Engine, bridge VolumeBridge) (*Coordinator, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCoordinator != nil {
		return defaultCoordinator, nil
	}
	c, err := NewCoordinator(cfg, engine, bridge)
	if err != nil {
		return nil, err
	}
	defaultCoordinator = c
	return c, nil
}

// Default returns the shared coordinator prepared by Init.
func Default() (*Coordinator, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCoordinator == nil {
		return nil, ErrNotInitialized
	}
	return defaultCoordinator, nil
}

// resetDefault tears down the shared instance. Test hook.
func resetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCoordinator != nil {
		_ = defaultCoordinator.Shutdown()
		defaultCoordinator = nil
	}
}
