package radio_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio/engines/mock"
)

func testConfig() radio.Config {
	cfg := radio.DefaultConfig()
	cfg.StreamURL = "http://stream.test/live"
	cfg.MaxRetries = 3
	cfg.RetryDelay = 5 * time.Millisecond
	cfg.MaxRetryDelay = 20 * time.Millisecond
	cfg.ConnectTimeout = 200 * time.Millisecond
	cfg.NoticeDuration = 40 * time.Millisecond
	return cfg
}

func newTestCoordinator(t *testing.T, engine radio.Engine, bridge radio.VolumeBridge) *radio.Coordinator {
	t.Helper()
	c, err := radio.NewCoordinator(testConfig(), engine, bridge)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Shutdown() })
	return c
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

// awaitValue drains the subscription until want arrives.
func awaitValue[T comparable](t *testing.T, sub *radio.Subscription[T], want T) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-sub.Values():
			if !ok {
				t.Fatalf("subscription closed while waiting for %v", want)
			}
			if v == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for value %v", want)
		}
	}
}

type fakeBridge struct {
	level float64
	ch    chan float64
}

func (b *fakeBridge) Level() float64          { return b.level }
func (b *fakeBridge) Changes() <-chan float64 { return b.ch }

func TestTogglePlaybackHappyPath(t *testing.T) {
	engine := mock.New()
	engine.Enqueue(radio.Event{Type: radio.EventPlaying})
	c := newTestCoordinator(t, engine, nil)

	loading := c.SubscribeLoading()
	playing := c.SubscribePlaying()
	defer loading.Cancel()
	defer playing.Cancel()

	// Both channels replay their current value first.
	awaitValue(t, loading, false)
	awaitValue(t, playing, false)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}

	// Loading turns true for the connect, playing follows, loading drops.
	awaitValue(t, loading, true)
	awaitValue(t, playing, true)
	awaitValue(t, loading, false)

	if got := c.State(); got != radio.StatePlaying {
		t.Errorf("State() = %v, want playing", got)
	}
	if !c.IsPlaying() || c.IsLoading() {
		t.Errorf("snapshot = playing:%v loading:%v, want playing:true loading:false", c.IsPlaying(), c.IsLoading())
	}
	if got := engine.OpenCount(); got != 1 {
		t.Errorf("engine opens = %d, want 1", got)
	}
}

func TestTogglePlaybackOpenFailureReportsToCaller(t *testing.T) {
	engine := mock.New()
	engine.SetOpenError(errors.New("audio subsystem unavailable"))
	c := newTestCoordinator(t, engine, nil)

	if err := c.TogglePlayback(); err == nil {
		t.Fatal("TogglePlayback() = nil, want error when the engine cannot open")
	}

	if got := c.State(); got != radio.StateIdle {
		t.Errorf("State() after failed open = %v, want idle", got)
	}
	if c.IsLoading() {
		t.Error("IsLoading() = true after failed open, want false")
	}
	if !c.CurrentNotice().IsZero() {
		t.Errorf("open failures must not use the notice channel, got %q", c.CurrentNotice().Text)
	}
}

func TestPauseAndResume(t *testing.T) {
	engine := mock.New()
	engine.SetDefaultOutcome(&radio.Event{Type: radio.EventPlaying})
	c := newTestCoordinator(t, engine, nil)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}
	waitFor(t, "playing", c.IsPlaying)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() pause error = %v", err)
	}
	if got := c.State(); got != radio.StatePaused {
		t.Errorf("State() after pause = %v, want paused", got)
	}
	if c.IsPlaying() {
		t.Error("IsPlaying() = true after pause")
	}
	if got := engine.StopCount(); got < 1 {
		t.Errorf("engine stops = %d, want at least 1", got)
	}

	// Resume re-opens the stream from scratch; a live stream has no seek.
	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() resume error = %v", err)
	}
	waitFor(t, "playing after resume", c.IsPlaying)
	if got := engine.OpenCount(); got != 2 {
		t.Errorf("engine opens = %d, want 2", got)
	}
}

func TestSetVolumeClampsAndPublishes(t *testing.T) {
	engine := mock.New()
	c := newTestCoordinator(t, engine, nil)

	sub := c.SubscribeVolume()
	defer sub.Cancel()

	tests := []struct {
		name     string
		level    float64
		expected float64
	}{
		{"above range", 1.4, 1.0},
		{"below range", -0.5, 0.0},
		{"in range", 0.65, 0.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetVolume(tt.level)
			awaitValue(t, sub, tt.expected)
			if got := c.Volume(); got != tt.expected {
				t.Errorf("Volume() = %v, want %v", got, tt.expected)
			}
			if got := engine.Volume(); got != tt.expected {
				t.Errorf("engine volume = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVolumeLastWriterWins(t *testing.T) {
	engine := mock.New()
	bridge := &fakeBridge{level: 0.5, ch: make(chan float64, 8)}
	c := newTestCoordinator(t, engine, bridge)

	if got := c.Volume(); got != 0.5 {
		t.Fatalf("initial volume = %v, want bridge level 0.5", got)
	}

	// Hardware push followed by an in-app write: the later write wins and
	// is mirrored into the engine.
	bridge.ch <- 0.9
	waitFor(t, "bridge push applied", func() bool { return c.Volume() == 0.9 })

	c.SetVolume(0.3)
	waitFor(t, "app write applied", func() bool { return c.Volume() == 0.3 })

	bridge.ch <- 0.7
	waitFor(t, "second bridge push applied", func() bool { return c.Volume() == 0.7 })

	if got := engine.Volume(); got != 0.7 {
		t.Errorf("engine volume = %v, want 0.7", got)
	}
}

func TestLateSubscriberGetsLatestValue(t *testing.T) {
	engine := mock.New()
	engine.Enqueue(radio.Event{Type: radio.EventPlaying})
	c := newTestCoordinator(t, engine, nil)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}
	waitFor(t, "playing", c.IsPlaying)
	c.SetVolume(0.42)

	playing := c.SubscribePlaying()
	loading := c.SubscribeLoading()
	volume := c.SubscribeVolume()
	defer playing.Cancel()
	defer loading.Cancel()
	defer volume.Cancel()

	if got := <-playing.Values(); got != true {
		t.Errorf("late playing subscriber first value = %v, want true", got)
	}
	if got := <-loading.Values(); got != false {
		t.Errorf("late loading subscriber first value = %v, want false", got)
	}
	if got := <-volume.Values(); got != 0.42 {
		t.Errorf("late volume subscriber first value = %v, want 0.42", got)
	}
}

func TestReconnectionExhaustionIsBounded(t *testing.T) {
	engine := mock.New()
	engine.SetDefaultOutcome(&radio.Event{Type: radio.EventFailed, Err: radio.ErrStreamLost})
	c := newTestCoordinator(t, engine, nil)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}

	waitFor(t, "failed state", func() bool { return c.State() == radio.StateFailed })

	// Initial connect plus exactly MaxRetries attempts, then it stops.
	if got := engine.OpenCount(); got != 4 {
		t.Errorf("engine opens = %d, want 4 (1 connect + 3 retries)", got)
	}

	notice := c.CurrentNotice()
	if notice.IsZero() || notice.Kind != radio.NoticeFailure {
		t.Errorf("terminal notice = %+v, want a persistent failure notice", notice)
	}

	// Persistent notices outlive the display window.
	time.Sleep(3 * testConfig().NoticeDuration)
	if c.CurrentNotice().IsZero() {
		t.Error("failure notice expired, want it to persist until user action")
	}

	// A manual toggle restarts the whole cycle from attempt 1.
	engine.SetDefaultOutcome(nil)
	engine.Enqueue(radio.Event{Type: radio.EventPlaying})
	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() restart error = %v", err)
	}
	waitFor(t, "playing after restart", c.IsPlaying)
	if !c.CurrentNotice().IsZero() {
		t.Errorf("restart should clear the failure notice, got %q", c.CurrentNotice().Text)
	}
}

func TestTransientDropRecoversOnSecondRetry(t *testing.T) {
	engine := mock.New()
	engine.Enqueue(radio.Event{Type: radio.EventPlaying})
	c := newTestCoordinator(t, engine, nil)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}
	waitFor(t, "playing", c.IsPlaying)

	notices := c.SubscribeNotice()
	defer notices.Cancel()

	// First retry fails, second succeeds.
	engine.Enqueue(
		radio.Event{Type: radio.EventFailed, Err: radio.ErrStreamLost},
		radio.Event{Type: radio.EventPlaying},
	)
	engine.Emit(radio.Event{Type: radio.EventFailed, Err: radio.ErrStreamLost})

	awaitValue(t, notices, radio.Notice{Text: "Reconnecting…", Kind: radio.NoticeInfo})
	awaitValue(t, notices, radio.Notice{Text: "Reconnected", Kind: radio.NoticeSuccess})

	waitFor(t, "playing after recovery", c.IsPlaying)
	if got := c.State(); got != radio.StatePlaying {
		t.Errorf("State() = %v, want playing", got)
	}

	// One for the initial connect, two for the cycle.
	if got := engine.OpenCount(); got != 3 {
		t.Errorf("engine opens = %d, want 3 (recovered on retry 2)", got)
	}

	// The success notice clears on its own within the display window.
	awaitValue(t, notices, radio.Notice{})
}

func TestPauseDuringReconnectionSilencesCycle(t *testing.T) {
	engine := mock.New()
	engine.SetDefaultOutcome(&radio.Event{Type: radio.EventFailed, Err: radio.ErrStreamLost})
	c := newTestCoordinator(t, engine, nil)

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}
	waitFor(t, "reconnecting state", func() bool { return c.State() == radio.StateReconnecting })

	if err := c.TogglePlayback(); err != nil {
		t.Fatalf("TogglePlayback() pause error = %v", err)
	}
	if got := c.State(); got != radio.StatePaused {
		t.Fatalf("State() after pause = %v, want paused", got)
	}

	opens := engine.OpenCount()
	playing := c.SubscribePlaying()
	loading := c.SubscribeLoading()
	notices := c.SubscribeNotice()
	defer playing.Cancel()
	defer loading.Cancel()
	defer notices.Cancel()

	// Drain the replayed current values.
	<-playing.Values()
	<-loading.Values()
	<-notices.Values()

	// Give the cancelled cycle ten retry windows to misbehave.
	time.Sleep(10 * testConfig().RetryDelay)

	if got := engine.OpenCount(); got != opens {
		t.Errorf("engine opens grew from %d to %d after cancellation", opens, got)
	}
	select {
	case v := <-playing.Values():
		t.Errorf("playing published %v after cancellation", v)
	case v := <-loading.Values():
		t.Errorf("loading published %v after cancellation", v)
	case v := <-notices.Values():
		t.Errorf("notice published %+v after cancellation", v)
	default:
	}
}

func TestSharedInstanceIdentity(t *testing.T) {
	radio.ResetDefault()
	t.Cleanup(radio.ResetDefault)

	if _, err := radio.Default(); !errors.Is(err, radio.ErrNotInitialized) {
		t.Fatalf("Default() before Init error = %v, want ErrNotInitialized", err)
	}

	first, err := radio.Init(testConfig(), mock.New(), nil)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// Init is idempotent; later calls ignore their arguments.
	second, err := radio.Init(testConfig(), mock.New(), nil)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if first != second {
		t.Error("Init() returned a different instance on the second call")
	}

	got, err := radio.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if got != first {
		t.Error("Default() returned a different instance than Init()")
	}
}

func TestShutdown(t *testing.T) {
	engine := mock.New()
	c := newTestCoordinator(t, engine, nil)

	sub := c.SubscribePlaying()

	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := c.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v, want nil", err)
	}

	waitFor(t, "subscription closed", func() bool {
		select {
		case _, ok := <-sub.Values():
			return !ok
		default:
			return false
		}
	})

	if err := c.TogglePlayback(); !errors.Is(err, radio.ErrShutdown) {
		t.Errorf("TogglePlayback() after shutdown error = %v, want ErrShutdown", err)
	}
}
