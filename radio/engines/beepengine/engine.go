// Package beepengine implements the audio engine adapter on top of the beep
// speaker pipeline: it fetches the live MP3 stream over HTTP, decodes it,
// and reports connection outcomes on its events channel.
package beepengine

import (
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
)

const (
	speakerBufferSize = 250 * time.Millisecond
	readTimeout       = 5 * time.Second
	dialTimeout       = 10 * time.Second
	headerTimeout     = 15 * time.Second

	// Perceptual volume curve: level in [0,1] maps onto an exponent for
	// beep's base-2 volume effect, bottoming out at minVolumeDB.
	volumeCurveExponent = 0.5
	minVolumeDB         = -10.0

	eventBuffer = 32
)

// Engine streams a live MP3 URL through the system speaker.
type Engine struct {
	client *http.Client
	events chan radio.Event

	mu          sync.Mutex
	cancel      context.CancelFunc
	gen         int // invalidates callbacks from torn-down connections
	level       float64
	volume      *effects.Volume
	speakerInit bool
	sampleRate  beep.SampleRate
	closed      bool
	wg          sync.WaitGroup
}

// New creates an engine with an HTTP client tuned for long-lived streams.
func New() *Engine {
	return &Engine{
		client: &http.Client{
			Timeout: 0, // streams are open-ended
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: dialTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   dialTimeout,
				ResponseHeaderTimeout: headerTimeout,
				IdleConnTimeout:       90 * time.Second,
				DisableCompression:    true,
			},
		},
		events: make(chan radio.Event, eventBuffer),
		level:  1.0,
	}
}

// Open begins connecting to url. The outcome arrives on Events; Open itself
// fails only when the engine is already closed.
func (e *Engine) Open(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return radio.ErrEngineUnavailable
	}
	e.teardownLocked()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.gen++

	e.wg.Add(1)
	go e.stream(ctx, url, e.gen)
	return nil
}

// Stop tears down the current connection and silences output.
func (e *Engine) Stop() error {
	e.mu.Lock()
	e.teardownLocked()
	closed := e.closed
	e.mu.Unlock()

	if !closed {
		e.emit(radio.Event{Type: radio.EventStopped})
	}
	return nil
}

// SetVolume applies a level in [0.0, 1.0], mapped onto a perceptual curve.
func (e *Engine) SetVolume(level float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = level
	if e.volume == nil {
		return nil
	}
	speaker.Lock()
	e.volume.Volume = levelToExponent(level)
	e.volume.Silent = level == 0
	speaker.Unlock()
	return nil
}

// Events returns the engine's event channel.
func (e *Engine) Events() <-chan radio.Event {
	return e.events
}

// Close releases the engine and closes the event channel.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.teardownLocked()
	e.mu.Unlock()

	e.wg.Wait()
	close(e.events)
	return nil
}

// teardownLocked cancels the active connection, if any, and clears the
// speaker queue. Callbacks from the old connection are invalidated via the
// generation counter.
func (e *Engine) teardownLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
	e.volume = nil
	if e.speakerInit {
		speaker.Clear()
	}
}

// stream runs one connection: fetch, decode, play. It emits EventPlaying
// once audio is flowing and EventFailed when the connection dies on its own.
func (e *Engine) stream(ctx context.Context, url string, gen int) {
	defer e.wg.Done()

	fail := func(err error) {
		if ctx.Err() != nil {
			return
		}
		log.Debug("stream connection failed", "url", url, "err", err)
		e.emit(radio.Event{Type: radio.EventFailed, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fail(fmt.Errorf("build request: %w", err))
		return
	}
	req.Header.Set("Icy-MetaData", "0")

	resp, err := e.client.Do(req)
	if err != nil {
		fail(fmt.Errorf("connect: %w", err))
		return
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		fail(fmt.Errorf("stream returned status %d: %s", resp.StatusCode, resp.Status))
		return
	}

	body := &timeoutReadCloser{body: resp.Body, ctx: ctx, timeout: readTimeout}
	streamer, format, err := mp3.Decode(body)
	if err != nil {
		resp.Body.Close()
		fail(fmt.Errorf("decode stream: %w", err))
		return
	}

	if err := e.start(ctx, gen, streamer, format); err != nil {
		streamer.Close()
		resp.Body.Close()
		fail(err)
		return
	}

	log.Debug("stream playing", "url", url, "sample_rate", format.SampleRate)
	e.emit(radio.Event{Type: radio.EventPlaying})

	<-ctx.Done()
	streamer.Close()
	resp.Body.Close()
}

// start wires the decoded streamer through the volume effect into the
// speaker. Holds the engine lock to serialize with Stop/SetVolume.
func (e *Engine) start(ctx context.Context, gen int, streamer beep.StreamSeekCloser, format beep.Format) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if !e.speakerInit || format.SampleRate != e.sampleRate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferSize)); err != nil {
			return fmt.Errorf("initialize speaker: %w", err)
		}
		e.sampleRate = format.SampleRate
		e.speakerInit = true
	}

	e.volume = &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   levelToExponent(e.level),
		Silent:   e.level == 0,
	}

	// The callback fires when the streamer drains, which for a live stream
	// only happens on a broken connection.
	done := beep.Callback(func() {
		e.mu.Lock()
		stale := gen != e.gen || e.closed
		e.mu.Unlock()
		if stale || ctx.Err() != nil {
			return
		}
		e.emit(radio.Event{Type: radio.EventFailed, Err: radio.ErrStreamLost})
	})

	speaker.Play(beep.Seq(e.volume, done))
	return nil
}

func (e *Engine) emit(ev radio.Event) {
	select {
	case e.events <- ev:
	default:
		log.Warn("engine event dropped", "type", ev.Type)
	}
}

func levelToExponent(level float64) float64 {
	if level <= 0 {
		return minVolumeDB
	}
	if level >= 1 {
		return 0
	}
	return (1.0 - math.Pow(level, volumeCurveExponent)) * minVolumeDB
}

// timeoutReadCloser fails a read that produces no data within the timeout,
// so a silently dead connection surfaces as a stream error instead of
// hanging the decoder forever.
type timeoutReadCloser struct {
	body    io.ReadCloser
	ctx     context.Context
	timeout time.Duration
}

func (r *timeoutReadCloser) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := r.body.Read(p)
		done <- result{n, err}
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.n, res.err
	case <-timer.C:
		return 0, fmt.Errorf("read timeout: no data for %v", r.timeout)
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	}
}

func (r *timeoutReadCloser) Close() error {
	return r.body.Close()
}
