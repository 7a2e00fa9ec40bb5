// Package radio implements the live playback coordinator for the
// Ambiente Stereo 88.4 stream: a single process-wide service that owns the
// one audio connection, recovers from network failures, and fans its state
// out to any number of independent observers.
package radio

// Engine defines the interface to the underlying audio engine. The
// coordinator is its only caller; UI code never touches it directly.
type Engine interface {
	// Open begins opening the given stream URL. It returns an error only if
	// the request cannot be issued at all (for example the platform audio
	// subsystem is unavailable); the outcome of the connection itself is
	// reported asynchronously on Events.
	Open(url string) error

	// Stop tears down the current connection and silences output. Safe to
	// call when nothing is open.
	Stop() error

	// SetVolume applies a volume level in [0.0, 1.0] to the output.
	SetVolume(level float64) error

	// Events returns the channel on which the engine reports playback
	// events. The channel is owned by the engine and closed on Close.
	Events() <-chan Event

	// Close releases the engine. No events are delivered afterwards.
	Close() error
}

// EventType identifies an engine event.
type EventType int

const (
	// EventPlaying indicates the stream connected and audio is flowing.
	EventPlaying EventType = iota
	// EventFailed indicates the connection attempt or the live stream
	// failed. Err carries the cause.
	EventFailed
	// EventStopped indicates the engine finished tearing down after Stop.
	EventStopped
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventPlaying:
		return "playing"
	case EventFailed:
		return "failed"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is a playback event reported by an Engine.
type Event struct {
	Type EventType
	Err  error
}

// StreamInfo describes the connected stream, as far as the engine knows it.
type StreamInfo struct {
	Format     string // e.g. "MP3"
	Bitrate    int    // kbit/s, 0 if unknown
	SampleRate int    // Hz, 0 if unknown
}

// VolumeBridge reports the device's hardware volume, independent of the
// engine. Pushes on Changes follow the same update path as in-app writes.
type VolumeBridge interface {
	// Level returns the current hardware volume in [0.0, 1.0].
	Level() float64

	// Changes returns the channel on which hardware volume changes are
	// delivered. May be nil if the platform has no mixer hook.
	Changes() <-chan float64
}

// NopBridge is a VolumeBridge for platforms without a mixer hook. It holds a
// fixed level and never reports changes.
type NopBridge struct {
	level float64
}

// NewNopBridge creates a bridge that always reports the given level.
func NewNopBridge(level float64) *NopBridge {
	return &NopBridge{level: level}
}

// Level returns the fixed level.
func (b *NopBridge) Level() float64 { return b.level }

// Changes returns nil; a nil channel blocks forever in a select.
func (b *NopBridge) Changes() <-chan float64 { return nil }
