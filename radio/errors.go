package radio

import "errors"

// Common errors for the playback coordinator.
var (
	// Coordinator errors
	ErrNotInitialized     = errors.New("coordinator is not initialized")
	ErrAlreadyInitialized = errors.New("coordinator is already initialized")
	ErrShutdown           = errors.New("coordinator has been shut down")
	ErrInvalidTransition  = errors.New("invalid playback state transition")

	// Engine errors
	ErrEngineUnavailable = errors.New("audio engine is unavailable")
	ErrOpenFailed        = errors.New("stream could not be opened")
	ErrStreamLost        = errors.New("stream connection lost")
	ErrConnectTimeout    = errors.New("timed out waiting for the stream to start")

	// Reconnection errors
	ErrRetriesExhausted = errors.New("reconnection attempts exhausted")
	ErrCycleActive      = errors.New("a reconnection cycle is already active")

	// Configuration errors
	ErrMissingStreamURL = errors.New("stream URL is not configured")
	ErrInvalidVolume    = errors.New("volume must be between 0.0 and 1.0")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// Subscription errors
	ErrSubscriptionClosed = errors.New("subscription is closed")
)
