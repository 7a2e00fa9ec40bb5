package radio

import (
	"fmt"
	"time"
)

// Config holds configuration for the playback coordinator.
type Config struct {
	// StreamURL is the live stream endpoint.
	StreamURL string

	// MaxRetries bounds a reconnection cycle. Once exceeded the coordinator
	// gives up and transitions to Failed.
	MaxRetries int

	// RetryDelay is the delay before the first reconnection attempt. The
	// delay grows linearly with the attempt number.
	RetryDelay time.Duration

	// MaxRetryDelay caps the growing retry delay.
	MaxRetryDelay time.Duration

	// ConnectTimeout bounds how long a single attempt waits for the engine
	// to report playing before counting the attempt as failed.
	ConnectTimeout time.Duration

	// NoticeDuration is how long transient notices stay visible.
	NoticeDuration time.Duration

	// InitialVolume is used when the volume bridge reports nothing useful.
	InitialVolume float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		StreamURL:      "https://stream.ambientestereo.fm/live",
		MaxRetries:     5,
		RetryDelay:     3 * time.Second,
		MaxRetryDelay:  15 * time.Second,
		ConnectTimeout: 20 * time.Second,
		NoticeDuration: 3 * time.Second,
		InitialVolume:  0.8,
	}
}

// Validate checks the configuration for values the coordinator cannot run
// with.
func (c Config) Validate() error {
	if c.StreamURL == "" {
		return ErrMissingStreamURL
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%w: max retries must be at least 1, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("%w: retry delay must be positive, got %v", ErrInvalidConfig, c.RetryDelay)
	}
	if c.MaxRetryDelay < c.RetryDelay {
		return fmt.Errorf("%w: max retry delay %v is below the base delay %v", ErrInvalidConfig, c.MaxRetryDelay, c.RetryDelay)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: connect timeout must be positive, got %v", ErrInvalidConfig, c.ConnectTimeout)
	}
	if c.NoticeDuration <= 0 {
		return fmt.Errorf("%w: notice duration must be positive, got %v", ErrInvalidConfig, c.NoticeDuration)
	}
	if c.InitialVolume < 0 || c.InitialVolume > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidVolume, c.InitialVolume)
	}
	return nil
}

// retryDelayFor returns the backoff delay before the given attempt
// (1-based). Growth is linear and capped at MaxRetryDelay.
func (c Config) retryDelayFor(attempt int) time.Duration {
	d := c.RetryDelay * time.Duration(attempt)
	if d > c.MaxRetryDelay {
		return c.MaxRetryDelay
	}
	return d
}
