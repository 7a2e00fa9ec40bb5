package beepengine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLevelToExponent(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		want  float64
	}{
		{"muted", 0.0, minVolumeDB},
		{"below range", -0.3, minVolumeDB},
		{"full", 1.0, 0},
		{"above range", 1.5, 0},
		{"quarter", 0.25, -5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levelToExponent(tt.level)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("levelToExponent(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevelToExponentMonotonic(t *testing.T) {
	prev := levelToExponent(0)
	for level := 0.05; level <= 1.0; level += 0.05 {
		cur := levelToExponent(level)
		if cur < prev {
			t.Fatalf("exponent decreased at level %.2f: %v < %v", level, cur, prev)
		}
		prev = cur
	}
}

// blockingReader never returns data and unblocks only when closed.
type blockingReader struct {
	unblock chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{unblock: make(chan struct{})}
}

func (r *blockingReader) Read(p []byte) (int, error) {
	<-r.unblock
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	close(r.unblock)
	return nil
}

func TestTimeoutReadCloserPassesDataThrough(t *testing.T) {
	body := io.NopCloser(strings.NewReader("abc"))
	r := &timeoutReadCloser{body: body, ctx: context.Background(), timeout: time.Second}

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := string(buf[:n]); got != "abc" {
		t.Errorf("Read() = %q, want %q", got, "abc")
	}
}

func TestTimeoutReadCloserFailsStalledRead(t *testing.T) {
	body := newBlockingReader()
	defer body.Close()
	r := &timeoutReadCloser{body: body, ctx: context.Background(), timeout: 10 * time.Millisecond}

	_, err := r.Read(make([]byte, 8))
	if err == nil {
		t.Fatal("Read() on a stalled connection returned nil error")
	}
	if !strings.Contains(err.Error(), "read timeout") {
		t.Errorf("Read() error = %v, want read timeout", err)
	}
}

func TestTimeoutReadCloserHonorsCancellation(t *testing.T) {
	body := newBlockingReader()
	defer body.Close()
	ctx, cancel := context.WithCancel(context.Background())
	r := &timeoutReadCloser{body: body, ctx: ctx, timeout: time.Minute}

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}

	// And a pre-cancelled context fails before dispatching a read at all.
	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() after cancel error = %v, want context.Canceled", err)
	}
}
