package radio

import "sync"

const subscriptionBuffer = 16

// Subscription delivers the value that was current at subscribe time,
// followed by every later publication on the channel, in publish order.
type Subscription[T any] struct {
	ch     chan T
	cancel func()
	once   sync.Once
}

// Values returns the receive channel. It is closed when the subscription is
// cancelled or the coordinator shuts down.
func (s *Subscription[T]) Values() <-chan T {
	return s.ch
}

// Cancel detaches the subscription. Other subscribers are unaffected. Safe
// to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// broadcaster is a replay-latest pub/sub channel. One lock guards the
// current value and the subscriber list, so "read current" and "attach for
// future values" happen atomically on subscribe.
type broadcaster[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]chan T
	nextID  int
	closed  bool
}

func newBroadcaster[T any](initial T) *broadcaster[T] {
	return &broadcaster[T]{
		current: initial,
		subs:    make(map[int]chan T),
	}
}

// publish records v as the current value and fans it out. Sends are
// non-blocking: a subscriber whose buffer is full misses intermediate
// values but still observes the latest on its next receive cycle, and never
// stalls the publisher.
func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.current = v
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			// Drop if the subscriber is not keeping up.
		}
	}
}

// latest returns the current value.
func (b *broadcaster[T]) latest() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// subscribe attaches a new subscriber. The returned subscription already
// holds the current value, so observers never render a blank initial state.
func (b *broadcaster[T]) subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, subscriptionBuffer)
	ch <- b.current

	if b.closed {
		close(ch)
		return &Subscription[T]{ch: ch, cancel: func() {}}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return &Subscription[T]{
		ch: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		},
	}
}

// close detaches and closes every subscriber channel. Further publishes are
// ignored.
func (b *broadcaster[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
