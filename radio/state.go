package radio

// PlaybackState represents the current state of the live stream connection.
type PlaybackState int

const (
	// StateIdle indicates nothing is playing and no connection is held.
	StateIdle PlaybackState = iota
	// StateConnecting indicates the stream is being opened.
	StateConnecting
	// StatePlaying indicates live audio is coming out of the speaker.
	StatePlaying
	// StatePaused indicates the user paused; the connection is released.
	StatePaused
	// StateReconnecting indicates a dropped connection is being recovered.
	StateReconnecting
	// StateFailed indicates reconnection gave up; user action is required.
	StateFailed
)

// String returns the string representation of the state.
func (s PlaybackState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsLoading reports whether the state counts as loading for observers.
func (s PlaybackState) IsLoading() bool {
	return s == StateConnecting || s == StateReconnecting
}

// IsActive reports whether a connection is held or being established.
func (s PlaybackState) IsActive() bool {
	return s == StateConnecting || s == StatePlaying || s == StateReconnecting
}

// StateMachine enforces valid playback state transitions.
type StateMachine struct {
	current     PlaybackState
	transitions map[PlaybackState][]PlaybackState
	onEnter     map[PlaybackState]func()
}

// NewStateMachine creates a state machine with the valid transition table.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[PlaybackState][]PlaybackState{
			StateIdle:         {StateConnecting},
			StateConnecting:   {StatePlaying, StateReconnecting, StatePaused, StateIdle},
			StatePlaying:      {StatePaused, StateReconnecting, StateIdle},
			StatePaused:       {StateConnecting, StateIdle},
			StateReconnecting: {StatePlaying, StateFailed, StatePaused, StateIdle},
			StateFailed:       {StateConnecting, StateIdle},
		},
		onEnter: make(map[PlaybackState]func()),
	}
}

// Transition attempts to move to the specified state. It returns false and
// leaves the machine untouched if the transition is not in the table.
func (sm *StateMachine) Transition(to PlaybackState) bool {
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() PlaybackState {
	return sm.current
}

// OnEnter registers a callback invoked after entering a state.
func (sm *StateMachine) OnEnter(state PlaybackState, fn func()) {
	sm.onEnter[state] = fn
}
