package radio

// NoticeKind categorizes a notice for rendering.
type NoticeKind int

const (
	// NoticeInfo is a transient informational message.
	NoticeInfo NoticeKind = iota
	// NoticeSuccess is a transient confirmation message.
	NoticeSuccess
	// NoticeFailure is a persistent message that stays until the user acts.
	NoticeFailure
)

// String returns the string representation of the notice kind.
func (k NoticeKind) String() string {
	switch k {
	case NoticeInfo:
		return "info"
	case NoticeSuccess:
		return "success"
	case NoticeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Notice is a short-lived status message distinct from the playback state.
// The zero value means "no notice".
type Notice struct {
	Text string
	Kind NoticeKind
}

// IsZero reports whether the notice is empty.
func (n Notice) IsZero() bool {
	return n.Text == ""
}

// transient reports whether the notice auto-expires after the display
// window. Failure notices stay until the next user action.
func (n Notice) transient() bool {
	return n.Kind != NoticeFailure
}
