package radio

import "testing"

func TestNoticeKindString(t *testing.T) {
	tests := []struct {
		kind     NoticeKind
		expected string
	}{
		{NoticeInfo, "info"},
		{NoticeSuccess, "success"},
		{NoticeFailure, "failure"},
		{NoticeKind(9), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("NoticeKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNoticeZeroValue(t *testing.T) {
	var n Notice
	if !n.IsZero() {
		t.Error("zero Notice should report IsZero")
	}
	if (Notice{Text: "Reconnecting…"}).IsZero() {
		t.Error("non-empty Notice should not report IsZero")
	}
}

func TestNoticeTransience(t *testing.T) {
	if !(Notice{Text: "x", Kind: NoticeInfo}).transient() {
		t.Error("info notices should be transient")
	}
	if !(Notice{Text: "x", Kind: NoticeSuccess}).transient() {
		t.Error("success notices should be transient")
	}
	if (Notice{Text: "x", Kind: NoticeFailure}).transient() {
		t.Error("failure notices should persist")
	}
}
