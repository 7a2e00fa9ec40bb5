package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/news"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio/engines/mock"
)

func newTestModel(t *testing.T) (model, *mock.Engine) {
	t.Helper()

	engine := mock.New()
	cfg := radio.DefaultConfig()
	cfg.StreamURL = "http://stream.test/live"
	coord, err := radio.NewCoordinator(cfg, engine, nil)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	t.Cleanup(func() { _ = coord.Shutdown() })

	m := newModel(Config{StationName: "Ambiente Stereo 88.4"}, coord, nil)
	m.width = 80
	m.height = 24
	return m, engine
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return out
}

func TestChannelMessagesUpdateSnapshot(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, playingChangedMsg(true))
	if !m.playing {
		t.Error("playing not set after playingChangedMsg")
	}

	m = update(t, m, loadingChangedMsg(true))
	if !m.loading {
		t.Error("loading not set after loadingChangedMsg")
	}

	m = update(t, m, volumeChangedMsg(0.42))
	if m.volume != 0.42 {
		t.Errorf("volume = %v, want 0.42", m.volume)
	}

	m = update(t, m, noticeChangedMsg(radio.Notice{Text: "Reconnecting…", Kind: radio.NoticeInfo}))
	if m.notice.Text != "Reconnecting…" {
		t.Errorf("notice = %q", m.notice.Text)
	}
}

func TestStatusLinePrecedence(t *testing.T) {
	m, _ := newTestModel(t)

	m.playing = true
	m.loading = true
	if got := m.statusLine(); !strings.Contains(got, "connecting") {
		t.Errorf("loading status = %q, want connecting", got)
	}

	m.loading = false
	if got := m.statusLine(); !strings.Contains(got, "on air") {
		t.Errorf("playing status = %q, want on air", got)
	}

	m.playing = false
	if got := m.statusLine(); !strings.Contains(got, "paused") {
		t.Errorf("idle status = %q, want paused", got)
	}
}

func TestTabSwitchesPane(t *testing.T) {
	m, _ := newTestModel(t)

	if m.pane != panePlayer {
		t.Fatalf("initial pane = %v, want player", m.pane)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.pane != paneNews {
		t.Errorf("pane after tab = %v, want news", m.pane)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.pane != panePlayer {
		t.Errorf("pane after second tab = %v, want player", m.pane)
	}
}

func TestNewsCursorBounds(t *testing.T) {
	m, _ := newTestModel(t)
	m.pane = paneNews
	m.articles = []news.Article{
		{ID: 1, Title: "first", Published: time.Now()},
		{ID: 2, Title: "second", Published: time.Now()},
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.cursor != 0 {
		t.Errorf("cursor after k at top = %d, want 0", m.cursor)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.cursor != 1 {
		t.Errorf("cursor after j past end = %d, want 1", m.cursor)
	}
}

func TestArticlesMsgResetsCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = 5

	m = update(t, m, articlesMsg{Page: news.Page{
		Articles:   []news.Article{{ID: 1, Title: "only"}},
		Number:     1,
		TotalPages: 3,
	}})

	if m.cursor != 0 {
		t.Errorf("cursor = %d after shorter page, want 0", m.cursor)
	}
	if m.totalPages != 3 {
		t.Errorf("totalPages = %d, want 3", m.totalPages)
	}
}

func TestSubscriptionClosedQuits(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(subscriptionClosedMsg{})
	if cmd == nil {
		t.Fatal("no command returned on closed subscription")
	}
	if got := next.(model); !got.quitting {
		t.Error("model not quitting after subscription close")
	}
}

func TestRenderVolumeBar(t *testing.T) {
	tests := []struct {
		name       string
		level      float64
		width      int
		wantFilled int
	}{
		{"muted", 0.0, 10, 0},
		{"half", 0.5, 10, 5},
		{"full", 1.0, 10, 10},
		{"above range", 1.7, 10, 10},
		{"too narrow", 0.5, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderVolumeBar(tt.level, tt.width)
			if got := strings.Count(bar, "█"); got != tt.wantFilled {
				t.Errorf("filled cells = %d, want %d", got, tt.wantFilled)
			}
		})
	}
}

func TestViewShowsNotice(t *testing.T) {
	m, _ := newTestModel(t)
	m.notice = radio.Notice{Text: "Connection lost. Press play to try again.", Kind: radio.NoticeFailure}

	if view := m.View(); !strings.Contains(view, "Connection lost") {
		t.Error("view does not render the active notice")
	}
}
