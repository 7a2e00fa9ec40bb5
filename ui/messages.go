package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/news"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
)

// Messages delivered by the coordinator's broadcast channels. Each carries
// one value; the command that produced it is re-issued from Update so the
// subscription keeps draining.

// playingChangedMsg is sent when the playback flag changes.
type playingChangedMsg bool

// loadingChangedMsg is sent when the loading flag changes.
type loadingChangedMsg bool

// volumeChangedMsg is sent when the volume level changes.
type volumeChangedMsg float64

// noticeChangedMsg is sent when the user-facing notice changes.
type noticeChangedMsg radio.Notice

// subscriptionClosedMsg is sent when a broadcast channel closes, which only
// happens on coordinator shutdown.
type subscriptionClosedMsg struct{}

// toggleDoneMsg is sent when a playback toggle completes.
type toggleDoneMsg struct {
	Err error
}

// articlesMsg is sent when a news page fetch completes.
type articlesMsg struct {
	Page news.Page
	Err  error
}

// awaitSub blocks on a subscription and wraps the next value as a message.
func awaitSub[T any](sub *radio.Subscription[T], wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-sub.Values()
		if !ok {
			return subscriptionClosedMsg{}
		}
		return wrap(v)
	}
}

func awaitPlaying(sub *radio.Subscription[bool]) tea.Cmd {
	return awaitSub(sub, func(v bool) tea.Msg { return playingChangedMsg(v) })
}

func awaitLoading(sub *radio.Subscription[bool]) tea.Cmd {
	return awaitSub(sub, func(v bool) tea.Msg { return loadingChangedMsg(v) })
}

func awaitVolume(sub *radio.Subscription[float64]) tea.Cmd {
	return awaitSub(sub, func(v float64) tea.Msg { return volumeChangedMsg(v) })
}

func awaitNotice(sub *radio.Subscription[radio.Notice]) tea.Cmd {
	return awaitSub(sub, func(v radio.Notice) tea.Msg { return noticeChangedMsg(v) })
}

func toggleCmd(coord *radio.Coordinator) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{Err: coord.TogglePlayback()}
	}
}

// setVolumeCmd applies the level; the clamped result comes back on the
// volume channel, so there is nothing to report here.
func setVolumeCmd(coord *radio.Coordinator, level float64) tea.Cmd {
	return func() tea.Msg {
		coord.SetVolume(level)
		return nil
	}
}

func fetchArticlesCmd(feed *news.Client, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		p, err := feed.Articles(ctx, page)
		return articlesMsg{Page: p, Err: err}
	}
}
