// Package ui provides the terminal UI for the station player. The model is
// a pure observer of the playback coordinator: everything it renders about
// playback comes from the coordinator's broadcast channels, and every key
// press turns into a coordinator call whose effect arrives back the same way.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/news"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
)

const (
	volumeStep = 0.05
	ellipsis   = "…"

	minUIWidth = 40
)

// NewProgram returns a new Tea program wired to the coordinator and the
// news feed.
func NewProgram(cfg Config, coord *radio.Coordinator, feed *news.Client) *tea.Program {
	log.Debug("starting ui", "station", cfg.StationName, "mouse", cfg.EnableMouse)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, coord, feed), opts...)
}

// pane is the active view.
type pane int

const (
	panePlayer pane = iota
	paneNews
)

func (p pane) String() string {
	return map[pane]string{
		panePlayer: "player",
		paneNews:   "news",
	}[p]
}

type model struct {
	cfg   Config
	coord *radio.Coordinator
	feed  *news.Client

	width  int
	height int
	pane   pane

	spinner spinner.Model

	// Playback snapshot, fed exclusively by the broadcast channels.
	playing bool
	loading bool
	volume  float64
	notice  radio.Notice

	playingSub *radio.Subscription[bool]
	loadingSub *radio.Subscription[bool]
	volumeSub  *radio.Subscription[float64]
	noticeSub  *radio.Subscription[radio.Notice]

	// News pane state.
	articles   []news.Article
	page       int
	totalPages int
	cursor     int
	fetching   bool
	fetchErr   error

	fatalErr error
	quitting bool
}

func newModel(cfg Config, coord *radio.Coordinator, feed *news.Client) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return model{
		cfg:        cfg,
		coord:      coord,
		feed:       feed,
		pane:       panePlayer,
		spinner:    sp,
		playingSub: coord.SubscribePlaying(),
		loadingSub: coord.SubscribeLoading(),
		volumeSub:  coord.SubscribeVolume(),
		noticeSub:  coord.SubscribeNotice(),
		page:       1,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		awaitPlaying(m.playingSub),
		awaitLoading(m.loadingSub),
		awaitVolume(m.volumeSub),
		awaitNotice(m.noticeSub),
	}
	if m.feed != nil {
		cmds = append(cmds, fetchArticlesCmd(m.feed, m.page))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case playingChangedMsg:
		m.playing = bool(msg)
		return m, awaitPlaying(m.playingSub)

	case loadingChangedMsg:
		m.loading = bool(msg)
		return m, awaitLoading(m.loadingSub)

	case volumeChangedMsg:
		m.volume = float64(msg)
		return m, awaitVolume(m.volumeSub)

	case noticeChangedMsg:
		m.notice = radio.Notice(msg)
		return m, awaitNotice(m.noticeSub)

	case subscriptionClosedMsg:
		// The coordinator shut down underneath the UI.
		m.quitting = true
		return m, tea.Quit

	case toggleDoneMsg:
		// Open failures come back synchronously instead of on the notice
		// channel, so surface them here.
		if msg.Err != nil {
			log.Error("playback toggle failed", "err", msg.Err)
			m.notice = radio.Notice{Text: msg.Err.Error(), Kind: radio.NoticeFailure}
		}
		return m, nil

	case articlesMsg:
		m.fetching = false
		m.fetchErr = msg.Err
		if msg.Err == nil {
			m.articles = msg.Page.Articles
			m.page = msg.Page.Number
			m.totalPages = msg.Page.TotalPages
			if m.cursor >= len(m.articles) {
				m.cursor = 0
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case " ":
		return m, toggleCmd(m.coord)

	case "+", "=":
		return m, setVolumeCmd(m.coord, m.volume+volumeStep)

	case "-", "_":
		return m, setVolumeCmd(m.coord, m.volume-volumeStep)

	case "tab":
		if m.pane == panePlayer {
			m.pane = paneNews
		} else {
			m.pane = panePlayer
		}
		return m, nil
	}

	if m.pane == paneNews {
		return m.handleNewsKey(msg)
	}
	return m, nil
}

func (m model) handleNewsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.articles)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "n", "right":
		if m.feed != nil && !m.fetching && m.page < m.totalPages {
			m.fetching = true
			return m, fetchArticlesCmd(m.feed, m.page+1)
		}
	case "p", "left":
		if m.feed != nil && !m.fetching && m.page > 1 {
			m.fetching = true
			return m, fetchArticlesCmd(m.feed, m.page-1)
		}
	case "r":
		if m.feed != nil && !m.fetching {
			m.fetching = true
			return m, fetchArticlesCmd(m.feed, m.page)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.fatalErr != nil {
		return failureStyle.Render("error: "+m.fatalErr.Error()) + "\n"
	}
	if m.quitting {
		return ""
	}

	width := m.width
	if width < minUIWidth {
		width = minUIWidth
	}

	var body string
	switch m.pane {
	case paneNews:
		body = m.newsView(width)
	default:
		body = m.playerView(width)
	}

	header := logoStyle.Render(m.cfg.StationName)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		m.helpView(),
	)
}

func (m model) playerView(width int) string {
	status := m.statusLine()

	bar := renderVolumeBar(m.volume, width/2)
	volumeLine := fmt.Sprintf("%s %s %3.0f%%", subtleStyle.Render("volume"), bar, m.volume*100)

	noticeLine := " "
	if !m.notice.IsZero() {
		noticeLine = noticeStyle(m.notice.Kind).Render(m.notice.Text)
	}

	return lipgloss.JoinVertical(lipgloss.Left, status, "", volumeLine, "", noticeLine)
}

func (m model) statusLine() string {
	switch {
	case m.loading:
		return m.spinner.View() + loadingStyle.Render(" connecting")
	case m.playing:
		return playingStyle.Render("▶ on air")
	default:
		return pausedStyle.Render("⏸ paused")
	}
}

func (m model) newsView(width int) string {
	if m.fetching {
		return m.spinner.View() + subtleStyle.Render(" loading news")
	}
	if m.fetchErr != nil {
		return failureStyle.Render("news unavailable: " + m.fetchErr.Error())
	}
	if len(m.articles) == 0 {
		return subtleStyle.Render("no news yet")
	}

	lines := make([]string, 0, len(m.articles)+1)
	for i, a := range m.articles {
		title := truncate.StringWithTail(a.Title, uint(width-20), ellipsis)
		age := subtleStyle.Render(humanize.Time(a.Published))
		line := fmt.Sprintf("%s  %s", title, age)
		if i == m.cursor {
			line = selectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	if m.totalPages > 1 {
		lines = append(lines, "", subtleStyle.Render(
			fmt.Sprintf("page %d/%d", m.page, m.totalPages)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m model) helpView() string {
	common := "space: play/pause • +/-: volume • tab: " + m.otherPane() + " • q: quit"
	if m.pane == paneNews {
		common = "j/k: move • n/p: page • r: refresh • " + common
	}
	return helpStyle.Render(common)
}

func (m model) otherPane() string {
	if m.pane == panePlayer {
		return paneNews.String()
	}
	return panePlayer.String()
}
