package ui

// Config contains TUI-specific configuration.
type Config struct {
	HomeDir string `env:"HOME"`

	// StationName is shown in the header.
	StationName string

	// FeedPageSize bounds how many articles the news pane requests per page.
	FeedPageSize int

	EnableMouse bool

	// For debugging the UI
	ShowFPS bool `env:"AMBIENTE_SHOW_FPS" envDefault:"false"`
}
