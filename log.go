package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// setupLog silences logging unless a log file is configured. The TUI owns
// the terminal, so logs never go to stdout.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	if logFile := os.Getenv("AMBIENTE_LOGFILE"); logFile != "" {
		f, err := tea.LogToFileWith(logFile, "ambiente", log.Default())
		if err != nil {
			return nil, err
		}
		if os.Getenv("DEBUG") != "" {
			log.SetLevel(log.DebugLevel)
		}
		return f.Close, nil
	}
	return func() error { return nil }, nil
}
