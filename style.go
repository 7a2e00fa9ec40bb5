package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A56E0"))

// paragraph formats help text: wrapped and lightly indented.
func paragraph(s string) string {
	s = wordwrap.String(s, 78)
	return strings.TrimRight(indent.String(s, 2), "\n")
}

// keyword highlights a word in help text.
func keyword(s string) string {
	return keywordStyle.Render(s)
}
