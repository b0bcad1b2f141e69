package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#42b883"))
	bannerLabel = lipgloss.NewStyle().Faint(true).Width(8)
	bannerBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#35495e")).
			Padding(0, 1)
)

type bannerLine struct {
	label string
	value string
}

// printBanner writes the startup banner. It is the only output visible in
// the terminal during normal operation; structured logs go to the log file.
func printBanner(w io.Writer, title string, lines ...bannerLine) {
	var b strings.Builder
	b.WriteString(bannerTitle.Render(title))
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(bannerLabel.Render(l.label))
		b.WriteString(l.value)
	}
	fmt.Fprintln(w, bannerBox.Render(b.String()))
}
