package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorProfileOnce sync.Once

	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	msgStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	sepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)
)

func shouldPrettyPrint() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := strings.TrimSpace(os.Getenv("TERM"))
	if term == "" || term == "dumb" {
		return false
	}
	return termenv.NewOutput(os.Stderr).Profile != termenv.Ascii
}

func ensureColorProfile() {
	colorProfileOnce.Do(func() {
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())
	})
}

func levelBadge(level slog.Level) (string, lipgloss.Style) {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch {
	case level <= slog.LevelDebug:
		return "DEBUG", base.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("240"))
	case level <= slog.LevelInfo:
		return "INFO", base.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("31"))
	case level <= slog.LevelWarn:
		return "WARN", base.Foreground(lipgloss.Color("234")).Background(lipgloss.Color("214"))
	default:
		return "ERROR", base.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160"))
	}
}

// FormatEventANSI renders an event with terminal colors. JSON-shaped fields
// are drawn as boxed blocks under the header line.
func FormatEventANSI(event Event) string {
	ensureColorProfile()
	label, badge := levelBadge(event.Level)
	line := lipgloss.JoinHorizontal(lipgloss.Center,
		timeStyle.Render(event.Time.Format("15:04:05.000")),
		" ",
		badge.Render(label),
		" ",
		msgStyle.Render(event.Message),
	)

	var inline, blocks []string
	for _, key := range orderedFieldKeys(event.Level, event.Fields) {
		value := event.Fields[key]
		if pretty, ok := prettyJSONString(value); ok {
			blocks = append(blocks, keyStyle.Render(key)+sepStyle.Render("=")+"\n"+blockStyle.Render(pretty))
			continue
		}
		inline = append(inline, keyStyle.Render(key)+sepStyle.Render("=")+valueStyle.Render(formatFieldValue(value)))
	}
	if len(inline) > 0 {
		line += "  " + strings.Join(inline, " ")
	}
	for _, block := range blocks {
		line += "\n" + lipgloss.NewStyle().MarginLeft(2).Render(block)
	}
	return line + "\n"
}
