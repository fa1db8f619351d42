package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#2a9d8f")
	heroEmberColor         = lipgloss.Color("#06201d")
	heroTextColor          = lipgloss.Color("#f1faee")
	heroSecondaryTextColor = lipgloss.Color("#8ecae6")
	doneColor              = lipgloss.Color("#52b788")

	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	busyStatusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)

	cardTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	activeCardStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(heroAccentColor).Padding(1, 2)
	finishedCardStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(doneColor).Padding(1, 2)
	cardExitStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Foreground(lipgloss.Color("240")).Faint(true).Padding(1, 2)
	cardEnterStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(heroSecondaryTextColor).Padding(1, 2)
	completedStepStyle = lipgloss.NewStyle().Foreground(doneColor)
	doneButtonStyle    = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroAccentColor).Padding(0, 2)
	allDoneStyle       = lipgloss.NewStyle().Bold(true).Foreground(doneColor)

	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#021210"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"██╗  ██╗  ███████╗  ██╗       ██████╗ ",
		"██║  ██║  ██╔════╝  ██║       ██╔══██╗",
		"███████║  █████╗    ██║       ██████╔╝",
		"██╔══██║  ██╔══╝    ██║       ██╔═══╝ ",
		"██║  ██║  ███████╗  ███████╗  ██║     ",
		"╚═╝  ╚═╝  ╚══════╝  ╚══════╝  ╚═╝     ",
	}
)

// fullHeroHeight is the logo with its shadow row plus the tagline.
var fullHeroHeight = len(logoArtLines) + 2

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	// shadow first, one cell down and right
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
