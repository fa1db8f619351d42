package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	m.refreshTranscriptIfDirty()
	parts := []string{
		m.heroView(),
		m.transcriptPanel(),
		m.cardPanel(),
		m.composerPanel(),
		m.statusView(),
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	tagline := taglineStyle.Render(heroTagline)
	if m.layout.compactHero {
		return lipgloss.JoinHorizontal(lipgloss.Top, cardTitleStyle.Render("SeniorHelp  "), tagline)
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), tagline)
}

func (m *model) transcriptPanel() string {
	return sectionHeaderStyle.Render("Conversation") + "\n" +
		transcriptBoxStyle.Width(m.layout.contentWidth-2).Render(m.transcriptView.View())
}

func (m *model) cardPanel() string {
	body := renderCards(m.session.Stack(), m.anim, m.layout.contentWidth)
	return clipLines(body, m.layout.cardHeight)
}

func (m *model) composerPanel() string {
	header := sectionHeaderStyle.Render("Your question")
	if m.focus != focusComposer {
		header += helperStyle.Render("  (Tab to type)")
	}
	return header + "\n" + m.composer.View()
}

func (m *model) statusView() string {
	lines := []string{}
	if m.errorMessage != "" {
		lines = append(lines, errorStyle.Render(m.errorMessage))
	}
	status := m.infoMessage
	style := statusBarStyle
	if m.session.Busy() {
		status = fmt.Sprintf("%s %s", m.spinner.View(), status)
		style = busyStatusStyle
	}
	meter := []string{status, "State " + m.session.State().String()}
	if stack := m.session.Stack(); stack != nil {
		shown := stack.RevealedUpTo() + 1
		if shown > stack.Len() {
			shown = stack.Len()
		}
		meter = append(meter, fmt.Sprintf("Step %d/%d", shown, stack.Len()))
	}
	if m.config.ProviderURL != "" {
		meter = append(meter, m.config.ProviderURL)
	}
	lines = append(lines, style.Render(strings.Join(meter, "  •  ")))
	lines = append(lines, m.shortHelpView())
	return strings.Join(lines, "\n")
}

func (m *model) shortHelpView() string {
	var cells []string
	for _, binding := range m.keys.legend(m.focus) {
		help := binding.Help()
		cells = append(cells, keyStyle.Render(help.Key)+keyDescStyle.Render(" "+help.Desc+" "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Enter", "Ask the question"},
		{"Shift+Enter", "New line (Alt+Enter, Ctrl+J)"},
		{"Space / d", "Mark the step done"},
		{"Tab / i", "Type a question"},
		{"Esc", "Leave the question box"},
		{"↑/↓", "Scroll the conversation"},
		{"Ctrl+R", "Start over"},
		{"?", "Toggle this list"},
		{"q / Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

// clipLines keeps the header line and the last lines so the active card stays on screen.
func clipLines(content string, limit int) string {
	if limit <= 1 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= limit {
		return content
	}
	kept := append([]string{lines[0]}, lines[len(lines)-limit+1:]...)
	return strings.Join(kept, "\n")
}
