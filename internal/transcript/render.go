package transcript

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ecae6"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffb347"))
	errorLabelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	errorBodyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f"))
	emptyStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// Renderer projects turns onto the terminal. Assistant turns are treated as markdown.
type Renderer struct {
	width    int
	markdown *glamour.TermRenderer
}

// NewRenderer builds a renderer wrapping at width columns. style names a glamour standard
// style ("dark", "light", "notty"); an empty style picks "dark".
func NewRenderer(width int, style string) *Renderer {
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// plain word wrap is used instead
		md = nil
	}
	return &Renderer{width: width, markdown: md}
}

// Width reports the wrap width.
func (r *Renderer) Width() int { return r.width }

// Render draws every turn, oldest first.
func (r *Renderer) Render(turns []Turn) string {
	if len(turns) == 0 {
		return emptyStyle.Render("Ask a question to get step-by-step help.")
	}
	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		blocks = append(blocks, r.renderTurn(turn))
	}
	return strings.Join(blocks, "\n\n")
}

func (r *Renderer) renderTurn(turn Turn) string {
	switch turn.Role {
	case RoleUser:
		return userLabelStyle.Render("You") + "\n" + wordwrap.String(turn.Content, r.width)
	case RoleError:
		return errorLabelStyle.Render("Helper") + "\n" + errorBodyStyle.Render(wordwrap.String(turn.Content, r.width))
	default:
		return assistantLabelStyle.Render("Helper") + "\n" + r.renderMarkdown(turn.Content)
	}
}

func (r *Renderer) renderMarkdown(content string) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(content, r.width)
}
