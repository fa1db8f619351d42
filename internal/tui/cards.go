package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/TAKIS21345/SeniorHelp/internal/cardstack"
	"github.com/TAKIS21345/SeniorHelp/internal/transcript"
)

type cardPhase int

const (
	phaseIdle cardPhase = iota
	phaseExiting
	phaseEntering
)

// cardAnimation is presentation only; the stack has already moved on when a transition
// starts.
type cardAnimation struct {
	phase      cardPhase
	leaving    int
	generation int
}

// start begins the exit of card leaving and returns the tick that ends it.
func (a *cardAnimation) start(leaving int) (int, cardPhase) {
	a.generation++
	a.phase = phaseExiting
	a.leaving = leaving
	return a.generation, phaseExiting
}

// advance handles a tick. It returns the next phase to schedule, or phaseIdle when the
// transition is over or the tick is stale.
func (a *cardAnimation) advance(msg cardTickMsg) cardPhase {
	if msg.generation != a.generation || msg.phase != a.phase {
		return phaseIdle
	}
	switch a.phase {
	case phaseExiting:
		a.phase = phaseEntering
		return phaseEntering
	default:
		a.phase = phaseIdle
		return phaseIdle
	}
}

// stop drops any running transition, invalidating ticks already scheduled.
func (a *cardAnimation) stop() {
	a.generation++
	a.phase = phaseIdle
}

func renderCards(stack *cardstack.Stack, anim cardAnimation, width int) string {
	if stack == nil {
		return helperStyle.Render("The helper's answer will show up here as steps, one card at a time.")
	}
	if width < minViewportWidth {
		width = minViewportWidth
	}
	// borders sit outside the styled width
	cardWidth := width - 2
	steps := stack.Steps()
	n := stack.Len()
	shown := stack.RevealedUpTo() + 1
	if shown > n {
		shown = n
	}
	rows := []string{sectionHeaderStyle.Render(fmt.Sprintf("Steps · %d of %d", shown, n))}

	for _, i := range stack.Visible() {
		step := steps[i]
		state := stack.State(i)
		switch {
		case anim.phase == phaseExiting && i == anim.leaving:
			rows = append(rows, cardExitStyle.Width(cardWidth).Render(cardBody(step.Ordinal, step.Text, width)))
		case anim.phase == phaseExiting && i == stack.RevealedUpTo():
			// next card waits for the exit to finish
		case state == cardstack.Completed:
			preview := transcript.Preview(step.Text, completedPreviewLimit)
			rows = append(rows, completedStepStyle.Render(fmt.Sprintf("✓ Step %d  %s", step.Ordinal, preview)))
		case state == cardstack.Active:
			style := activeCardStyle
			if anim.phase == phaseEntering {
				style = cardEnterStyle
			}
			body := cardBody(step.Ordinal, step.Text, width) + "\n\n" + doneButtonStyle.Render("Done") + helperStyle.Render("  press Space when finished")
			rows = append(rows, style.Width(cardWidth).Render(body))
		case state == cardstack.Finished:
			style := finishedCardStyle
			if anim.phase == phaseEntering {
				style = cardEnterStyle
			}
			body := cardBody(step.Ordinal, step.Text, width) + "\n\n" + allDoneStyle.Render("✓ All done!")
			rows = append(rows, style.Width(cardWidth).Render(body))
		}
	}
	return strings.Join(rows, "\n")
}

func cardBody(ordinal int, text string, width int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	return cardTitleStyle.Render(fmt.Sprintf("Step %d", ordinal)) + "\n" + wordwrap.String(text, inner)
}
