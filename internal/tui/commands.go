package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TAKIS21345/SeniorHelp/internal/session"
)

const resetTimeout = 15 * time.Second

type askResultMsg struct {
	result session.Result
}

type resetResultMsg struct {
	err error
}

// cardTickMsg advances a card transition. Ticks from an older generation are ignored.
type cardTickMsg struct {
	generation int
	phase      cardPhase
}

func askJob(controller *session.Controller, ticket session.Ticket) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		result := controller.Run(ticket)
		return askResultMsg{result: result}, result.Err
	}
}

func resetJob(controller *session.Controller) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, resetTimeout)
		defer cancel()
		err := controller.Discard(ctx)
		return resetResultMsg{err: err}, err
	}
}

func cardTickCmd(generation int, phase cardPhase, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return cardTickMsg{generation: generation, phase: phase}
	})
}
