// Package cardstack reveals segmented steps one card at a time.
//
// A Stack only tracks the logical cursor. Timed exit/enter animations belong to the
// presentation layer and never delay a transition here.
package cardstack

import (
	"errors"

	"github.com/TAKIS21345/SeniorHelp/internal/guide"
)

// ErrNoSteps is returned when a stack would be built without any step.
var ErrNoSteps = errors.New("cardstack: no steps")

// State is the disclosure state of a single card.
type State int

const (
	Hidden State = iota
	Active
	Completed
	Finished
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Finished:
		return "finished"
	default:
		return "hidden"
	}
}

// Stack owns an ordered set of steps plus the reveal cursor. Cards before the cursor are
// completed, the card at the cursor is the current one and everything after it is hidden.
type Stack struct {
	steps        []guide.Step
	revealedUpTo int
}

// New builds a fresh stack with the first card current.
func New(steps []guide.Step) (*Stack, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return &Stack{steps: append([]guide.Step(nil), steps...)}, nil
}

// FromAnswer segments answer and builds a stack from it. A blank answer yields ErrNoSteps.
func FromAnswer(answer string) (*Stack, error) {
	return New(guide.Build(answer))
}

// Len reports the number of cards.
func (s *Stack) Len() int { return len(s.steps) }

// RevealedUpTo reports how many cards have been acknowledged.
func (s *Stack) RevealedUpTo() int { return s.revealedUpTo }

// Steps returns a copy of the underlying steps.
func (s *Stack) Steps() []guide.Step {
	return append([]guide.Step(nil), s.steps...)
}

// Current returns the index of the current card, or -1 once every card was acknowledged.
func (s *Stack) Current() int {
	if s.revealedUpTo >= len(s.steps) {
		return -1
	}
	return s.revealedUpTo
}

// State reports the disclosure state of card i.
func (s *Stack) State(i int) State {
	last := len(s.steps) - 1
	switch {
	case i < 0 || i > last:
		return Hidden
	case i == last && s.revealedUpTo >= last:
		return Finished
	case i < s.revealedUpTo:
		return Completed
	case i == s.revealedUpTo:
		return Active
	default:
		return Hidden
	}
}

// CanAcknowledge reports whether the current card shows a "done" affordance.
func (s *Stack) CanAcknowledge() bool {
	return s.State(s.revealedUpTo) == Active
}

// Done reports whether the last card has been reached.
func (s *Stack) Done() bool {
	return s.revealedUpTo >= len(s.steps)-1
}

// Acknowledge marks the current card as handled and moves the cursor by one. It reports
// whether the cursor moved; calls past the end are no-ops.
func (s *Stack) Acknowledge() bool {
	if s.revealedUpTo >= len(s.steps) {
		return false
	}
	s.revealedUpTo++
	return true
}

// Visible returns the indexes that are rendered: completed cards and the current card.
func (s *Stack) Visible() []int {
	var out []int
	for i := range s.steps {
		if s.State(i) != Hidden {
			out = append(out, i)
		}
	}
	return out
}
