package cardstack

import (
	"errors"
	"testing"

	"github.com/TAKIS21345/SeniorHelp/internal/guide"
)

func buildStack(t *testing.T, texts ...string) *Stack {
	t.Helper()
	steps := make([]guide.Step, 0, len(texts))
	for i, text := range texts {
		steps = append(steps, guide.Step{Ordinal: i + 1, Text: text})
	}
	stack, err := New(steps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return stack
}

func TestNewRejectsEmptySteps(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
	if _, err := FromAnswer("   "); !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps for blank answer, got %v", err)
	}
}

func TestInitialStates(t *testing.T) {
	stack := buildStack(t, "one", "two", "three")
	want := []State{Active, Hidden, Hidden}
	for i, state := range want {
		if got := stack.State(i); got != state {
			t.Fatalf("card %d: got %s want %s", i, got, state)
		}
	}
	if !stack.CanAcknowledge() {
		t.Fatal("first card of a multi-card stack should be acknowledgeable")
	}
	if got := stack.Visible(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("only the first card should be visible, got %v", got)
	}
}

func TestSingleCardStartsFinished(t *testing.T) {
	stack, err := FromAnswer("Just relax.")
	if err != nil {
		t.Fatalf("FromAnswer() error = %v", err)
	}
	if stack.Len() != 1 {
		t.Fatalf("expected one card, got %d", stack.Len())
	}
	if got := stack.State(0); got != Finished {
		t.Fatalf("single card should be finished, got %s", got)
	}
	if stack.CanAcknowledge() {
		t.Fatal("finished card must not offer an acknowledgement")
	}
	if !stack.Done() {
		t.Fatal("single-card stack should be done immediately")
	}
}

func TestAcknowledgeWalksTheStack(t *testing.T) {
	stack := buildStack(t, "one", "two", "three")

	if !stack.Acknowledge() {
		t.Fatal("first acknowledgement should advance")
	}
	if stack.RevealedUpTo() != 1 {
		t.Fatalf("cursor = %d, want 1", stack.RevealedUpTo())
	}
	if stack.State(0) != Completed || stack.State(1) != Active || stack.State(2) != Hidden {
		t.Fatalf("unexpected states after one ack: %s %s %s", stack.State(0), stack.State(1), stack.State(2))
	}

	stack.Acknowledge()
	if stack.State(1) != Completed || stack.State(2) != Finished {
		t.Fatalf("last card should be finished once reached: %s %s", stack.State(1), stack.State(2))
	}
	if stack.CanAcknowledge() {
		t.Fatal("finished card must not offer an acknowledgement")
	}
}

func TestAcknowledgeCursorProperties(t *testing.T) {
	for n := 1; n <= 6; n++ {
		texts := make([]string, n)
		for i := range texts {
			texts[i] = "step"
		}
		stack := buildStack(t, texts...)

		for call := 0; call < n; call++ {
			current := 0
			for i := 0; i < n; i++ {
				if s := stack.State(i); s == Active || s == Finished {
					current++
				}
			}
			if current != 1 {
				t.Fatalf("n=%d cursor=%d: expected exactly one current card, got %d", n, stack.RevealedUpTo(), current)
			}
			before := stack.RevealedUpTo()
			if !stack.Acknowledge() {
				t.Fatalf("n=%d: acknowledgement %d should advance", n, call+1)
			}
			if stack.RevealedUpTo() != before+1 {
				t.Fatalf("n=%d: cursor moved from %d to %d", n, before, stack.RevealedUpTo())
			}
		}
		if stack.RevealedUpTo() != n {
			t.Fatalf("n=%d: cursor = %d after n acks", n, stack.RevealedUpTo())
		}
		if stack.Current() != -1 {
			t.Fatalf("n=%d: no card should be current past the end", n)
		}
		for extra := 0; extra < 3; extra++ {
			if stack.Acknowledge() {
				t.Fatalf("n=%d: acknowledgement past the end should be a no-op", n)
			}
		}
		if stack.RevealedUpTo() != n {
			t.Fatalf("n=%d: cursor exceeded length: %d", n, stack.RevealedUpTo())
		}
	}
}

func TestCompletedCardsNeverRevert(t *testing.T) {
	stack := buildStack(t, "a", "b", "c", "d")
	seen := map[int]bool{}
	for stack.Acknowledge() {
		for i := 0; i < stack.Len(); i++ {
			if seen[i] && stack.State(i) != Completed && stack.State(i) != Finished {
				t.Fatalf("card %d reverted to %s", i, stack.State(i))
			}
			if stack.State(i) == Completed {
				seen[i] = true
			}
		}
	}
}

func TestStepsReturnsCopy(t *testing.T) {
	stack := buildStack(t, "a", "b")
	steps := stack.Steps()
	steps[0].Text = "mutated"
	if stack.Steps()[0].Text != "a" {
		t.Fatal("Steps should not expose internal storage")
	}
}
