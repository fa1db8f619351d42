// Package transcript keeps the append-only chat log shown next to the step cards.
package transcript

import "strings"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// GenericError is shown when the answer provider could not be reached or understood.
const GenericError = "An error occurred. Please try again."

// Turn is one entry of the chat log.
type Turn struct {
	Role    Role
	Content string
}

// Transcript is an ordered chat log. Turns are only ever appended; the whole log is
// dropped by Clear or swapped for the provider's rendering by Replace.
type Transcript struct {
	turns []Turn
}

// Append adds a turn at the end of the log.
func (t *Transcript) Append(role Role, content string) {
	t.turns = append(t.turns, Turn{Role: role, Content: content})
}

// Replace swaps the log for the provider's full history.
func (t *Transcript) Replace(turns []Turn) {
	t.turns = append([]Turn(nil), turns...)
}

// Clear empties the log.
func (t *Transcript) Clear() {
	t.turns = nil
}

// Turns returns a copy of the log.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Len reports the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Last returns the newest turn.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Preview shortens content for single-line displays.
func Preview(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if limit <= 0 || len(runes) <= limit {
		return content
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
