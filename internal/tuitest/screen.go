package tuitest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Recording is everything the client wrote to the terminal.
type Recording struct {
	Raw     []byte
	Screens []Screen
	Elapsed time.Duration
}

// Screen is one render with escape codes removed and trailing blanks trimmed.
type Screen struct {
	Index int
	Text  string
}

var (
	eraseDisplay = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiSequence  = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscSequence  = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
	stepProgress = regexp.MustCompile(`Steps · (\d+) of (\d+)`)
)

// splitScreens cuts the stream wherever the renderer erases the display.
func splitScreens(raw []byte) []Screen {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var screens []Screen
	for _, chunk := range eraseDisplay.Split(stream, -1) {
		chunk = strings.TrimPrefix(strings.Trim(chunk, "\x00"), "\x1b[H")
		text := plainText(chunk)
		if strings.TrimSpace(text) == "" {
			continue
		}
		screens = append(screens, Screen{Index: len(screens), Text: text})
	}
	if len(screens) == 0 && strings.TrimSpace(stream) != "" {
		screens = append(screens, Screen{Text: plainText(stream)})
	}
	return screens
}

func plainText(s string) string {
	s = oscSequence.ReplaceAllString(s, "")
	s = csiSequence.ReplaceAllString(s, "")
	s = strings.NewReplacer("\x0e", "", "\x0f", "").Replace(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n ")
}

// Last returns the final screen, or false when nothing was drawn.
func (r *Recording) Last() (Screen, bool) {
	if r == nil || len(r.Screens) == 0 {
		return Screen{}, false
	}
	return r.Screens[len(r.Screens)-1], true
}

// First returns the earliest screen showing text.
func (r *Recording) First(text string) (Screen, bool) {
	if r == nil {
		return Screen{}, false
	}
	for _, screen := range r.Screens {
		if strings.Contains(screen.Text, text) {
			return screen, true
		}
	}
	return Screen{}, false
}

// Shows reports whether any screen showed text.
func (r *Recording) Shows(text string) bool {
	_, ok := r.First(text)
	return ok
}

// Progress reads the card counter ("Steps · 2 of 3") from the screen.
func (s Screen) Progress() (shown, total int, ok bool) {
	matches := stepProgress.FindAllStringSubmatch(s.Text, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}
	last := matches[len(matches)-1]
	shown, _ = strconv.Atoi(last[1])
	total, _ = strconv.Atoi(last[2])
	return shown, total, true
}

// LastProgress is the most recent card counter drawn.
func (r *Recording) LastProgress() (shown, total int, ok bool) {
	if r == nil {
		return 0, 0, false
	}
	for i := len(r.Screens) - 1; i >= 0; i-- {
		if shown, total, ok = r.Screens[i].Progress(); ok {
			return shown, total, true
		}
	}
	return 0, 0, false
}
