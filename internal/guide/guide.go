package guide

import (
	"regexp"
	"strings"
)

// Step is one ordered unit of instruction derived from an assistant answer.
type Step struct {
	Ordinal int
	Text    string
}

var listBullets = []string{"- ", "• "}

var (
	stepMarker     = regexp.MustCompile(`Step \d+:`)
	leadingMarker  = regexp.MustCompile(`^Step \d+:`)
	sentenceEnding = regexp.MustCompile(`[.!?]\s+`)
)

// Build segments answer and numbers the resulting steps from 1.
func Build(answer string) []Step {
	segments := Segment(answer)
	steps := make([]Step, 0, len(segments))
	for i, text := range segments {
		steps = append(steps, Step{Ordinal: i + 1, Text: text})
	}
	return steps
}

// Segment splits an answer into step texts. It prefers explicit "Step N:" markers, then
// list-like line breaks, then sentence boundaries, and falls back to the whole answer.
// A marker with nothing after it yields no step, so "Step 1: Step 2: Do it." is one step.
// The result always holds at least one string unless answer is blank.
func Segment(answer string) []string {
	if segments := splitMarkers(answer); len(segments) > 0 {
		return segments
	}
	if segments := splitLines(answer); len(segments) > 1 {
		return segments
	}
	if segments := splitSentences(answer); len(segments) > 0 {
		return segments
	}
	whole := strings.TrimSpace(answer)
	if whole == "" {
		return nil
	}
	return []string{whole}
}

func splitMarkers(answer string) []string {
	bounds := stepMarker.FindAllStringIndex(answer, -1)
	if len(bounds) == 0 {
		return nil
	}
	var segments []string
	for i, bound := range bounds {
		end := len(answer)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		text := leadingMarker.ReplaceAllString(answer[bound[0]:end], "")
		segments = appendTrimmed(segments, text)
	}
	return segments
}

func splitLines(answer string) []string {
	var segments []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		for _, bullet := range listBullets {
			if strings.HasPrefix(line, bullet) {
				line = strings.TrimPrefix(line, bullet)
				break
			}
		}
		segments = appendTrimmed(segments, line)
	}
	return segments
}

func splitSentences(answer string) []string {
	var segments []string
	start := 0
	for _, loc := range sentenceEnding.FindAllStringIndex(answer, -1) {
		// keep the punctuation, drop the whitespace run
		segments = appendTrimmed(segments, answer[start:loc[0]+1])
		start = loc[1]
	}
	return appendTrimmed(segments, answer[start:])
}

func appendTrimmed(segments []string, text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return segments
	}
	return append(segments, text)
}
