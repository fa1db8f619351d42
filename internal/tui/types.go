package tui

import "time"

type focusArea int

const (
	focusComposer focusArea = iota
	focusCards
)

const heroTagline = "Step-by-step tech help, one card at a time."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	composerHeight            = 3
	compactHeroBelow          = 32
	completedPreviewLimit     = 60
)

// Card transitions: the finished card fades out, then the next one fades in.
const (
	cardExitDuration  = 400 * time.Millisecond
	cardEnterDuration = 10 * time.Millisecond
)

const composerPlaceholder = "Type your question, then press Enter…"
