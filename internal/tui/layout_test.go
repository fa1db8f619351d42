package tui

import "testing"

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name             string
		width            int
		height           int
		contentWidth     int
		transcriptHeight int
		cardHeight       int
		compactHero      bool
	}{
		{name: "narrow", width: 80, height: 24, contentWidth: 76, transcriptHeight: 5, cardHeight: 9, compactHero: true},
		{name: "wide", width: 200, height: 50, contentWidth: 196, transcriptHeight: 13, cardHeight: 20, compactHero: false},
		{name: "tiny", width: 30, height: 10, contentWidth: minViewportWidth, transcriptHeight: 4, cardHeight: 8, compactHero: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.transcriptHeight != tc.transcriptHeight {
				t.Fatalf("transcript height mismatch: got %d want %d", layout.transcriptHeight, tc.transcriptHeight)
			}
			if layout.cardHeight != tc.cardHeight {
				t.Fatalf("card height mismatch: got %d want %d", layout.cardHeight, tc.cardHeight)
			}
			if layout.compactHero != tc.compactHero {
				t.Fatalf("compact hero mismatch: got %v want %v", layout.compactHero, tc.compactHero)
			}
			if layout.composerHeight != composerHeight {
				t.Fatalf("composer height mismatch: got %d", layout.composerHeight)
			}
		})
	}
}
