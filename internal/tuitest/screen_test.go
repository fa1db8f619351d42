package tuitest

import "testing"

func TestSplitScreensOnErase(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[HSteps · 1 of 3   \r\nStep 1\x1b[2J\x1b[H\x1b[1mSteps · 2 of 3\x1b[0m\n\n")
	rec := &Recording{Raw: raw, Screens: splitScreens(raw)}

	if len(rec.Screens) != 2 {
		t.Fatalf("screens = %d, want 2", len(rec.Screens))
	}
	if got := rec.Screens[0].Text; got != "Steps · 1 of 3\nStep 1" {
		t.Fatalf("first screen = %q", got)
	}
	last, ok := rec.Last()
	if !ok || last.Text != "Steps · 2 of 3" {
		t.Fatalf("last screen = %q", last.Text)
	}
	screen, ok := rec.First("Step 1")
	if !ok || screen.Index != 0 {
		t.Fatalf("First() = %#v, %v", screen, ok)
	}
	if rec.Shows("All done!") {
		t.Fatal("no screen shows the finished card")
	}
}

func TestPlainTextDropsColourQueries(t *testing.T) {
	in := "\x1b]11;rgb:0000/0000/0000\x07\x1b[38;5;81mHelper\x1b[0m  \n\n"
	if got := plainText(in); got != "Helper" {
		t.Fatalf("plainText() = %q", got)
	}
}

func TestLastProgressReadsNewestCounter(t *testing.T) {
	rec := &Recording{Screens: []Screen{
		{Index: 0, Text: "Steps · 1 of 2\nOpen Settings."},
		{Index: 1, Text: "Steps · 1 of 2\n...\nSteps · 2 of 2\nAll done!"},
		{Index: 2, Text: "Type a question below"},
	}}
	shown, total, ok := rec.LastProgress()
	if !ok || shown != 2 || total != 2 {
		t.Fatalf("LastProgress() = %d, %d, %v", shown, total, ok)
	}

	if _, _, ok := (&Recording{}).LastProgress(); ok {
		t.Fatal("an empty recording has no counter")
	}
}
