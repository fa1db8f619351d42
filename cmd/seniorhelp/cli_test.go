package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TAKIS21345/SeniorHelp/internal/document"
	"github.com/TAKIS21345/SeniorHelp/internal/knowledge"
	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/session"
)

type stubAsker struct {
	resp provider.Response
	err  error
}

func (s stubAsker) Ask(context.Context, provider.Request) (provider.Response, error) {
	return s.resp, s.err
}

func (stubAsker) Discard(context.Context) error { return nil }

func TestPrintOutcomeListsSteps(t *testing.T) {
	controller := session.New(stubAsker{resp: provider.Response{Answer: wifiAnswer}})
	outcome, ok := controller.Submit(context.Background(), session.Draft{Text: "How do I join Wi-Fi?"})
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, printOutcome(&out, controller, outcome))
	require.Equal(t, "Step 1: Open Settings.\nStep 2: Tap Wi-Fi.\n", out.String())
}

func TestPrintOutcomeReturnsProviderMessage(t *testing.T) {
	controller := session.New(stubAsker{err: &provider.ProviderError{Status: 500, Message: "An error occurred: model offline"}})
	outcome, ok := controller.Submit(context.Background(), session.Draft{Text: "Why is my screen dark?"})
	require.True(t, ok)

	err := printOutcome(&bytes.Buffer{}, controller, outcome)
	require.EqualError(t, err, "An error occurred: model offline")
}

func TestPrintRecords(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRecords(&out, nil))
	require.Contains(t, out.String(), "No questions recorded yet.")

	out.Reset()
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, printRecords(&out, []knowledge.Record{
		{Kind: knowledge.KindQuestion, Question: "How do I join Wi-Fi?", CreatedAt: created},
		{Kind: knowledge.KindQA, Question: "How do I join Wi-Fi?", Answer: wifiAnswer, CreatedAt: created},
	}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "2024-05-01 09:30")
	require.Contains(t, lines[2], "Step 1: Open Settings.")
}

func TestLoadDocumentRejectsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "manual.pdf")
	require.NoError(t, os.WriteFile(small, []byte("%PDF-1.4"), 0o644))

	attachment, err := loadDocument(small)
	require.NoError(t, err)
	require.Equal(t, "manual.pdf", attachment.Name)

	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, document.MaxUploadBytes+1), 0o644))
	_, err = loadDocument(big)
	require.ErrorIs(t, err, document.ErrTooLarge)
}
