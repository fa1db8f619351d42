package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/session"
)

type fakeAsker struct {
	mu       sync.Mutex
	resp     provider.Response
	err      error
	asked    int
	discards int
}

func (f *fakeAsker) Ask(ctx context.Context, req provider.Request) (provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked++
	return f.resp, f.err
}

func (f *fakeAsker) Discard(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discards++
	return nil
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	return newTestModelWith(t, &fakeAsker{})
}

func newTestModelWith(t *testing.T, asker provider.Asker) *model {
	t.Helper()
	teaModel, ok := New(Config{Provider: asker, MarkdownStyle: "notty"}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return teaModel
}

func TestJobBusIDsIncrement(t *testing.T) {
	bus := newJobBus(nil)
	if got := bus.nextID(jobKindAsk); got != "ask-1" {
		t.Fatalf("first id = %q", got)
	}
	if got := bus.nextID(jobKindReset); got != "reset-2" {
		t.Fatalf("second id = %q", got)
	}
}

func TestJobBusRunRecordsOutcome(t *testing.T) {
	bus := newJobBus(nil)
	start := jobSnapshot{ID: "ask-1", Kind: jobKindAsk, Status: jobStatusRunning}

	ok := bus.run(context.Background(), start, func(context.Context) (tea.Msg, error) {
		return "payload", nil
	})
	if ok.Snapshot.Status != jobStatusSucceeded || ok.Payload != "payload" {
		t.Fatalf("unexpected success envelope: %#v", ok)
	}

	failed := bus.run(context.Background(), start, func(context.Context) (tea.Msg, error) {
		return resetResultMsg{err: errors.New("offline")}, errors.New("offline")
	})
	if failed.Snapshot.Status != jobStatusFailed || failed.Snapshot.Err != "offline" {
		t.Fatalf("unexpected failure envelope: %#v", failed.Snapshot)
	}
	if _, ok := failed.Payload.(resetResultMsg); !ok {
		t.Fatalf("payload should survive failures, got %T", failed.Payload)
	}
}

func TestAskJobCarriesTicketEpoch(t *testing.T) {
	asker := &fakeAsker{resp: provider.Response{Answer: "Step 1: Plug it in."}}
	controller := session.New(asker)
	controller.Reset(context.Background())
	ticket, ok := controller.Begin(context.Background(), session.Draft{Text: "How do I charge my phone?"})
	if !ok {
		t.Fatal("draft should be accepted")
	}

	msg, err := askJob(controller, ticket)(context.Background())
	if err != nil {
		t.Fatalf("askJob() error = %v", err)
	}
	result, ok := msg.(askResultMsg)
	if !ok {
		t.Fatalf("expected askResultMsg, got %T", msg)
	}
	if result.result.Epoch != 1 {
		t.Fatalf("epoch = %d, want 1", result.result.Epoch)
	}
	if result.result.Response.Answer != "Step 1: Plug it in." {
		t.Fatalf("answer = %q", result.result.Response.Answer)
	}
}

func TestResetJobDiscardsProviderHistory(t *testing.T) {
	asker := &fakeAsker{}
	controller := session.New(asker)
	msg, err := resetJob(controller)(context.Background())
	if err != nil {
		t.Fatalf("resetJob() error = %v", err)
	}
	if _, ok := msg.(resetResultMsg); !ok {
		t.Fatalf("expected resetResultMsg, got %T", msg)
	}
	if asker.discards != 1 {
		t.Fatalf("discards = %d, want 1", asker.discards)
	}
}
