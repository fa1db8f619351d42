// Package session drives one conversation: submissions, their outcomes, the step cards built
// from answers, and resets.
//
// A Controller is owned by a single goroutine (the TUI update loop). Only Run may be called
// elsewhere, and it touches nothing but the ticket it is given.
package session

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/TAKIS21345/SeniorHelp/internal/cardstack"
	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/transcript"
)

// State is the submission state.
type State int

const (
	Idle State = iota
	Pending
	Resetting
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resetting:
		return "resetting"
	default:
		return "idle"
	}
}

// Outcome reports what Complete did with a result.
type Outcome int

const (
	// Discarded results belonged to a submission that a reset cancelled.
	Discarded Outcome = iota
	Answered
	ProviderFailed
	TransportFailed
)

func (o Outcome) String() string {
	switch o {
	case Answered:
		return "answered"
	case ProviderFailed:
		return "provider error"
	case TransportFailed:
		return "transport error"
	default:
		return "discarded"
	}
}

// Draft is what the composer submits.
type Draft struct {
	Text string
	// Fields are passed to the provider unchanged.
	Fields   url.Values
	Document *provider.Attachment
}

// Ticket is an accepted submission waiting to be sent.
type Ticket struct {
	Epoch   uint64
	Request provider.Request
	ctx     context.Context
}

// Result is the provider's reply to a ticket.
type Result struct {
	Epoch    uint64
	Response provider.Response
	Err      error
}

// Controller owns the transcript, the step stack and the submission state.
type Controller struct {
	asker  provider.Asker
	logger *zap.Logger

	log    transcript.Transcript
	stack  *cardstack.Stack
	state  State
	epoch  uint64
	cancel context.CancelFunc
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger routes controller logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds an idle controller with an empty transcript.
func New(asker provider.Asker, opts ...Option) *Controller {
	c := &Controller{asker: asker, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the submission state.
func (c *Controller) State() State { return c.state }

// Busy reports whether a submission or reset is in flight.
func (c *Controller) Busy() bool { return c.state != Idle }

// Epoch identifies the current conversation generation.
func (c *Controller) Epoch() uint64 { return c.epoch }

// Transcript returns a copy of the chat log.
func (c *Controller) Transcript() []transcript.Turn { return c.log.Turns() }

// Stack returns the cards for the latest answer, or nil before the first answer.
func (c *Controller) Stack() *cardstack.Stack { return c.stack }

// Begin accepts a draft when its text is not blank and nothing is in flight. It marks the
// controller pending and appends the user's turn as typed; that turn stays even if the request
// fails. Only the prompt field is trimmed.
func (c *Controller) Begin(parent context.Context, draft Draft) (Ticket, bool) {
	text := strings.TrimSpace(draft.Text)
	if text == "" || c.state != Idle {
		return Ticket{}, false
	}
	fields := url.Values{}
	for key, values := range draft.Fields {
		if key == provider.FieldPrompt {
			continue
		}
		fields[key] = append([]string(nil), values...)
	}
	fields.Set(provider.FieldPrompt, text)

	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.state = Pending
	c.log.Append(transcript.RoleUser, draft.Text)
	c.logger.Debug("submission started", zap.Uint64("epoch", c.epoch), zap.Int("chars", len(text)))

	return Ticket{
		Epoch:   c.epoch,
		Request: provider.Request{Fields: fields, Document: draft.Document},
		ctx:     ctx,
	}, true
}

// Run sends the ticket. It is safe to call off the owning goroutine.
func (c *Controller) Run(t Ticket) Result {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.asker.Ask(ctx, t.Request)
	return Result{Epoch: t.Epoch, Response: resp, Err: err}
}

// Complete applies a result and returns the controller to idle. Results from before the
// latest reset are discarded untouched.
func (c *Controller) Complete(res Result) Outcome {
	if res.Epoch != c.epoch || c.state != Pending {
		c.logger.Debug("discarding stale result", zap.Uint64("epoch", res.Epoch), zap.Uint64("current", c.epoch))
		return Discarded
	}
	defer c.finish()

	var perr *provider.ProviderError
	switch {
	case errors.As(res.Err, &perr):
		c.logger.Info("provider reported an error", zap.String("message", perr.Message), zap.Int("status", perr.Status))
		c.log.Append(transcript.RoleError, perr.Message)
		return ProviderFailed
	case res.Err != nil:
		c.logger.Warn("submission failed", zap.Error(res.Err))
		c.log.Append(transcript.RoleError, transcript.GenericError)
		return TransportFailed
	}

	c.replaceTranscript(res.Response)
	stack, err := cardstack.FromAnswer(res.Response.Answer)
	if err != nil {
		c.logger.Debug("answer produced no steps", zap.Error(err))
		c.stack = nil
	} else {
		c.stack = stack
	}
	return Answered
}

// Submit runs a whole submission synchronously. The returned bool is false when the draft
// was rejected.
func (c *Controller) Submit(ctx context.Context, draft Draft) (Outcome, bool) {
	ticket, ok := c.Begin(ctx, draft)
	if !ok {
		return Discarded, false
	}
	return c.Complete(c.Run(ticket)), true
}

// Acknowledge marks the active card done.
func (c *Controller) Acknowledge() bool {
	if c.stack == nil || !c.stack.CanAcknowledge() {
		return false
	}
	return c.stack.Acknowledge()
}

// BeginReset cancels any in-flight submission and marks the controller busy. It returns
// false when a reset is already running.
func (c *Controller) BeginReset() bool {
	if c.state == Resetting {
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.epoch++
	c.state = Resetting
	c.logger.Debug("reset started", zap.Uint64("epoch", c.epoch))
	return true
}

// Discard asks the provider to drop its history. Safe to call off the owning goroutine.
func (c *Controller) Discard(ctx context.Context) error {
	return c.asker.Discard(ctx)
}

// FinishReset clears the transcript and cards whatever the discard returned.
func (c *Controller) FinishReset(discardErr error) {
	if discardErr != nil {
		c.logger.Warn("provider reset failed", zap.Error(discardErr))
	}
	c.log.Clear()
	c.stack = nil
	c.state = Idle
}

// Reset runs a whole reset synchronously.
func (c *Controller) Reset(ctx context.Context) {
	if !c.BeginReset() {
		return
	}
	c.FinishReset(c.Discard(ctx))
}

func (c *Controller) finish() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = Idle
}

func (c *Controller) replaceTranscript(resp provider.Response) {
	turns, err := transcript.ParseFragment(resp.HistoryHTML)
	if err != nil || len(turns) == 0 {
		if err != nil {
			c.logger.Warn("unreadable history fragment", zap.Error(err))
		}
		// keep the local log and add the answer to it
		if strings.TrimSpace(resp.Answer) != "" {
			c.log.Append(transcript.RoleAssistant, resp.Answer)
		}
		return
	}
	c.log.Replace(turns)
}
