package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/session"
	"github.com/TAKIS21345/SeniorHelp/internal/transcript"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Provider    provider.Asker
	ProviderURL string
	Logger      *zap.Logger
	// MarkdownStyle is a glamour standard style name; empty picks "dark".
	MarkdownStyle string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := defaultKeyMap()

	composer := textarea.New()
	composer.Placeholder = composerPlaceholder
	composer.ShowLineNumbers = false
	composer.CharLimit = 2000
	composer.SetHeight(composerHeight)
	composer.SetWidth(76)
	composer.KeyMap.InsertNewline = keys.Newline
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(72, 8)
	vp.MouseWheelEnabled = true

	return &model{
		config:          config,
		logger:          logger,
		keys:            keys,
		session:         session.New(config.Provider, session.WithLogger(logger)),
		jobs:            newJobBus(logger),
		composer:        composer,
		spinner:         spin,
		transcriptView:  vp,
		renderer:        transcript.NewRenderer(vp.Width, config.MarkdownStyle),
		layout:          newPageLayout(),
		focus:           focusComposer,
		transcriptDirty: true,
		infoMessage:     "Type a question below and press Enter.",
	}
}

type model struct {
	config  Config
	logger  *zap.Logger
	keys    keyMap
	session *session.Controller
	jobs    *jobBus

	composer       textarea.Model
	spinner        spinner.Model
	transcriptView viewport.Model
	renderer       *transcript.Renderer
	layout         pageLayout

	focus           focusArea
	anim            cardAnimation
	transcriptDirty bool
	infoMessage     string
	errorMessage    string
	helpVisible     bool
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if !m.session.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case jobSignalMsg:
		m.logger.Debug("job started", zap.String("id", msg.Snapshot.ID), zap.String("kind", string(msg.Snapshot.Kind)))
		return m, nil
	case jobResultEnvelope:
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case askResultMsg:
		return m, m.applyAnswer(msg.result)
	case resetResultMsg:
		m.session.FinishReset(msg.err)
		m.anim.stop()
		m.errorMessage = ""
		m.infoMessage = "Started a new conversation."
		m.focusComposer()
		m.markTranscriptDirty()
		return m, nil
	case cardTickMsg:
		if next := m.anim.advance(msg); next == phaseEntering {
			return m, cardTickCmd(m.anim.generation, phaseEntering, cardEnterDuration)
		}
		return m, nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.transcriptView, cmd = m.transcriptView.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reset):
		return m, m.startReset()
	}

	if m.focus == focusComposer {
		switch {
		case key.Matches(msg, m.keys.Blur):
			m.focusCards()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Acknowledge):
		return m, m.acknowledge()
	case key.Matches(msg, m.keys.Compose):
		return m, m.focusComposer()
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		m.refreshTranscriptIfDirty()
		var cmd tea.Cmd
		m.transcriptView, cmd = m.transcriptView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) submit() tea.Cmd {
	text := m.composer.Value()
	ticket, ok := m.session.Begin(context.Background(), session.Draft{Text: text})
	if !ok {
		if m.session.Busy() {
			m.infoMessage = "Still working on your last question…"
		}
		return nil
	}
	m.composer.Reset()
	m.errorMessage = ""
	m.infoMessage = "Asking the helper…"
	m.markTranscriptDirty()
	return tea.Batch(m.jobs.Start(jobKindAsk, askJob(m.session, ticket)), m.spinner.Tick)
}

func (m *model) applyAnswer(result session.Result) tea.Cmd {
	outcome := m.session.Complete(result)
	switch outcome {
	case session.Discarded:
		return nil
	case session.Answered:
		m.anim.stop()
		m.errorMessage = ""
		if stack := m.session.Stack(); stack != nil {
			m.infoMessage = "Work through the steps below. Press Space after each one."
			m.focusCards()
		} else {
			m.infoMessage = "The helper replied without any steps."
		}
		m.markTranscriptDirty()
		m.refreshTranscriptIfDirty()
		m.transcriptView.GotoBottom()
		return nil
	default:
		if last, ok := lastTurn(m.session.Transcript()); ok && last.Role == transcript.RoleError {
			m.errorMessage = last.Content
		}
		m.infoMessage = "You can try asking again."
	}
	// Failures keep the reader's scroll position.
	m.markTranscriptDirty()
	m.refreshTranscriptIfDirty()
	return nil
}

func (m *model) acknowledge() tea.Cmd {
	stack := m.session.Stack()
	if stack == nil {
		return nil
	}
	leaving := stack.Current()
	if !m.session.Acknowledge() {
		return nil
	}
	if stack.Done() {
		m.infoMessage = "That was the last step."
	}
	generation, phase := m.anim.start(leaving)
	return cardTickCmd(generation, phase, cardExitDuration)
}

func (m *model) startReset() tea.Cmd {
	wasIdle := !m.session.Busy()
	if !m.session.BeginReset() {
		return nil
	}
	m.anim.stop()
	m.composer.Reset()
	m.errorMessage = ""
	m.infoMessage = "Starting over…"
	cmds := []tea.Cmd{m.jobs.Start(jobKindReset, resetJob(m.session))}
	if wasIdle {
		// A pending ask already has a tick chain running.
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *model) focusComposer() tea.Cmd {
	m.focus = focusComposer
	return m.composer.Focus()
}

func (m *model) focusCards() {
	m.focus = focusCards
	m.composer.Blur()
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.composer.SetWidth(m.layout.contentWidth)
	m.composer.SetHeight(m.layout.composerHeight)
	// transcript box border and padding
	inner := m.layout.contentWidth - 4
	m.transcriptView.Width = inner
	m.transcriptView.Height = m.layout.transcriptHeight
	if m.renderer == nil || m.renderer.Width() != inner {
		m.renderer = transcript.NewRenderer(inner, m.config.MarkdownStyle)
	}
	m.markTranscriptDirty()
}

func (m *model) markTranscriptDirty() {
	m.transcriptDirty = true
}

func (m *model) refreshTranscriptIfDirty() {
	if !m.transcriptDirty {
		return
	}
	m.transcriptView.SetContent(strings.TrimRight(m.renderer.Render(m.session.Transcript()), "\n"))
	m.transcriptDirty = false
}

func lastTurn(turns []transcript.Turn) (transcript.Turn, bool) {
	if len(turns) == 0 {
		return transcript.Turn{}, false
	}
	return turns[len(turns)-1], true
}
