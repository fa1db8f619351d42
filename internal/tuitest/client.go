// Package tuitest runs the seniorhelp client inside a pseudo terminal, types into it
// and records every screen it draws.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

// DefaultWidth and DefaultHeight leave room for the full logo above a card.
const (
	DefaultWidth   = 100
	DefaultHeight  = 40
	defaultTimeout = 10 * time.Second
)

// Key sequences the client binds.
var (
	KeyEnter    = []byte{'\r'}
	KeyAltEnter = []byte{0x1b, '\r'}
	KeySpace    = []byte{' '}
	KeyTab      = []byte{'\t'}
	KeyEsc      = []byte{0x1b}
	KeyCtrlC    = []byte{0x03}
	KeyCtrlR    = []byte{0x12}
)

// Action is one scripted input. Keys are written once Wait has passed.
type Action struct {
	Wait time.Duration
	Keys []byte
}

// Press sends keys immediately.
func Press(keys []byte) Action { return Action{Keys: keys} }

// Type sends text as typed characters.
func Type(text string) Action { return Action{Keys: []byte(text)} }

// Pause waits without sending anything.
func Pause(d time.Duration) Action { return Action{Wait: d} }

// Ask types a question into the composer, submits it and gives the answer time to land.
func Ask(question string, settle time.Duration) []Action {
	return []Action{Type(question), Press(KeyEnter), Pause(settle)}
}

// Client describes one seniorhelp process under test.
type Client struct {
	// Binary is the built seniorhelp executable.
	Binary string
	// ConfigPath is passed through --config when set.
	ConfigPath string
	Dir        string
	Env        []string
	Width      int
	Height     int
	Timeout    time.Duration
}

// Args is the client's command line. The alternate screen stays off so every render
// lands in the recorded stream.
func (c Client) Args() []string {
	args := []string{"--no-alt-screen"}
	if c.ConfigPath != "" {
		args = append(args, "--config", c.ConfigPath)
	}
	return args
}

func (c Client) winsize() *pty.Winsize {
	cols, rows := c.Width, c.Height
	if cols <= 0 {
		cols = DefaultWidth
	}
	if rows <= 0 {
		rows = DefaultHeight
	}
	return &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
}

func (c Client) env() []string {
	env := append(os.Environ(), c.Env...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Play starts the client, sends the actions in order and then quits it with Ctrl+C.
// The client must exit cleanly before the timeout.
func (c Client) Play(ctx context.Context, actions ...Action) (*Recording, error) {
	if c.Binary == "" {
		return nil, errors.New("tuitest: client binary is required")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Binary, c.Args()...)
	cmd.Dir = c.Dir
	cmd.Env = c.env()

	term, err := pty.StartWithSize(cmd, c.winsize())
	if err != nil {
		return nil, fmt.Errorf("tuitest: start client: %w", err)
	}
	defer term.Close()

	var stream bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		record(term, &stream)
	}()

	started := time.Now()
	actions = append(actions, Press(KeyCtrlC))
	for _, action := range actions {
		if action.Wait > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(action.Wait):
			}
		}
		if len(action.Keys) == 0 {
			continue
		}
		if _, err := term.Write(action.Keys); err != nil {
			return nil, fmt.Errorf("tuitest: send keys: %w", err)
		}
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	select {
	case err := <-exited:
		if err != nil {
			return nil, fmt.Errorf("tuitest: client exited: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: client still running: %w", ctx.Err())
	}

	_ = term.Close()
	<-drained

	raw := stream.Bytes()
	return &Recording{Raw: raw, Screens: splitScreens(raw), Elapsed: time.Since(started)}, nil
}

// record copies the terminal output into dst, answering terminal queries on the way.
func record(term io.ReadWriter, dst *bytes.Buffer) {
	var pending []byte
	buf := make([]byte, 4096)
	for {
		n, err := term.Read(buf)
		if n > 0 {
			dst.Write(buf[:n])
			pending = answerQueries(term, append(pending, buf[:n]...))
		}
		if err != nil {
			return
		}
	}
}

// terminalReplies answers what lipgloss asks the terminal before the first render: the
// cursor position and the default colours, with either OSC terminator.
var terminalReplies = []struct{ query, reply string }{
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b]10;?\x07", "\x1b]10;rgb:ffff/ffff/ffff\x07"},
	{"\x1b]10;?\x1b\\", "\x1b]10;rgb:ffff/ffff/ffff\x1b\\"},
	{"\x1b]11;?\x07", "\x1b]11;rgb:1c1c/1c1c/1c1c\x07"},
	{"\x1b]11;?\x1b\\", "\x1b]11;rgb:1c1c/1c1c/1c1c\x1b\\"},
}

// queryTail is long enough to hold any query cut off at the end of a read.
const queryTail = 8

// answerQueries replies to every complete query in pending, earliest first, and returns
// what must be carried into the next read.
func answerQueries(w io.Writer, pending []byte) []byte {
	for {
		at, hit := -1, -1
		for i, r := range terminalReplies {
			idx := bytes.Index(pending, []byte(r.query))
			if idx >= 0 && (at < 0 || idx < at) {
				at, hit = idx, i
			}
		}
		if hit < 0 {
			break
		}
		_, _ = io.WriteString(w, terminalReplies[hit].reply)
		pending = pending[at+len(terminalReplies[hit].query):]
	}
	if len(pending) > queryTail {
		pending = pending[len(pending)-queryTail:]
	}
	return append([]byte(nil), pending...)
}
