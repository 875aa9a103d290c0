// Package ui renders the transcription and translation streams plus a
// rewritable status line to the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

const (
	defaultStatusWidth = 100

	ansiClearLine   = "\r\x1b[K"
	ansiDim         = "\x1b[2m"
	ansiCyan        = "\x1b[36m"
	ansiReset       = "\x1b[0m"
	ansiClearScreen = "\x1b[2J\x1b[H"
)

// Console is a session.Sink that writes both text streams interleaved and
// keeps the status on a single rewritable line. Safe for concurrent use.
type Console struct {
	mu            sync.Mutex
	out           io.Writer
	tty           bool
	statusWidth   int
	lastStatus    string
	lastWasStatus bool
	showTrans     bool
}

// Option adjusts console construction.
type Option func(*Console)

// WithWriter redirects output, mainly for tests.
func WithWriter(w io.Writer, tty bool) Option {
	return func(c *Console) {
		c.out = w
		c.tty = tty
	}
}

// WithStatusWidth bounds the status line to the given display width.
func WithStatusWidth(width int) Option {
	return func(c *Console) {
		if width > 0 {
			c.statusWidth = width
		}
	}
}

// WithTranslation enables the translation stream rendering.
func WithTranslation(enabled bool) Option {
	return func(c *Console) { c.showTrans = enabled }
}

// NewConsole builds a console bound to stdout. ANSI handling goes through
// go-colorable so Windows terminals behave.
func NewConsole(opts ...Option) *Console {
	c := &Console{
		out:         colorable.NewColorableStdout(),
		tty:         isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		statusWidth: defaultStatusWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnTranscription writes transcribed text to the stream. The text arrives
// with its marker or continuation prefix already applied.
func (c *Console) OnTranscription(text string, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeText(text)
}

// OnTranslation writes the translated stream dimmed in cyan so the two
// streams stay distinguishable when interleaved.
func (c *Console) OnTranslation(text string, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.showTrans {
		return
	}
	if c.tty {
		c.writeText(ansiCyan + text + ansiReset)
		return
	}
	c.writeText(text)
}

// OnStatus rewrites the status line in place on a terminal. Consecutive
// status updates reuse the same line; text output pushes the status below
// it. On a plain writer each change prints one line.
func (c *Console) OnStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.lastStatus {
		return
	}
	c.lastStatus = runewidth.Truncate(text, c.statusWidth, "...")
	if !c.tty {
		fmt.Fprintf(c.out, "\n[%s]", c.lastStatus)
		return
	}
	if c.lastWasStatus {
		fmt.Fprint(c.out, ansiClearLine)
	} else {
		fmt.Fprint(c.out, "\n")
	}
	fmt.Fprint(c.out, ansiDim+"» "+c.lastStatus+ansiReset)
	c.lastWasStatus = true
}

// OnClear wipes the screen after a reset.
func (c *Console) OnClear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastStatus = ""
	c.lastWasStatus = false
	if c.tty {
		fmt.Fprint(c.out, ansiClearScreen)
		return
	}
	fmt.Fprint(c.out, "\n--- reset ---\n")
}

func (c *Console) writeText(text string) {
	if c.tty && c.lastWasStatus {
		// Take over the status line; the next status repaints below.
		fmt.Fprint(c.out, ansiClearLine)
		c.lastWasStatus = false
	}
	fmt.Fprint(c.out, text)
}
