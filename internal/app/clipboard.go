package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

type clipboardMethod uint8

const (
	clipboardMethodSystem clipboardMethod = iota
	clipboardMethodOSC52
)

func (m clipboardMethod) String() string {
	if m == clipboardMethodOSC52 {
		return "osc52"
	}
	return "system"
}

var errOSC52Disabled = errors.New("OSC52 unavailable for this terminal")

// clipboardWriter tries the desktop clipboard first and falls back to an
// OSC52 escape written to the controlling terminal, which also works over ssh.
type clipboardWriter struct {
	system  func(string) error
	openTTY func() (io.WriteCloser, error)
	getenv  func(string) string
}

func newClipboardWriter() *clipboardWriter {
	return &clipboardWriter{
		system: clipboard.WriteAll,
		openTTY: func() (io.WriteCloser, error) {
			return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		},
		getenv: os.Getenv,
	}
}

var defaultClipboard = newClipboardWriter()

type clipboardMsg struct {
	label  string
	method clipboardMethod
	err    error
}

// copyCmd copies text off the update goroutine; clipboard helpers can hang.
func copyCmd(text, label string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		method, err := defaultClipboard.copyWithContext(ctx, text)
		return clipboardMsg{label: label, method: method, err: err}
	}
}

func (c *clipboardWriter) copyWithContext(ctx context.Context, text string) (clipboardMethod, error) {
	type outcome struct {
		method clipboardMethod
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		method, err := c.copy(text)
		done <- outcome{method, err}
	}()
	select {
	case <-ctx.Done():
		return clipboardMethodSystem, ctx.Err()
	case out := <-done:
		return out.method, out.err
	}
}

func (c *clipboardWriter) copy(text string) (clipboardMethod, error) {
	systemErr := c.system(text)
	if systemErr == nil {
		return clipboardMethodSystem, nil
	}
	oscErr := c.writeOSC52(text)
	if oscErr == nil {
		return clipboardMethodOSC52, nil
	}
	return clipboardMethodSystem, c.describeFailure(systemErr, oscErr)
}

func (c *clipboardWriter) writeOSC52(text string) error {
	if !c.osc52Enabled() {
		return errOSC52Disabled
	}
	tty, err := c.openTTY()
	if err != nil {
		return fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return c.writeOSC52Sequence(tty, text)
}

// writeOSC52Sequence picks the escape wrapping for the multiplexer in use.
// Under tmux both the raw and wrapped forms are sent, since which one gets
// through depends on the tmux allow-passthrough setting.
func (c *clipboardWriter) writeOSC52Sequence(w io.Writer, text string) error {
	seq := osc52.New(text)
	if c.env("TMUX") != "" {
		if _, err := seq.WriteTo(w); err != nil {
			return err
		}
		_, err := seq.Tmux().WriteTo(w)
		return err
	}
	if strings.HasPrefix(strings.ToLower(c.env("TERM")), "screen") {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}

func (c *clipboardWriter) osc52Enabled() bool {
	switch strings.ToLower(c.env("AGENTVIEW_DISABLE_OSC52")) {
	case "1", "true", "yes", "on":
		return false
	}
	term := c.env("TERM")
	return term != "" && !strings.EqualFold(term, "dumb")
}

func (c *clipboardWriter) headless() bool {
	return c.env("DISPLAY") == "" && c.env("WAYLAND_DISPLAY") == ""
}

func (c *clipboardWriter) env(key string) string {
	return strings.TrimSpace(c.getenv(key))
}

func (c *clipboardWriter) describeFailure(systemErr, oscErr error) error {
	if c.headless() {
		return fmt.Errorf("no GUI clipboard available (DISPLAY/WAYLAND_DISPLAY unset); OSC52 fallback failed: %v", oscErr)
	}
	reason := strings.TrimSpace(systemErr.Error())
	if reason == "exit status 1" {
		reason = "clipboard helper exited with status 1"
	}
	return fmt.Errorf("system clipboard failed: %s; OSC52 fallback failed: %v", reason, oscErr)
}
