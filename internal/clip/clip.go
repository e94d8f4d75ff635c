// Package clip delivers the final text to the system clipboard.
package clip

import (
	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
)

// ErrClipboardUnavailable is returned when the text could not be placed on
// the clipboard.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Sink receives the final text of a run.
type Sink interface {
	Deliver(text string) error
}

// Clipboard writes text verbatim to the system clipboard.
type Clipboard struct {
	write       func(string) error
	unsupported func() bool
}

// NewClipboard returns a sink backed by the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Deliver implements Sink.
func (c *Clipboard) Deliver(text string) error {
	if c.unsupported() {
		return errors.WithHint(ErrClipboardUnavailable,
			"install xclip, xsel or wl-clipboard to enable clipboard access")
	}
	if err := c.write(text); err != nil {
		return errors.Mark(errors.Wrap(err, "writing to clipboard"), ErrClipboardUnavailable)
	}
	return nil
}

// Func adapts a function to the Sink interface.
type Func func(text string) error

// Deliver implements Sink.
func (f Func) Deliver(text string) error { return f(text) }
