// Package notify reports the outcome of a diffclip run to the user.
package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/sprite-ai/diffclip/internal/model"
	"github.com/sprite-ai/diffclip/internal/tui"
)

// ErrUnknownKind is returned by ParseKind for an unrecognized notifier name.
var ErrUnknownKind = errors.New("unknown notifier")

// Kind selects a Notifier implementation.
type Kind string

const (
	KindConsole Kind = "console"
	KindCode    Kind = "code"
	KindDialog  Kind = "dialog"
)

// ParseKind validates a notifier name. An empty name selects the console.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindConsole, nil
	case KindConsole, KindCode, KindDialog:
		return k, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrUnknownKind, "%q", s),
		"valid notifiers are console, code and dialog",
	)
}

// Outcome is what a run produced, as shown to the user.
type Outcome struct {
	Severity model.Severity
	Title    string
	Message  string
	Hints    []string
	Preview  string
}

// Success builds the outcome for a delivered result.
func Success(message, preview string) Outcome {
	return Outcome{
		Severity: model.SeverityInfo,
		Title:    "Success",
		Message:  message,
		Preview:  preview,
	}
}

// Failure builds the outcome for a failed run. The hints attached to err
// are carried along.
func Failure(err error) Outcome {
	return Outcome{
		Severity: model.SeverityError,
		Title:    "Error",
		Message:  "An error occurred: " + err.Error(),
		Hints:    errors.GetAllHints(err),
	}
}

// Notifier presents an Outcome.
type Notifier interface {
	Notify(o Outcome) error
}

// New returns the notifier for kind. Console output goes to w; the dialog
// draws on w and reads keys from in.
func New(kind Kind, in io.Reader, w io.Writer) Notifier {
	switch kind {
	case KindCode:
		return Silent{}
	case KindDialog:
		return &Dialog{in: in, out: w, run: tui.Run}
	default:
		return &Console{w: w}
	}
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
)

// Console prints a single styled line per outcome, plus any hints.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(o Outcome) error {
	style := successStyle
	if o.Severity == model.SeverityError {
		style = errorStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(o.Title + ":"))
	b.WriteString(" ")
	b.WriteString(o.Message)
	b.WriteByte('\n')
	for _, h := range o.Hints {
		b.WriteString(hintStyle.Render("  hint: " + h))
		b.WriteByte('\n')
	}

	_, err := fmt.Fprint(c.w, b.String())
	return err
}

// Silent reports nothing; the exit code is the only signal.
type Silent struct{}

func (Silent) Notify(Outcome) error { return nil }

// Dialog shows the outcome in a modal terminal dialog.
type Dialog struct {
	in  io.Reader
	out io.Writer
	run func(d tui.Dialog, in io.Reader, out io.Writer) error
}

func (d *Dialog) Notify(o Outcome) error {
	err := d.run(tui.Dialog{
		Severity: o.Severity,
		Title:    o.Title,
		Message:  o.Message,
		Hints:    o.Hints,
		Preview:  o.Preview,
	}, d.in, d.out)
	if err != nil {
		return errors.Wrap(err, "showing dialog")
	}
	return nil
}
