package notify

import (
	"bytes"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sprite-ai/diffclip/internal/model"
	"github.com/sprite-ai/diffclip/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", KindConsole},
		{"console", KindConsole},
		{"code", KindCode},
		{" Dialog ", KindDialog},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("toast")
	assert.True(t, errors.Is(err, ErrUnknownKind))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestConsoleSuccess(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewConsole(&buf).Notify(Success("Git diff has been copied to the clipboard.", "report")))

	out := buf.String()
	assert.Contains(t, out, "Success:")
	assert.Contains(t, out, "Git diff has been copied to the clipboard.")
	assert.NotContains(t, out, "report", "console does not print the preview")
}

func TestConsoleFailureWithHints(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WithHint(errors.New("not a git repository: /tmp/x"), "diffclip only works on git repositories")

	require.NoError(t, NewConsole(&buf).Notify(Failure(err)))

	out := buf.String()
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "An error occurred: not a git repository: /tmp/x")
	assert.Contains(t, out, "hint: diffclip only works on git repositories")
}

func TestFailureOutcome(t *testing.T) {
	o := Failure(errors.New("boom"))

	assert.Equal(t, model.SeverityError, o.Severity)
	assert.Equal(t, "An error occurred: boom", o.Message)
	assert.Empty(t, o.Hints)
}

func TestSilent(t *testing.T) {
	assert.NoError(t, Silent{}.Notify(Failure(errors.New("boom"))))
}

func TestDialogPassesOutcome(t *testing.T) {
	var got tui.Dialog
	d := &Dialog{run: func(dl tui.Dialog, _ io.Reader, _ io.Writer) error {
		got = dl
		return nil
	}}

	require.NoError(t, d.Notify(Success("Diff summary copied to clipboard.", "Fix parser")))

	assert.Equal(t, model.SeverityInfo, got.Severity)
	assert.Equal(t, "Success", got.Title)
	assert.Equal(t, "Diff summary copied to clipboard.", got.Message)
	assert.Equal(t, "Fix parser", got.Preview)
}

func TestDialogError(t *testing.T) {
	d := &Dialog{run: func(tui.Dialog, io.Reader, io.Writer) error {
		return errors.New("no tty")
	}}

	err := d.Notify(Success("x", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
}

func TestNew(t *testing.T) {
	assert.IsType(t, &Console{}, New(KindConsole, nil, io.Discard))
	assert.IsType(t, Silent{}, New(KindCode, nil, io.Discard))
	assert.IsType(t, &Dialog{}, New(KindDialog, nil, io.Discard))
}
