package diff

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Runner executes git subcommands in a repository directory and returns
// their standard output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return string(out), errors.Wrapf(err, "git %s: %s", subcommand(args), msg)
		}
		return string(out), errors.Wrapf(err, "git %s", subcommand(args))
	}
	return string(out), nil
}

// subcommand returns the git subcommand in args, skipping "-c key=value" pairs.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}

// diffArgs builds a `git diff` invocation with zero context lines.
// Prefixes and quoting are pinned so user config cannot change the patch
// format the parser expects. Against the working tree git may refresh the
// index stat cache; nothing else in the repository is written.
func diffArgs(revs ...string) []string {
	args := []string{
		"-c", "core.quotepath=false",
		"diff",
		"--no-color",
		"--no-ext-diff",
		"--no-textconv",
		"--no-renames",
		"--src-prefix=a/",
		"--dst-prefix=b/",
		"-U0",
	}
	args = append(args, revs...)
	return append(args, "--")
}
