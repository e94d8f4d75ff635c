// Package summarize condenses a diff report into a commit message using a
// chat completion model.
package summarize

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	// ErrAuthentication is returned when the API credential is missing or rejected.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNetwork is returned when the completion API cannot be reached or fails.
	ErrNetwork = errors.New("completion request failed")
	// ErrEmptyResponse is returned when the final reply has no text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Summarizer turns a report into a commit message. With refinement enabled
// it runs a second turn asking the model to drop per-file breakdowns and
// returns that reply instead of the draft.
type Summarizer struct {
	completer Completer
	refine    bool
	logger    *zap.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithRefine enables the second "refine" turn.
func WithRefine(refine bool) Option {
	return func(s *Summarizer) {
		s.refine = refine
	}
}

// WithLogger sets the logger used for turn boundaries.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Summarizer backed by completer.
func New(completer Completer, opts ...Option) *Summarizer {
	s := &Summarizer{
		completer: completer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Turns returns how many round-trips Summarize performs.
func (s *Summarizer) Turns() int {
	if s.refine {
		return 2
	}
	return 1
}

// Summarize sends the report and returns the model's commit message with
// surrounding whitespace removed. Turns run one after another; a failed
// turn ends the exchange.
func (s *Summarizer) Summarize(ctx context.Context, report string) (string, error) {
	conv := NewConversation(s.completer, systemPrompt)

	s.logger.Debug("requesting draft summary", zap.Int("report_bytes", len(report)))
	reply, err := conv.Ask(ctx, draftPrompt(report))
	if err != nil {
		return "", errors.Wrap(err, "draft turn")
	}

	if s.refine {
		s.logger.Debug("requesting refined summary", zap.Int("draft_bytes", len(reply)))
		reply, err = conv.Ask(ctx, refinePrompt)
		if err != nil {
			return "", errors.Wrap(err, "refine turn")
		}
	}

	summary := strings.TrimSpace(reply)
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}
