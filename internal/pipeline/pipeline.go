// Package pipeline runs one diffclip invocation: extract the change set,
// format the report, optionally summarize it, and deliver the result.
package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sprite-ai/diffclip/internal/clip"
	"github.com/sprite-ai/diffclip/internal/model"
	"github.com/sprite-ai/diffclip/internal/report"
	"go.uber.org/zap"
)

// Messages shown after a successful delivery.
const (
	SummaryCopied = "Diff summary copied to clipboard."
	DiffCopied    = "Git diff has been copied to the clipboard."
)

// errNoSummarizer is returned when a summary is requested but the pipeline
// was built without a summarizer.
var errNoSummarizer = errors.New("summarization is not configured")

// Extractor produces the change set for a repository and ref spec.
type Extractor interface {
	Extract(ctx context.Context, repoPath, refSpec string) (*model.ChangeSet, error)
}

// Summarizer turns a report into a commit message.
type Summarizer interface {
	Summarize(ctx context.Context, report string) (string, error)
}

// Request describes a single run.
type Request struct {
	RepoPath  string
	RefSpec   string // empty for the working tree
	Summarize bool
}

// Stats counts what the run saw.
type Stats struct {
	Files   int
	Added   int
	Deleted int
}

// Result is what was delivered.
type Result struct {
	Text       string
	Summarized bool
	Stats      Stats
}

// Message is the user-facing confirmation for r.
func (r Result) Message() string {
	if r.Summarized {
		return SummaryCopied
	}
	return DiffCopied
}

// Pipeline wires the stages together. Summarizer may be nil when summaries
// are never requested.
type Pipeline struct {
	Extractor  Extractor
	Summarizer Summarizer
	Sink       clip.Sink
	Logger     *zap.Logger
}

// Run executes the stages in order. The first failure aborts the run and
// nothing is delivered; a failed summary is never replaced by the raw report.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	if req.Summarize && p.Summarizer == nil {
		return Result{}, errNoSummarizer
	}

	cs, err := p.Extractor.Extract(ctx, req.RepoPath, req.RefSpec)
	if err != nil {
		return Result{}, err
	}
	files, added, deleted := cs.Stats()
	stats := Stats{Files: files, Added: added, Deleted: deleted}
	logger.Info("extracted changes",
		zap.String("source", cs.SourceRef),
		zap.String("target", cs.TargetRef),
		zap.Int("files", files),
		zap.Int("added", added),
		zap.Int("deleted", deleted),
	)

	text := report.Format(cs)
	logger.Debug("formatted report", zap.Int("bytes", len(text)))

	if req.Summarize {
		llmStart := time.Now()
		text, err = p.Summarizer.Summarize(ctx, text)
		if err != nil {
			return Result{}, errors.Wrap(err, "summarizing")
		}
		logger.Info("summarized report",
			zap.Duration("elapsed", time.Since(llmStart)),
			zap.Int("bytes", len(text)),
		)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := p.Sink.Deliver(text); err != nil {
		return Result{}, err
	}
	logger.Info("delivered result",
		zap.Bool("summarized", req.Summarize),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Result{Text: text, Summarized: req.Summarize, Stats: stats}, nil
}
