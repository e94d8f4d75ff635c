package diff

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sprite-ai/diffclip/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRepository is returned when the path is not a git working copy.
	ErrInvalidRepository = errors.New("not a git repository")
	// ErrInvalidRefSpec is returned when a ref spec is not "source..target".
	ErrInvalidRefSpec = errors.New("invalid ref spec")
	// ErrRefNotFound is returned when a named ref does not resolve to a commit.
	ErrRefNotFound = errors.New("ref not found")
)

const refSpecSeparator = ".."

// RefSpec names the two sides of a comparison. The zero value compares
// HEAD against the working tree.
type RefSpec struct {
	Source string
	Target string
}

// WorkingTree reports whether the spec targets the working tree.
func (r RefSpec) WorkingTree() bool {
	return r.Source == "" && r.Target == ""
}

func (r RefSpec) String() string {
	if r.WorkingTree() {
		return "HEAD.." + model.WorkingTree
	}
	return r.Source + refSpecSeparator + r.Target
}

// ParseRefSpec parses "" or "source..target". Blanks around each name are
// ignored; any other non-empty input is an error.
func ParseRefSpec(spec string) (RefSpec, error) {
	if spec == "" {
		return RefSpec{}, nil
	}

	parts := strings.Split(spec, refSpecSeparator)
	if len(parts) != 2 {
		return RefSpec{}, invalidRefSpec(spec)
	}
	source := strings.TrimSpace(parts[0])
	target := strings.TrimSpace(parts[1])
	if source == "" || target == "" {
		return RefSpec{}, invalidRefSpec(spec)
	}
	if strings.HasPrefix(source, "-") || strings.HasPrefix(target, "-") {
		return RefSpec{}, invalidRefSpec(spec)
	}
	return RefSpec{Source: source, Target: target}, nil
}

func invalidRefSpec(spec string) error {
	return errors.WithHint(
		errors.Wrapf(ErrInvalidRefSpec, "%q", spec),
		"use the form sourceBranch..targetBranch",
	)
}

// Extractor collects the line-level changes between two refs, or between
// HEAD and the working tree.
type Extractor struct {
	runner Runner
	logger *zap.Logger
}

// NewExtractor creates an extractor that queries git through runner.
func NewExtractor(runner Runner, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{runner: runner, logger: logger}
}

// Extract validates the repository, resolves the refs named by refSpec and
// returns the change set between them. It never modifies the repository.
func (e *Extractor) Extract(ctx context.Context, repoPath, refSpec string) (*model.ChangeSet, error) {
	spec, err := ParseRefSpec(refSpec)
	if err != nil {
		return nil, err
	}

	if err := e.validateRepository(ctx, repoPath); err != nil {
		return nil, err
	}

	var (
		source = "HEAD"
		target = model.WorkingTree
		revs   []string
	)
	if !spec.WorkingTree() {
		source, target = spec.Source, spec.Target
	}

	sourceSha, err := e.resolve(ctx, repoPath, source)
	if err != nil {
		return nil, err
	}
	revs = append(revs, sourceSha)

	if !spec.WorkingTree() {
		target, err = e.resolve(ctx, repoPath, spec.Target)
		if err != nil {
			return nil, err
		}
		revs = append(revs, target)
	}

	e.logger.Debug("computing diff",
		zap.String("repo", repoPath),
		zap.Stringer("refs", spec),
		zap.String("source", sourceSha),
		zap.String("target", target))

	raw, err := e.runner.Run(ctx, repoPath, diffArgs(revs...)...)
	if err != nil {
		return nil, errors.Wrap(err, "computing diff")
	}

	files, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	cs := model.NewChangeSet(sourceSha, target, files)
	e.logger.Debug("extracted change set",
		zap.Int("files", len(cs.Files)),
		zap.Int("added", cs.TotalLinesAdded),
		zap.Int("deleted", cs.TotalLinesDeleted))
	return cs, nil
}

func (e *Extractor) validateRepository(ctx context.Context, repoPath string) error {
	info, err := os.Stat(repoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrInvalidRepository, "directory %q does not exist", repoPath)
		}
		return errors.Mark(errors.Wrapf(err, "checking %q", repoPath), ErrInvalidRepository)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrInvalidRepository, "%q is not a directory", repoPath)
	}

	out, err := e.runner.Run(ctx, repoPath, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidRepository, "%q", repoPath),
			"diffclip only works on git repositories",
		)
	}
	return nil
}

// resolve returns the commit id ref points at.
func (e *Extractor) resolve(ctx context.Context, repoPath, ref string) (string, error) {
	out, err := e.runner.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	sha := strings.TrimSpace(out)
	if err != nil || sha == "" {
		return "", errors.Wrapf(ErrRefNotFound, "%q", ref)
	}
	return sha, nil
}
