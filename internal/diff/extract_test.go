package diff

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sprite-ai/diffclip/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers git queries from a table keyed by the joined args.
type fakeRunner struct {
	responses map[string]string
	calls     [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	key := strings.Join(args, " ")
	for prefix, out := range f.responses {
		if strings.HasPrefix(key, prefix) {
			return out, nil
		}
	}
	return "", errors.New("exit status 1")
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]string{
		"rev-parse --is-inside-work-tree":         "true\n",
		"rev-parse --verify --quiet HEAD^{commit}": "1111111\n",
		"rev-parse --verify --quiet main^{commit}": "2222222\n",
	}}
}

func TestParseRefSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    RefSpec
		wantErr bool
	}{
		{"", RefSpec{}, false},
		{" ", RefSpec{}, true},
		{"\t", RefSpec{}, true},
		{"  \n", RefSpec{}, true},
		{" .. ", RefSpec{}, true},
		{"main..feature", RefSpec{Source: "main", Target: "feature"}, false},
		{" main .. feature ", RefSpec{Source: "main", Target: "feature"}, false},
		{"origin/main..HEAD~2", RefSpec{Source: "origin/main", Target: "HEAD~2"}, false},
		{"bad-format", RefSpec{}, true},
		{"main..", RefSpec{}, true},
		{"..feature", RefSpec{}, true},
		{"a..b..c", RefSpec{}, true},
		{"--output=x..main", RefSpec{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRefSpec(tt.spec)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidRefSpec), "ParseRefSpec(%q): got %v", tt.spec, err)
			continue
		}
		if assert.NoError(t, err, "ParseRefSpec(%q)", tt.spec) {
			assert.Equal(t, tt.want, got, "ParseRefSpec(%q)", tt.spec)
		}
	}
}

func TestRefSpecString(t *testing.T) {
	assert.Equal(t, "main..feature", RefSpec{Source: "main", Target: "feature"}.String())
	assert.Equal(t, "HEAD.."+model.WorkingTree, RefSpec{}.String())
}

func TestExtractInvalidRefSpecQueriesNothing(t *testing.T) {
	runner := newFakeRunner()
	e := NewExtractor(runner, nil)

	_, err := e.Extract(context.Background(), t.TempDir(), "bad-format")
	require.True(t, errors.Is(err, ErrInvalidRefSpec), "got %v", err)
	assert.NotEmpty(t, errors.GetAllHints(err), "expected a usage hint on the error")
	assert.Empty(t, runner.calls, "expected no git queries")
}

func TestExtractBlankRefSpecQueriesNothing(t *testing.T) {
	runner := newFakeRunner()
	e := NewExtractor(runner, nil)

	_, err := e.Extract(context.Background(), t.TempDir(), " ")
	require.True(t, errors.Is(err, ErrInvalidRefSpec), "got %v", err)
	assert.Empty(t, runner.calls, "expected no git queries")
}

func TestExtractMissingDirectory(t *testing.T) {
	runner := newFakeRunner()
	e := NewExtractor(runner, nil)

	_, err := e.Extract(context.Background(), "/definitely/not/here", "")
	require.True(t, errors.Is(err, ErrInvalidRepository), "got %v", err)
	assert.Empty(t, runner.calls, "expected no git queries")
}

func TestExtractNotARepository(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{}}
	e := NewExtractor(runner, nil)

	_, err := e.Extract(context.Background(), t.TempDir(), "")
	assert.True(t, errors.Is(err, ErrInvalidRepository), "got %v", err)
}

func TestExtractRefNotFound(t *testing.T) {
	runner := newFakeRunner()
	e := NewExtractor(runner, nil)

	_, err := e.Extract(context.Background(), t.TempDir(), "main..feature")
	require.True(t, errors.Is(err, ErrRefNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "feature", "error should name the missing ref")
	for _, call := range runner.calls {
		assert.NotEqual(t, "diff", subcommand(call), "expected no diff to be computed")
	}
}

func TestExtractWorkingTree(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["-c core.quotepath=false diff"] = `diff --git a/a.txt b/a.txt
index abc1234..def5678 100644
--- a/a.txt
+++ b/a.txt
@@ -3 +3 @@
-bar
+foo
`
	e := NewExtractor(runner, nil)

	cs, err := e.Extract(context.Background(), t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "1111111", cs.SourceRef)
	assert.Equal(t, model.WorkingTree, cs.TargetRef)
	assert.Equal(t, 1, cs.TotalLinesAdded)
	assert.Equal(t, 1, cs.TotalLinesDeleted)

	last := runner.calls[len(runner.calls)-1]
	require.Equal(t, "diff", subcommand(last), "last query was %v", last)
	assert.Equal(t, "1111111", last[len(last)-2], "diff against HEAD commit")
}

func TestExtractBranches(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["rev-parse --verify --quiet feature^{commit}"] = "3333333\n"
	runner.responses["-c core.quotepath=false diff"] = ""
	e := NewExtractor(runner, nil)

	cs, err := e.Extract(context.Background(), t.TempDir(), "main..feature")
	require.NoError(t, err)
	assert.Equal(t, "2222222", cs.SourceRef)
	assert.Equal(t, "3333333", cs.TargetRef)
	assert.True(t, cs.Empty())

	last := runner.calls[len(runner.calls)-1]
	assert.Equal(t, []string{"2222222", "3333333"}, last[len(last)-3:len(last)-1])
}

func TestSubcommand(t *testing.T) {
	assert.Equal(t, "diff", subcommand(diffArgs("abc")))
	assert.Equal(t, "rev-parse", subcommand([]string{"rev-parse", "HEAD"}))
}
