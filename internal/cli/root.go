// Package cli implements the diffclip command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sprite-ai/diffclip/internal/clip"
	"github.com/sprite-ai/diffclip/internal/config"
	"github.com/sprite-ai/diffclip/internal/diff"
	"github.com/sprite-ai/diffclip/internal/notify"
	"github.com/sprite-ai/diffclip/internal/pipeline"
	"github.com/sprite-ai/diffclip/internal/summarize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitPipeline   = 2
)

// env holds the collaborators a run talks to.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	runner     diff.Runner
	sink       func() clip.Sink
	completer  func(cfg config.Config) summarize.Completer
	configPath func() (string, error)
}

func defaultEnv() *env {
	return &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		runner: diff.ExecRunner{},
		sink:   func() clip.Sink { return clip.NewClipboard() },
		completer: func(cfg config.Config) summarize.Completer {
			return summarize.NewOpenAI(cfg.OpenAIKey, cfg.Model, cfg.BaseURL)
		},
		configPath: config.Path,
	}
}

// options are the parsed command-line flags.
type options struct {
	summarise bool
	branches  string
	verbose   bool
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, defaultEnv(), os.Args[1:])
}

func run(ctx context.Context, e *env, args []string) int {
	exitCode := ExitSuccess
	rootCmd := newRootCmd(e, &exitCode)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(e.stdin)
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitValidation
	}
	return exitCode
}

func newRootCmd(e *env, exitCode *int) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "diffclip <directory>",
		Short: "Copy a git diff report, or a commit message summarizing it, to the clipboard",
		Long: `Collect the line-level changes of a git repository into a plain-text
report and copy it to the clipboard. With --summarise the report is sent to
a chat-completion API and the returned commit message is copied instead.

Examples:
  diffclip .                          # HEAD vs working tree
  diffclip . -b main..feature         # between two branches
  diffclip ~/src/app -s --refine      # summarize with a refinement turn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			*exitCode = runDiffclip(cmd, e, args[0], opts)
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.summarise, "summarise", "s", false, "summarize the changes into a commit message")
	flags.StringVarP(&opts.branches, "branches", "b", "", "compare two branches, as source..target")
	// Read through the config layer, which gives them precedence when set.
	flags.Bool("refine", false, "ask the model to refine its first draft")
	flags.String("notify", "", "how to report the outcome: console, code or dialog")
	flags.String("model", "", "chat model to use for --summarise")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func runDiffclip(cmd *cobra.Command, e *env, repoPath string, opts options) int {
	logger := newLogger(opts.verbose, e.stderr)
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(e, cmd.Flags())
	if err != nil {
		return e.report(notify.NewConsole(e.stderr), logger, notify.Failure(err), exitCodeFor(err))
	}

	kind, err := notify.ParseKind(cfg.Notify)
	if err != nil {
		return e.report(notify.NewConsole(e.stderr), logger, notify.Failure(err), exitCodeFor(err))
	}
	notifier := notify.New(kind, e.stdin, e.stderr)

	p := &pipeline.Pipeline{
		Extractor: diff.NewExtractor(e.runner, logger),
		Sink:      e.sink(),
		Logger:    logger,
	}
	if opts.summarise {
		s := summarize.New(e.completer(cfg),
			summarize.WithRefine(cfg.Refine),
			summarize.WithLogger(logger),
		)
		p.Summarizer = s
		logger.Debug("summarization enabled", zap.String("model", cfg.Model), zap.Int("turns", s.Turns()))
	}

	res, err := p.Run(cmd.Context(), pipeline.Request{
		RepoPath:  repoPath,
		RefSpec:   opts.branches,
		Summarize: opts.summarise,
	})
	if err != nil {
		return e.report(notifier, logger, notify.Failure(err), exitCodeFor(err))
	}
	return e.report(notifier, logger, notify.Success(res.Message(), res.Text), ExitSuccess)
}

func loadConfig(e *env, flags *pflag.FlagSet) (config.Config, error) {
	path, err := e.configPath()
	if err != nil {
		return config.Config{}, errors.Mark(err, config.ErrInvalidConfig)
	}
	return config.Load(path, flags)
}

// report presents the outcome and passes code through. A notifier that
// fails falls back to a console line on stderr.
func (e *env) report(n notify.Notifier, logger *zap.Logger, o notify.Outcome, code int) int {
	if err := n.Notify(o); err != nil {
		logger.Warn("notifier failed", zap.Error(err))
		if _, ok := n.(*notify.Console); !ok {
			_ = notify.NewConsole(e.stderr).Notify(o)
		}
	}
	return code
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, diff.ErrInvalidRepository),
		errors.Is(err, diff.ErrInvalidRefSpec),
		errors.Is(err, diff.ErrRefNotFound),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, notify.ErrUnknownKind):
		return ExitValidation
	default:
		return ExitPipeline
	}
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core, zap.AddCaller(), zap.Development())
}
