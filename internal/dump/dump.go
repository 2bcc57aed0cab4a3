// Package dump runs one flattening invocation: rule loading, traversal,
// token counting, budget enforcement and chunking.
package dump

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/repodump/internal/classify"
	"github.com/temirov/repodump/internal/comments"
	"github.com/temirov/repodump/internal/config"
	"github.com/temirov/repodump/internal/pattern"
	"github.com/temirov/repodump/internal/tokenizer"
	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
	"github.com/temirov/repodump/internal/walker"
)

// DefaultMaxSizeBytes is the default per-file size ceiling.
const DefaultMaxSizeBytes int64 = 1_048_576

var (
	// ErrInvalidSplit reports a non-positive split size.
	ErrInvalidSplit = errors.New("split size must be a positive number of tokens")
	// ErrInvalidMaxSize reports a non-positive max size.
	ErrInvalidMaxSize = errors.New("max size must be a positive number of bytes")
	// ErrInvalidMaxTokens reports a negative token cap.
	ErrInvalidMaxTokens = errors.New("max tokens must not be negative")
)

// Options are the values one invocation runs with.
type Options struct {
	RootDirectory  string
	RepositoryName string
	Include        []string
	Exclude        []string
	MaxSizeBytes   int64
	// MaxTokens caps the total; zero disables the cap.
	MaxTokens int
	// SplitTokens packs files into chunks; zero disables splitting.
	SplitTokens      int
	SplitRequested   bool
	StripComments    bool
	RespectGitignore bool
	BinaryStrict     bool
	Workers          int
}

// Validate reports configuration errors before any file is touched.
func (options Options) Validate() error {
	if options.MaxSizeBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, options.MaxSizeBytes)
	}
	if options.MaxTokens < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxTokens, options.MaxTokens)
	}
	if options.SplitTokens < 0 || (options.SplitRequested && options.SplitTokens == 0) {
		return fmt.Errorf("%w: %d", ErrInvalidSplit, options.SplitTokens)
	}
	return nil
}

// Rules assembles the ordered rule list: .gitignore rules first, then
// command-line includes and excludes.
// Directories removed by the excludes are not searched for ignore files.
func (options Options) Rules() ([]pattern.Rule, error) {
	excludeRules := pattern.CommandLineRules(options.Exclude, pattern.SourceExclude)
	var rules []pattern.Rule
	if options.RespectGitignore {
		ignoreRules, err := config.LoadRecursiveIgnoreRules(options.RootDirectory, excludeRules...)
		if err != nil {
			return nil, err
		}
		rules = append(rules, ignoreRules...)
	}
	rules = append(rules, pattern.CommandLineRules(options.Include, pattern.SourceInclude)...)
	rules = append(rules, excludeRules...)
	return rules, nil
}

// Build produces the Dump for options. Per-file problems become omissions;
// only configuration errors, malformed patterns, an unreadable root and
// cancellation are returned as errors. On cancellation the partial Dump is
// returned alongside the context error.
func Build(ctx context.Context, options Options, counter tokenizer.Counter, logger *zap.Logger) (types.Dump, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if counter == nil {
		counter = tokenizer.HeuristicCounter{}
	}
	if err := options.Validate(); err != nil {
		return types.Dump{}, err
	}
	repositoryName := options.RepositoryName
	if repositoryName == "" {
		repositoryName = utils.DirectoryDisplayName(options.RootDirectory)
	}

	rules, err := options.Rules()
	if err != nil {
		return types.Dump{}, err
	}
	matcher, err := pattern.Compile(rules)
	if err != nil {
		return types.Dump{}, err
	}

	walkOptions := walker.Options{
		MaxSizeBytes:  options.MaxSizeBytes,
		StripComments: options.StripComments,
		Workers:       options.Workers,
	}
	fileWalker := walker.New(options.RootDirectory, matcher, classify.New(options.BinaryStrict), comments.DefaultRegistry(), walkOptions, logger)
	walkResult, walkError := fileWalker.Walk(ctx)
	if walkError != nil && !errors.Is(walkError, context.Canceled) && !errors.Is(walkError, context.DeadlineExceeded) {
		return types.Dump{}, walkError
	}

	result := types.Dump{
		RepositoryName: repositoryName,
		Omitted:        walkResult.Omitted,
		Estimator:      counter.Name(),
	}
	if _, countError := tokenizer.CountFiles(counter, walkResult.Files); countError != nil {
		return types.Dump{}, countError
	}

	kept, dropped := tokenizer.ApplyCap(walkResult.Files, options.MaxTokens)
	for _, file := range dropped {
		result.Omitted = append(result.Omitted, types.Omission{
			Path:   file.Path,
			Reason: types.OmittedOverBudget,
			Detail: fmt.Sprintf("%d tokens", file.Tokens),
		})
	}
	result.BudgetExceeded = len(dropped) > 0
	result.Files = kept
	for _, file := range kept {
		result.TotalTokens += file.Tokens
	}

	if options.SplitTokens > 0 {
		chunks, splitError := tokenizer.Split(kept, options.SplitTokens)
		if splitError != nil {
			return types.Dump{}, fmt.Errorf("%w: %v", ErrInvalidSplit, splitError)
		}
		result.Chunks = chunks
	}

	logger.Info("dump complete",
		zap.String("repository", repositoryName),
		zap.Int("files", len(result.Files)),
		zap.Int("omitted", len(result.Omitted)),
		zap.Int("over_budget", len(dropped)),
		zap.Int("tokens", result.TotalTokens),
		zap.String("estimator", result.Estimator),
		zap.Int("chunks", len(result.Chunks)),
	)
	return result, walkError
}
