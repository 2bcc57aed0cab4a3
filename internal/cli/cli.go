// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repodump/internal/acquire"
	"github.com/temirov/repodump/internal/dump"
	"github.com/temirov/repodump/internal/services/clipboard"
	"github.com/temirov/repodump/internal/tokenizer"
	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
)

const (
	includeFlagName          = "include"
	includeFlagShorthand     = "i"
	excludeFlagName          = "exclude"
	excludeFlagShorthand     = "e"
	maxSizeFlagName          = "max-size"
	maxTokensFlagName        = "max-tokens"
	splitFlagName            = "split"
	formatFlagName           = "format"
	binaryStrictFlagName     = "binary-strict"
	stripCommentsFlagName    = "strip-comments"
	excludeCommentsFlagName  = "exclude-comments"
	respectGitignoreFlagName = "respect-gitignore"
	stdoutFlagName           = "stdout"
	outfileFlagName          = "outfile"
	encodingFlagName         = "encoding"
	remoteURLFlagName        = "remote-url"
	privateTokenFlagName     = "private-token"
	refFlagName              = "ref"
	clipboardFlagName        = "clipboard"
	verboseFlagName          = "verbose"
	workersFlagName          = "workers"
	tokenizerFlagName        = "tokenizer"
	modelFlagName            = "model"
	tokenizerFileFlagName    = "tokenizer-file"
	configFlagName           = "config"
	globalFlagName           = "global"
	forceFlagName            = "force"

	defaultMaxSize      = "1048576"
	defaultEncoding     = "utf-8"
	defaultModel        = "gpt-4o"
	privateTokenEnvName = "GITHUB_TOKEN"
	defaultPath         = "."

	rootUse              = "repodump [path]"
	rootShortDescription = "flatten a repository into one text dump"
	rootLongDescription  = `repodump walks a directory (or a freshly cloned remote repository) and writes
every text file into a single dump annotated with an approximate token count.
Files are filtered by .gitignore rules and --include/--exclude globs, binary and
oversized files are skipped, and comments can be stripped. Use --max-tokens to
cap the total and --split with --outfile to write token-bounded chunks.`
	rootUsageExample = `  # Dump the current directory to stdout
  repodump .

  # Only Go sources, without tests, as JSON
  repodump --include '*.go' --exclude '*_test.go' --format json ./service

  # Clone a branch and write 50k-token chunks next to out/dump.txt
  repodump --remote-url https://github.com/owner/project --ref develop --split 50000 --outfile out/dump.txt`
	versionTemplate = "repodump version: {{.Version}}\n"

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a commented default configuration to ./` + utils.ConfigFileName + `,
or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`
	initWrittenFormat = "Configuration written to %s\n"

	includeFlagDescription          = "glob to include (repeatable, comma separated); trailing / selects a directory"
	excludeFlagDescription          = "glob to exclude (repeatable, comma separated); .git/ is always excluded"
	maxSizeFlagDescription          = "skip files larger than this size (bytes, or units such as 512kb, 1mb)"
	maxTokensFlagDescription        = "hard token cap; files past the cap are omitted (0 disables)"
	splitFlagDescription            = "write chunks of about N tokens each; requires --outfile"
	formatFlagDescription           = "output format: text, json, xml or html"
	binaryStrictFlagDescription     = "treat files with many non-printable bytes as binary"
	noBinaryStrictFlagDescription   = "only use NUL bytes and file types to detect binaries"
	stripCommentsFlagDescription    = "strip code comments from supported languages"
	excludeCommentsFlagDescription  = "alias for --strip-comments"
	respectGitignoreFlagDescription = "apply .gitignore files found in the tree"
	noRespectGitignoreDescription   = "ignore .gitignore files"
	stdoutFlagDescription           = "print the dump to stdout"
	noStdoutFlagDescription         = "do not print the dump to stdout"
	outfileFlagDescription          = "write the dump to this file"
	encodingFlagDescription         = "encoding for written output (only utf-8)"
	remoteURLFlagDescription        = "clone this git repository instead of reading a local path"
	privateTokenFlagDescription     = "token for private https remotes (default $" + privateTokenEnvName + ")"
	refFlagDescription              = "branch or full ref to clone"
	clipboardFlagDescription        = "copy the dump to the system clipboard"
	verboseFlagDescription          = "log per-file decisions"
	workersFlagDescription          = "files read and classified concurrently"
	tokenizerFlagDescription        = "token estimator: tiktoken, huggingface or heuristic"
	modelFlagDescription            = "model name selecting the tokenizer encoding"
	tokenizerFileFlagDescription    = "local tokenizer.json for the huggingface estimator"
	configFlagDescription           = "configuration file to use instead of ./" + utils.ConfigFileName
	globalFlagDescription           = "write the global configuration file"
	forceFlagDescription            = "overwrite an existing configuration file"
)

var (
	// ErrPathWithRemote reports both a path argument and --remote-url.
	ErrPathWithRemote = errors.New("--remote-url cannot be used with a path argument")
	// ErrSplitRequiresOutfile reports --split without --outfile.
	ErrSplitRequiresOutfile = errors.New("--split requires --outfile")
	// ErrUnsupportedEncoding reports an --encoding other than utf-8.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrInvalidPath reports a path argument that is not a directory.
	ErrInvalidPath = errors.New("path is not a directory")
	// ErrClipboardUnavailable reports --clipboard without a clipboard service.
	ErrClipboardUnavailable = errors.New("clipboard service not configured")
)

// CloneFunc fetches a remote repository.
type CloneFunc func(ctx context.Context, remoteURL string, options acquire.Options, logger *zap.Logger) (*acquire.Checkout, error)

// CounterFunc builds the token estimator.
type CounterFunc func(cfg tokenizer.Config, logger *zap.Logger) (tokenizer.Counter, error)

// Dependencies are the process-level collaborators of a run.
type Dependencies struct {
	Stdout    io.Writer
	Clipboard clipboard.Copier
	Now       func() time.Time
	// WorkingDirectory locates ./.repodump.yaml; empty means os.Getwd.
	WorkingDirectory string
	// HomeDirectory locates the global configuration; empty means the user home.
	HomeDirectory string
	NewLogger     func(verbose bool) (*zap.Logger, error)
	Clone         CloneFunc
	NewCounter    CounterFunc
}

// DefaultDependencies wires the real stdout, clipboard, clock and clone.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Stdout:     os.Stdout,
		Clipboard:  clipboard.NewService(),
		Now:        time.Now,
		NewLogger:  utils.NewApplicationLogger,
		Clone:      acquire.Clone,
		NewCounter: tokenizer.NewCounter,
	}
}

func (dependencies Dependencies) withDefaults() Dependencies {
	defaults := DefaultDependencies()
	if dependencies.Stdout == nil {
		dependencies.Stdout = defaults.Stdout
	}
	if dependencies.Now == nil {
		dependencies.Now = defaults.Now
	}
	if dependencies.NewLogger == nil {
		dependencies.NewLogger = defaults.NewLogger
	}
	if dependencies.Clone == nil {
		dependencies.Clone = defaults.Clone
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = defaults.NewCounter
	}
	return dependencies
}

// Execute runs the repodump application with the process arguments.
func Execute(ctx context.Context) error {
	return Run(ctx, DefaultDependencies(), os.Args[1:])
}

// Run executes the command tree with explicit dependencies and arguments.
func Run(ctx context.Context, dependencies Dependencies, arguments []string) error {
	rootCommand := newRootCommand(dependencies.withDefaults())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.ExecuteContext(ctx)
}

// dumpFlags stores the values of every dump flag.
type dumpFlags struct {
	include          []string
	exclude          []string
	maxSize          string
	maxTokens        int
	split            int
	format           string
	binaryStrict     bool
	stripComments    bool
	respectGitignore bool
	stdout           bool
	outfile          string
	encoding         string
	remoteURL        string
	privateToken     string
	reference        string
	clipboard        bool
	verbose          bool
	workers          int
	tokenizerKind    string
	model            string
	tokenizerFile    string
	configPath       string
}

// newRootCommand builds the root Cobra command.
func newRootCommand(dependencies Dependencies) *cobra.Command {
	flags := &dumpFlags{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runDump(command, dependencies, flags, arguments)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetOut(dependencies.Stdout)

	flagSet := rootCommand.Flags()
	flagSet.StringArrayVarP(&flags.include, includeFlagName, includeFlagShorthand, nil, includeFlagDescription)
	flagSet.StringArrayVarP(&flags.exclude, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	flagSet.StringVar(&flags.maxSize, maxSizeFlagName, defaultMaxSize, maxSizeFlagDescription)
	flagSet.IntVar(&flags.maxTokens, maxTokensFlagName, 0, maxTokensFlagDescription)
	flagSet.IntVar(&flags.split, splitFlagName, 0, splitFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, types.FormatText, formatFlagDescription)
	registerBooleanFlag(flagSet, &flags.binaryStrict, binaryStrictFlagName, true, binaryStrictFlagDescription)
	registerNegatedBooleanFlag(flagSet, &flags.binaryStrict, binaryStrictFlagName, noBinaryStrictFlagDescription)
	registerBooleanFlag(flagSet, &flags.stripComments, stripCommentsFlagName, false, stripCommentsFlagDescription)
	registerBooleanAlias(flagSet, &flags.stripComments, excludeCommentsFlagName, excludeCommentsFlagDescription)
	registerBooleanFlag(flagSet, &flags.respectGitignore, respectGitignoreFlagName, true, respectGitignoreFlagDescription)
	registerNegatedBooleanFlag(flagSet, &flags.respectGitignore, respectGitignoreFlagName, noRespectGitignoreDescription)
	registerBooleanFlag(flagSet, &flags.stdout, stdoutFlagName, true, stdoutFlagDescription)
	registerNegatedBooleanFlag(flagSet, &flags.stdout, stdoutFlagName, noStdoutFlagDescription)
	flagSet.StringVar(&flags.outfile, outfileFlagName, "", outfileFlagDescription)
	flagSet.StringVar(&flags.encoding, encodingFlagName, defaultEncoding, encodingFlagDescription)
	flagSet.StringVar(&flags.remoteURL, remoteURLFlagName, "", remoteURLFlagDescription)
	flagSet.StringVar(&flags.privateToken, privateTokenFlagName, "", privateTokenFlagDescription)
	flagSet.StringVar(&flags.reference, refFlagName, "", refFlagDescription)
	registerBooleanFlag(flagSet, &flags.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &flags.verbose, verboseFlagName, false, verboseFlagDescription)
	flagSet.IntVar(&flags.workers, workersFlagName, runtime.NumCPU(), workersFlagDescription)
	flagSet.StringVar(&flags.tokenizerKind, tokenizerFlagName, tokenizer.KindTiktoken, tokenizerFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, defaultModel, modelFlagDescription)
	flagSet.StringVar(&flags.tokenizerFile, tokenizerFileFlagName, "", tokenizerFileFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(newInitCommand(dependencies))
	return rootCommand
}

// dumpOptions converts validated flags into pipeline options.
func (flags *dumpFlags) dumpOptions(rootDirectory string, repositoryName string, maxSizeBytes int64) dump.Options {
	return dump.Options{
		RootDirectory:    rootDirectory,
		RepositoryName:   repositoryName,
		Include:          flags.include,
		Exclude:          flags.exclude,
		MaxSizeBytes:     maxSizeBytes,
		MaxTokens:        flags.maxTokens,
		SplitTokens:      flags.split,
		SplitRequested:   flags.split > 0,
		StripComments:    flags.stripComments,
		RespectGitignore: flags.respectGitignore,
		BinaryStrict:     flags.binaryStrict,
		Workers:          flags.workers,
	}
}

func (flags *dumpFlags) tokenizerConfig() tokenizer.Config {
	return tokenizer.Config{
		Kind:          flags.tokenizerKind,
		Model:         flags.model,
		TokenizerFile: flags.tokenizerFile,
	}
}
