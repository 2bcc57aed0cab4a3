package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/repodump/internal/acquire"
	"github.com/temirov/repodump/internal/config"
	"github.com/temirov/repodump/internal/dump"
	"github.com/temirov/repodump/internal/output"
	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
)

const (
	privateTokenKey      = "private_token"
	writtenChunkFormat   = "Written %s\n"
	outputDirectoryMode  = 0o755
	outputFileMode       = 0o644
	invalidFormatMessage = "invalid format value %q (use %s)"
)

var acceptedEncodings = map[string]struct{}{
	"utf-8": {},
	"utf8":  {},
}

// runDump is the root command action.
func runDump(command *cobra.Command, dependencies Dependencies, flags *dumpFlags, arguments []string) error {
	if len(arguments) > 0 && flags.remoteURL != "" {
		return ErrPathWithRemote
	}
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if loadError != nil {
		return loadError
	}
	applyConfiguration(command.Flags(), flags, configuration)
	maxSizeBytes, validationError := validateFlags(command.Flags(), flags)
	if validationError != nil {
		return validationError
	}

	logger, loggerError := dependencies.NewLogger(flags.verbose)
	if loggerError != nil {
		return fmt.Errorf("create logger: %w", loggerError)
	}
	defer func() { _ = logger.Sync() }()

	ctx := command.Context()
	rootDirectory := defaultPath
	if len(arguments) > 0 {
		rootDirectory = arguments[0]
	}
	repositoryName := ""
	if flags.remoteURL != "" {
		checkout, cloneError := dependencies.Clone(ctx, flags.remoteURL, acquire.Options{
			Reference: flags.reference,
			Token:     resolvePrivateToken(flags.privateToken),
			Depth:     acquire.DefaultDepth,
		}, logger)
		if cloneError != nil {
			return cloneError
		}
		defer func() {
			if closeError := checkout.Close(); closeError != nil {
				logger.Warn("remove temporary checkout", zap.String("directory", checkout.Directory), zap.Error(closeError))
			}
		}()
		rootDirectory = checkout.RootDirectory
		repositoryName = checkout.RepositoryName
	} else if statError := requireDirectory(rootDirectory); statError != nil {
		return statError
	}

	counter, counterError := dependencies.NewCounter(flags.tokenizerConfig(), logger)
	if counterError != nil {
		return counterError
	}
	options := flags.dumpOptions(rootDirectory, repositoryName, maxSizeBytes)
	result, buildError := dump.Build(ctx, options, counter, logger)
	if buildError != nil {
		return buildError
	}

	if flags.split > 0 {
		return writeChunks(dependencies, flags, result, logger)
	}
	return writeSingle(dependencies, flags, result)
}

// applyConfiguration fills every flag the user did not set from the merged
// configuration files.
func applyConfiguration(flagSet *pflag.FlagSet, flags *dumpFlags, configuration config.ApplicationConfiguration) {
	if !flagSet.Changed(includeFlagName) && len(configuration.Include) > 0 {
		flags.include = configuration.Include
	}
	if !flagSet.Changed(excludeFlagName) && len(configuration.Exclude) > 0 {
		flags.exclude = configuration.Exclude
	}
	if !flagSet.Changed(maxSizeFlagName) && configuration.MaxSize != "" {
		flags.maxSize = configuration.MaxSize
	}
	applyInt(flagSet, maxTokensFlagName, &flags.maxTokens, configuration.MaxTokens)
	applyInt(flagSet, splitFlagName, &flags.split, configuration.Split)
	applyInt(flagSet, workersFlagName, &flags.workers, configuration.Workers)
	applyBool(flagSet, &flags.stripComments, configuration.StripComments, stripCommentsFlagName, excludeCommentsFlagName)
	applyBool(flagSet, &flags.respectGitignore, configuration.RespectGitignore, respectGitignoreFlagName, negatedFlagPrefix+respectGitignoreFlagName)
	applyBool(flagSet, &flags.binaryStrict, configuration.BinaryStrict, binaryStrictFlagName, negatedFlagPrefix+binaryStrictFlagName)
	applyBool(flagSet, &flags.clipboard, configuration.Clipboard, clipboardFlagName)
	applyString(flagSet, formatFlagName, &flags.format, configuration.Format)
	applyString(flagSet, tokenizerFlagName, &flags.tokenizerKind, configuration.Tokenizer)
	applyString(flagSet, modelFlagName, &flags.model, configuration.Model)
	applyString(flagSet, tokenizerFileFlagName, &flags.tokenizerFile, configuration.TokenizerFile)
}

func applyInt(flagSet *pflag.FlagSet, name string, target *int, value *int) {
	if value != nil && !flagSet.Changed(name) {
		*target = *value
	}
}

func applyBool(flagSet *pflag.FlagSet, target *bool, value *bool, names ...string) {
	if value != nil && !anyFlagChanged(flagSet, names...) {
		*target = *value
	}
}

func applyString(flagSet *pflag.FlagSet, name string, target *string, value string) {
	if value != "" && !flagSet.Changed(name) {
		*target = value
	}
}

// validateFlags rejects usage errors before any file is touched and returns
// the parsed size ceiling.
func validateFlags(flagSet *pflag.FlagSet, flags *dumpFlags) (int64, error) {
	flags.format = strings.ToLower(strings.TrimSpace(flags.format))
	if !output.IsSupported(flags.format) {
		return 0, fmt.Errorf(invalidFormatMessage, flags.format, strings.Join(output.Formats, ", "))
	}
	if _, accepted := acceptedEncodings[strings.ToLower(strings.TrimSpace(flags.encoding))]; !accepted {
		return 0, fmt.Errorf("%w %q: only %s is supported", ErrUnsupportedEncoding, flags.encoding, defaultEncoding)
	}
	if flags.split < 0 || (flagSet.Changed(splitFlagName) && flags.split == 0) {
		return 0, fmt.Errorf("%w: %d", dump.ErrInvalidSplit, flags.split)
	}
	if flags.split > 0 && flags.outfile == "" {
		return 0, ErrSplitRequiresOutfile
	}
	maxSizeBytes, sizeError := utils.ParseFileSize(flags.maxSize)
	if sizeError != nil {
		return 0, fmt.Errorf("--%s: %w", maxSizeFlagName, sizeError)
	}
	return maxSizeBytes, nil
}

// resolvePrivateToken prefers the flag and falls back to $GITHUB_TOKEN.
func resolvePrivateToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	environment := viper.New()
	if bindError := environment.BindEnv(privateTokenKey, privateTokenEnvName); bindError != nil {
		return ""
	}
	return environment.GetString(privateTokenKey)
}

func requireDirectory(rootDirectory string) error {
	info, statError := os.Stat(rootDirectory)
	if statError != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPath, rootDirectory, statError)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidPath, rootDirectory)
	}
	return nil
}

// writeSingle renders one dump to the outfile, stdout and clipboard.
func writeSingle(dependencies Dependencies, flags *dumpFlags, result types.Dump) error {
	rendered, renderError := output.Render(flags.format, result, dependencies.Now())
	if renderError != nil {
		return renderError
	}
	if flags.outfile != "" {
		if writeError := writeOutputFile(flags.outfile, rendered); writeError != nil {
			return writeError
		}
	}
	if flags.stdout {
		if _, printError := fmt.Fprintln(dependencies.Stdout, rendered); printError != nil {
			return printError
		}
	}
	if flags.clipboard {
		if dependencies.Clipboard == nil {
			return ErrClipboardUnavailable
		}
		if copyError := dependencies.Clipboard.Copy(rendered); copyError != nil {
			return copyError
		}
	}
	return nil
}

// writeChunks writes every chunk as a standalone dump next to the outfile.
func writeChunks(dependencies Dependencies, flags *dumpFlags, result types.Dump, logger *zap.Logger) error {
	if flags.clipboard {
		logger.Warn("clipboard copy skipped for split output")
	}
	chunks := result.Chunks
	if len(chunks) == 0 {
		chunks = []types.Chunk{{Index: 1}}
	}
	outputDirectory := filepath.Dir(flags.outfile)
	generatedAt := dependencies.Now()
	for _, chunk := range chunks {
		rendered, renderError := output.Render(flags.format, output.ChunkDump(result, chunk), generatedAt)
		if renderError != nil {
			return renderError
		}
		chunkPath, nameError := output.ChunkFileName(outputDirectory, result.RepositoryName, chunk.Index, flags.format)
		if nameError != nil {
			return nameError
		}
		if writeError := writeOutputFile(chunkPath, rendered); writeError != nil {
			return writeError
		}
		if flags.stdout {
			if _, printError := fmt.Fprintf(dependencies.Stdout, writtenChunkFormat, chunkPath); printError != nil {
				return printError
			}
		}
	}
	return nil
}

func writeOutputFile(path string, content string) error {
	if makeError := os.MkdirAll(filepath.Dir(path), outputDirectoryMode); makeError != nil {
		return fmt.Errorf("create output directory for %s: %w", path, makeError)
	}
	if writeError := os.WriteFile(path, []byte(content), outputFileMode); writeError != nil {
		return fmt.Errorf("write %s: %w", path, writeError)
	}
	return nil
}
