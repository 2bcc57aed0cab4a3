// Package walker traverses a directory tree and produces the ordered file
// contents that survive pattern, size and binary filtering.
package walker

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/repodump/internal/classify"
	"github.com/temirov/repodump/internal/comments"
	"github.com/temirov/repodump/internal/pattern"
	"github.com/temirov/repodump/internal/types"
)

// Options control per-file gates and the processing stage.
type Options struct {
	// MaxSizeBytes skips larger files; zero or less disables the limit.
	MaxSizeBytes  int64
	StripComments bool
	// Workers bounds concurrent file processing; zero or less uses the CPU count.
	Workers int
}

// Result holds surviving files in traversal order and every omission.
type Result struct {
	Files   []types.FileOutput
	Omitted []types.Omission
}

// ReadError reports a file that could not be read. It is recorded as an
// omission and never aborts a walk.
type ReadError struct {
	Path string
	Err  error
}

func (readError *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", readError.Path, readError.Err)
}

func (readError *ReadError) Unwrap() error {
	return readError.Err
}

// Walker walks one root directory.
type Walker struct {
	rootDirectory string
	matcher       *pattern.Matcher
	classifier    *classify.Classifier
	profiles      *comments.Registry
	options       Options
	logger        *zap.Logger
}

// New returns a Walker. A nil profiles registry uses the built-in table and a
// nil logger discards output.
func New(rootDirectory string, matcher *pattern.Matcher, classifier *classify.Classifier, profiles *comments.Registry, options Options, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if profiles == nil {
		profiles = comments.DefaultRegistry()
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	return &Walker{
		rootDirectory: rootDirectory,
		matcher:       matcher,
		classifier:    classifier,
		profiles:      profiles,
		options:       options,
		logger:        logger,
	}
}

// Walk traverses the tree and processes every candidate file. Files are
// ordered lexicographically by relative path. When ctx is cancelled the
// files completed so far are returned together with the context error.
func (walker *Walker) Walk(ctx context.Context) (Result, error) {
	entries, omitted, traverseError := walker.collect(ctx)
	if traverseError != nil {
		return Result{Omitted: omitted}, traverseError
	}
	sort.Slice(entries, func(left, right int) bool {
		return entries[left].Path < entries[right].Path
	})

	files, processed, processError := walker.processAll(ctx, entries)
	omitted = append(omitted, processed...)
	sort.SliceStable(omitted, func(left, right int) bool {
		return omitted[left].Path < omitted[right].Path
	})
	return Result{Files: files, Omitted: omitted}, processError
}

func (walker *Walker) omit(path string, reason types.OmissionReason, detail string) types.Omission {
	walker.logger.Debug("omitted",
		zap.String("path", path),
		zap.String("reason", string(reason)),
		zap.String("detail", detail),
	)
	return types.Omission{Path: path, Reason: reason, Detail: detail}
}
