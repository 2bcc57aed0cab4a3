package dump_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/repodump/internal/dump"
	"github.com/temirov/repodump/internal/pattern"
	"github.com/temirov/repodump/internal/tokenizer"
	"github.com/temirov/repodump/internal/types"
)

func writeFile(testingInstance *testing.T, root string, relativePath string, content string) {
	testingInstance.Helper()
	absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
	if makeError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeError != nil {
		testingInstance.Fatalf("mkdir: %v", makeError)
	}
	if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
		testingInstance.Fatalf("write %s: %v", relativePath, writeError)
	}
}

func defaultOptions(root string) dump.Options {
	return dump.Options{
		RootDirectory:    root,
		MaxSizeBytes:     dump.DefaultMaxSizeBytes,
		RespectGitignore: true,
		BinaryStrict:     true,
	}
}

// TestBuildAppliesTokenCap verifies that files past the cap are reported as over budget.
func TestBuildAppliesTokenCap(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	fortyTokens := strings.Repeat("abcd", 40)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(testingInstance, root, name, fortyTokens)
	}
	options := defaultOptions(root)
	options.MaxTokens = 100

	result, buildError := dump.Build(context.Background(), options, tokenizer.HeuristicCounter{}, nil)
	if buildError != nil {
		testingInstance.Fatalf("build: %v", buildError)
	}
	if len(result.Files) != 2 || result.TotalTokens != 80 {
		testingInstance.Fatalf("expected 2 files and 80 tokens, got %d files and %d tokens", len(result.Files), result.TotalTokens)
	}
	if !result.BudgetExceeded || result.OmittedCount(types.OmittedOverBudget) != 1 {
		testingInstance.Fatalf("expected one over-budget omission, got %+v", result.Omitted)
	}
	if result.Estimator != tokenizer.KindHeuristic {
		testingInstance.Fatalf("expected heuristic estimator, got %s", result.Estimator)
	}
	if result.RepositoryName != filepath.Base(root) {
		testingInstance.Fatalf("expected repository name %s, got %s", filepath.Base(root), result.RepositoryName)
	}
}

// TestBuildSplitsIntoChunks verifies chunk packing in traversal order.
func TestBuildSplitsIntoChunks(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, root, "a.txt", strings.Repeat("x", 200))
	writeFile(testingInstance, root, "b.txt", strings.Repeat("x", 200))
	writeFile(testingInstance, root, "c.txt", strings.Repeat("x", 800))
	options := defaultOptions(root)
	options.SplitTokens = 100
	options.SplitRequested = true

	result, buildError := dump.Build(context.Background(), options, nil, nil)
	if buildError != nil {
		testingInstance.Fatalf("build: %v", buildError)
	}
	if len(result.Chunks) != 2 {
		testingInstance.Fatalf("expected 2 chunks, got %d", len(result.Chunks))
	}
	if len(result.Chunks[0].Files) != 2 || result.Chunks[0].Tokens != 100 {
		testingInstance.Fatalf("unexpected first chunk %+v", result.Chunks[0])
	}
	if result.Chunks[1].Index != 2 || len(result.Chunks[1].Files) != 1 || result.Chunks[1].Tokens != 200 {
		testingInstance.Fatalf("expected oversized file alone in chunk 2, got %+v", result.Chunks[1])
	}
}

// TestBuildConfigurationErrors verifies that invalid options fail before traversal.
func TestBuildConfigurationErrors(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	testCases := []struct {
		testName string
		mutate   func(options *dump.Options)
		expected error
	}{
		{
			testName: "zero max size",
			mutate:   func(options *dump.Options) { options.MaxSizeBytes = 0 },
			expected: dump.ErrInvalidMaxSize,
		},
		{
			testName: "negative max tokens",
			mutate:   func(options *dump.Options) { options.MaxTokens = -1 },
			expected: dump.ErrInvalidMaxTokens,
		},
		{
			testName: "zero split",
			mutate: func(options *dump.Options) {
				options.SplitRequested = true
				options.SplitTokens = 0
			},
			expected: dump.ErrInvalidSplit,
		},
		{
			testName: "negative split",
			mutate:   func(options *dump.Options) { options.SplitTokens = -5 },
			expected: dump.ErrInvalidSplit,
		},
	}
	for index, testCase := range testCases {
		options := defaultOptions(root)
		testCase.mutate(&options)
		_, buildError := dump.Build(context.Background(), options, nil, nil)
		if !errors.Is(buildError, testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, buildError)
		}
	}
}

// TestBuildRejectsMalformedPattern verifies that a broken glob aborts the run.
func TestBuildRejectsMalformedPattern(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, root, "a.txt", "a")
	options := defaultOptions(root)
	options.Include = []string{"*.txt,[oops"}

	_, buildError := dump.Build(context.Background(), options, nil, nil)
	var filterError *pattern.FilterError
	if !errors.As(buildError, &filterError) {
		testingInstance.Fatalf("expected FilterError, got %v", buildError)
	}
}

// TestBuildRespectGitignoreDisabled verifies ignore files can be bypassed while .git stays excluded.
func TestBuildRespectGitignoreDisabled(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, root, ".gitignore", "secret.txt\n")
	writeFile(testingInstance, root, "secret.txt", "visible\n")
	writeFile(testingInstance, root, ".git/config", "[core]\n")
	options := defaultOptions(root)
	options.RespectGitignore = false

	result, buildError := dump.Build(context.Background(), options, nil, nil)
	if buildError != nil {
		testingInstance.Fatalf("build: %v", buildError)
	}
	var paths []string
	for _, file := range result.Files {
		paths = append(paths, file.Path)
	}
	if strings.Join(paths, ",") != ".gitignore,secret.txt" {
		testingInstance.Fatalf("unexpected files %v", paths)
	}
}

// TestBuildSkipsIgnoreFilesUnderExcludedDirectories verifies excluded directories are not searched for ignore files.
func TestBuildSkipsIgnoreFilesUnderExcludedDirectories(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, root, "node_modules/pkg/.gitignore", "[oops\n")
	writeFile(testingInstance, root, "node_modules/pkg/index.js", "module.exports = 1;\n")
	writeFile(testingInstance, root, "main.go", "package main\n")
	options := defaultOptions(root)
	options.Exclude = []string{"node_modules/"}

	result, buildError := dump.Build(context.Background(), options, nil, nil)
	if buildError != nil {
		testingInstance.Fatalf("build: %v", buildError)
	}
	if len(result.Files) != 1 || result.Files[0].Path != "main.go" {
		testingInstance.Fatalf("expected only main.go, got %+v", result.Files)
	}
}
