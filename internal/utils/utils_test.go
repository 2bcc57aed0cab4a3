package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/repodump/internal/utils"
)

// textFileName defines the name of the text file used in tests.
const textFileName = "sample.txt"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	nestedDirectory := filepath.Join(temporaryRoot, "nested")
	if creationError := os.MkdirAll(nestedDirectory, 0o755); creationError != nil {
		testingInstance.Fatalf("failed to create directory: %v", creationError)
	}
	subPath := filepath.Join(nestedDirectory, textFileName)
	if creationError := os.WriteFile(subPath, []byte("content"), 0o600); creationError != nil {
		testingInstance.Fatalf("failed to create file: %v", creationError)
	}
	testCases := []struct {
		testName string
		fullPath string
		root     string
		expected string
	}{
		{
			testName: "root path returns dot",
			fullPath: temporaryRoot,
			root:     temporaryRoot,
			expected: ".",
		},
		{
			testName: "nested path is slash separated",
			fullPath: subPath,
			root:     temporaryRoot,
			expected: "nested/" + textFileName,
		},
	}
	for index, testCase := range testCases {
		actual := utils.RelativePathOrSelf(testCase.fullPath, testCase.root)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestRepositoryNameFromURL verifies display names derived from remote URLs.
func TestRepositoryNameFromURL(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		url      string
		expected string
	}{
		{testName: "https with suffix", url: "https://github.com/owner/project.git", expected: "project"},
		{testName: "https trailing slash", url: "https://github.com/owner/project/", expected: "project"},
		{testName: "scp form", url: "git@github.com:owner/tool.git", expected: "tool"},
		{testName: "empty", url: "", expected: "repository"},
	}
	for index, testCase := range testCases {
		actual := utils.RepositoryNameFromURL(testCase.url)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestDirectoryDisplayName verifies the base name of a local directory is used.
func TestDirectoryDisplayName(testingInstance *testing.T) {
	directory := filepath.Join(testingInstance.TempDir(), "my-project")
	if actual := utils.DirectoryDisplayName(directory); actual != "my-project" {
		testingInstance.Fatalf("expected my-project, got %s", actual)
	}
}
