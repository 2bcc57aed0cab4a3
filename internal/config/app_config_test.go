package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/repodump/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func equalBool(left, right *bool) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}

func equalInt(left, right *int) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name               string
		globalContent      string
		localContent       string
		explicitPath       string
		expectFormat       string
		expectExclude      []string
		expectStrip        *bool
		expectBinaryStrict *bool
		expectMaxTokens    *int
		expectModel        string
	}{
		{
			name:               "local_overrides_global",
			globalContent:      "format: json\nstrip_comments: true\nbinary_strict: true\nexclude: [\"*.log\"]\nmodel: gpt-4\n",
			localContent:       "format: html\nstrip_comments: false\nmax_tokens: 500\n",
			expectFormat:       "html",
			expectExclude:      []string{"*.log"},
			expectStrip:        boolPointer(false),
			expectBinaryStrict: boolPointer(true),
			expectMaxTokens:    intPointer(500),
			expectModel:        "gpt-4",
		},
		{
			name:          "explicit_path_replaces_local",
			globalContent: "format: json\n",
			localContent:  "format: xml\n",
			explicitPath:  "custom.yaml",
			expectFormat:  "text",
		},
		{
			name:          "local_exclude_replaces_and_deduplicates",
			globalContent: "exclude: [\"dist/\"]\n",
			localContent:  "exclude: [\"node_modules/\", \"node_modules/\"]\n",
			expectFormat:  "",
			expectExclude: []string{"node_modules/"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				globalPath := GlobalConfigurationPath(homeDirectory)
				if err := os.MkdirAll(filepath.Dir(globalPath), 0o755); err != nil {
					t.Fatalf("mkdir global: %v", err)
				}
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDirectory, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				explicit := filepath.Join(workingDirectory, testCase.explicitPath)
				if err := os.WriteFile(explicit, []byte("format: text\n"), 0o600); err != nil {
					t.Fatalf("write explicit: %v", err)
				}
			}

			configuration, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    homeDirectory,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if configuration.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, configuration.Format)
			}
			if len(configuration.Exclude) != len(testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, configuration.Exclude)
			}
			for index := range testCase.expectExclude {
				if configuration.Exclude[index] != testCase.expectExclude[index] {
					t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, configuration.Exclude)
				}
			}
			if !equalBool(configuration.StripComments, testCase.expectStrip) {
				t.Fatalf("unexpected strip_comments %v", configuration.StripComments)
			}
			if !equalBool(configuration.BinaryStrict, testCase.expectBinaryStrict) {
				t.Fatalf("unexpected binary_strict %v", configuration.BinaryStrict)
			}
			if !equalInt(configuration.MaxTokens, testCase.expectMaxTokens) {
				t.Fatalf("unexpected max_tokens %v", configuration.MaxTokens)
			}
			if configuration.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, configuration.Model)
			}
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "absent.yaml",
		HomeDirectory:    t.TempDir(),
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration file")
	}
}

func TestApplicationConfigurationMaxSizeBytes(t *testing.T) {
	testCases := []struct {
		name      string
		value     string
		expected  int64
		expectSet bool
		expectErr bool
	}{
		{name: "unset", value: ""},
		{name: "plain_bytes", value: "2048", expected: 2048, expectSet: true},
		{name: "units", value: "1mb", expected: 1048576, expectSet: true},
		{name: "invalid", value: "lots", expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			size, set, err := ApplicationConfiguration{MaxSize: testCase.value}.MaxSizeBytes()
			if (err != nil) != testCase.expectErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if size != testCase.expected || set != testCase.expectSet {
				t.Fatalf("expected %d/%v, got %d/%v", testCase.expected, testCase.expectSet, size, set)
			}
		})
	}
}

func TestLoadApplicationConfigurationNumericMaxSize(t *testing.T) {
	workingDirectory := t.TempDir()
	if err := os.WriteFile(filepath.Join(workingDirectory, utils.ConfigFileName), []byte("max_size: 4096\nworkers: 2\n"), 0o600); err != nil {
		t.Fatalf("write local: %v", err)
	}
	configuration, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	size, set, sizeErr := configuration.MaxSizeBytes()
	if sizeErr != nil || !set || size != 4096 {
		t.Fatalf("expected 4096 bytes, got %d (%v, %v)", size, set, sizeErr)
	}
	if !equalInt(configuration.Workers, intPointer(2)) {
		t.Fatalf("expected workers 2, got %v", configuration.Workers)
	}
}
