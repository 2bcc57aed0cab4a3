package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/repodump/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .repodump.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes ~/.repodump/config.yaml.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# repodump configuration. Command-line flags override these values.
# Glob patterns; gitignore syntax.
include: []
exclude: []
# Per-file ceiling; plain bytes or a unit such as 512kb or 1mb.
max_size: 1mb
# Total token cap; 0 disables it.
max_tokens: 0
# Tokens per chunk when writing split output; 0 disables splitting.
split: 0
strip_comments: false
respect_gitignore: true
# Non-printable ratio check for files without a known text extension.
binary_strict: true
# text, json, xml or html.
format: text
# tiktoken, huggingface or heuristic.
tokenizer: tiktoken
model: gpt-4o
tokenizer_file: ""
clipboard: false
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", err)
			}
			homeDirectory = resolvedHome
		}
		destinationPath = GlobalConfigurationPath(homeDirectory)
		configurationDirectory := filepath.Dir(destinationPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}
	return destinationPath, nil
}
