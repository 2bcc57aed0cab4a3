package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/repodump/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home used to find the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds defaults read from configuration files.
// Pointer fields distinguish "unset" from a zero value so that a local file
// can override a global one with false or 0.
type ApplicationConfiguration struct {
	Include          []string `mapstructure:"include"`
	Exclude          []string `mapstructure:"exclude"`
	MaxSize          string   `mapstructure:"max_size"`
	MaxTokens        *int     `mapstructure:"max_tokens"`
	Split            *int     `mapstructure:"split"`
	StripComments    *bool    `mapstructure:"strip_comments"`
	RespectGitignore *bool    `mapstructure:"respect_gitignore"`
	BinaryStrict     *bool    `mapstructure:"binary_strict"`
	Format           string   `mapstructure:"format"`
	Tokenizer        string   `mapstructure:"tokenizer"`
	Model            string   `mapstructure:"model"`
	TokenizerFile    string   `mapstructure:"tokenizer_file"`
	Workers          *int     `mapstructure:"workers"`
	Clipboard        *bool    `mapstructure:"clipboard"`
}

// GlobalConfigurationPath returns ~/.repodump/config.yaml for homeDirectory.
func GlobalConfigurationPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

// LoadApplicationConfiguration loads the global file and overlays the local
// (or explicitly named) file on top of it. Missing files are not errors,
// except an explicitly named one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalConfig, loadErr := loadConfigurationFromPath(GlobalConfigurationPath(homeDirectory), false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Include = utils.DeduplicatePatterns(merged.Include)
	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// MaxSizeBytes parses MaxSize. ok is false when the key is unset.
func (config ApplicationConfiguration) MaxSizeBytes() (int64, bool, error) {
	if config.MaxSize == "" {
		return 0, false, nil
	}
	size, err := utils.ParseFileSize(config.MaxSize)
	if err != nil {
		return 0, false, fmt.Errorf("max_size: %w", err)
	}
	return size, true, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if len(override.Include) > 0 {
		result.Include = append([]string{}, override.Include...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, override.Exclude...)
	}
	result.MaxSize = overrideString(result.MaxSize, override.MaxSize)
	result.MaxTokens = overrideInt(result.MaxTokens, override.MaxTokens)
	result.Split = overrideInt(result.Split, override.Split)
	result.StripComments = overrideBool(result.StripComments, override.StripComments)
	result.RespectGitignore = overrideBool(result.RespectGitignore, override.RespectGitignore)
	result.BinaryStrict = overrideBool(result.BinaryStrict, override.BinaryStrict)
	result.Format = overrideString(result.Format, override.Format)
	result.Tokenizer = overrideString(result.Tokenizer, override.Tokenizer)
	result.Model = overrideString(result.Model, override.Model)
	result.TokenizerFile = overrideString(result.TokenizerFile, override.TokenizerFile)
	result.Workers = overrideInt(result.Workers, override.Workers)
	result.Clipboard = overrideBool(result.Clipboard, override.Clipboard)
	return result
}

func overrideString(current, override string) string {
	if override != "" {
		return override
	}
	return current
}

func overrideBool(current, override *bool) *bool {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}

func overrideInt(current, override *int) *int {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}
