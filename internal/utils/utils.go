// Package utils contains general helper functions used across repodump.
package utils

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// File and directory names used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the project-local configuration file.
	ConfigFileName = ".repodump.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".repodump"
	// GlobalConfigFileName is the global configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the slash-separated relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)
	if absolutePath, absError := filepath.Abs(cleanPath); absError == nil {
		cleanPath = absolutePath
	}

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// DirectoryDisplayName returns the name shown for a local directory in dump headers.
func DirectoryDisplayName(directoryPath string) string {
	absolutePath, err := filepath.Abs(directoryPath)
	if err != nil {
		absolutePath = filepath.Clean(directoryPath)
	}
	name := filepath.Base(absolutePath)
	if name == "." || name == string(filepath.Separator) {
		return "repository"
	}
	return name
}

// RepositoryNameFromURL derives a display name from a remote repository URL,
// so "https://github.com/owner/project.git" becomes "project".
func RepositoryNameFromURL(remoteURL string) string {
	trimmed := strings.TrimSpace(remoteURL)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Path != "" {
		trimmed = parsed.Path
	} else if index := strings.LastIndex(trimmed, ":"); index >= 0 {
		trimmed = trimmed[index+1:]
	}
	name := path.Base(strings.TrimRight(trimmed, "/"))
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return "repository"
	}
	return name
}
