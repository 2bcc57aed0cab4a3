// Package config loads configuration files and .gitignore rule sets.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/repodump/internal/pattern"
	"github.com/temirov/repodump/internal/utils"
)

// LoadIgnoreFileRules reads one .gitignore file and returns its rules scoped
// to base, the slash-separated directory holding the file. A missing file
// yields no rules.
//
// #nosec G304
func LoadIgnoreFileRules(ignoreFilePath string, base string) ([]pattern.Rule, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var rules []pattern.Rule
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		if rule, ok := pattern.ParseIgnoreLine(scanner.Text(), base); ok {
			rules = append(rules, rule)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return rules, nil
}

// LoadRecursiveIgnoreRules walks rootDirectoryPath and gathers the rules of
// every .gitignore file. A directory's rules follow those of its ancestors so
// deeper files take precedence. Directories already excluded by the rules
// gathered so far, or by pruningRules, are not entered. Only the ignore-file
// rules are returned.
func LoadRecursiveIgnoreRules(rootDirectoryPath string, pruningRules ...pattern.Rule) ([]pattern.Rule, error) {
	var aggregatedRules []pattern.Rule
	var matcher *pattern.Matcher

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if currentDirectoryPath == rootDirectoryPath {
				return walkError
			}
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}

		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
		base := ""
		if relativeDirectory != "." {
			base = filepath.ToSlash(relativeDirectory)
			if matcher == nil {
				compiled, compileError := pattern.Compile(append(append([]pattern.Rule{}, aggregatedRules...), pruningRules...))
				if compileError != nil {
					return compileError
				}
				matcher = compiled
			}
			if !matcher.Includes(base, true) {
				return filepath.SkipDir
			}
		}

		gitIgnoreFilePath := filepath.Join(currentDirectoryPath, utils.GitIgnoreFileName)
		rules, loadError := LoadIgnoreFileRules(gitIgnoreFilePath, base)
		if loadError != nil {
			return fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, currentDirectoryPath, loadError)
		}
		if len(rules) > 0 {
			aggregatedRules = append(aggregatedRules, rules...)
			matcher = nil
		}
		return nil
	}

	if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
		return nil, walkError
	}
	return aggregatedRules, nil
}
