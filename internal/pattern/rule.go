// Package pattern compiles include, exclude and ignore-file rules into a
// path decision function with gitignore semantics.
package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Source identifies where a rule came from.
type Source int

const (
	// SourceIgnoreFile marks rules read from a .gitignore file.
	SourceIgnoreFile Source = iota
	// SourceInclude marks command-line include patterns.
	SourceInclude
	// SourceExclude marks command-line exclude patterns.
	SourceExclude
	// SourceDefault marks rules the matcher adds on its own, such as the .git directory rule.
	SourceDefault
)

const (
	negationPrefix    = "!"
	commentPrefix     = "#"
	pathSeparator     = "/"
	currentDirPrefix  = "./"
	patternListSplit  = ","
	globMetaCharacter = "*?[\\"
)

var (
	// ErrUnterminatedClass reports a character class without a closing bracket.
	ErrUnterminatedClass = errors.New("unterminated character class")
	// ErrTrailingEscape reports a pattern that ends in a lone backslash.
	ErrTrailingEscape = errors.New("trailing escape character")
	// ErrEmptyPattern reports a pattern that is empty after normalization.
	ErrEmptyPattern = errors.New("empty pattern")
)

// String returns the human-readable name of the source.
func (source Source) String() string {
	switch source {
	case SourceIgnoreFile:
		return "ignore-file"
	case SourceInclude:
		return "include"
	case SourceExclude:
		return "exclude"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Rule is one pattern line.
type Rule struct {
	Pattern       string
	Negated       bool
	DirectoryOnly bool
	Anchored      bool
	Source        Source
	// Base is the slash-separated directory the rule is scoped to. Rules from a
	// nested .gitignore only apply beneath that directory; empty means the root.
	Base string
}

// FilterError reports a malformed pattern. It aborts the run.
type FilterError struct {
	Pattern string
	Source  Source
	Err     error
}

func (filterError *FilterError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", filterError.Source, filterError.Pattern, filterError.Err)
}

func (filterError *FilterError) Unwrap() error {
	return filterError.Err
}

// ParseIgnoreLine converts one .gitignore line into a Rule scoped to base.
// The boolean result is false for blank lines and comments.
func ParseIgnoreLine(line string, base string) (Rule, bool) {
	text := trimTrailingSpace(strings.TrimRight(line, "\r"))
	if text == "" || strings.HasPrefix(text, commentPrefix) {
		return Rule{}, false
	}
	rule := Rule{Source: SourceIgnoreFile, Base: strings.Trim(base, pathSeparator)}
	if strings.HasPrefix(text, negationPrefix) {
		rule.Negated = true
		text = text[len(negationPrefix):]
	} else if strings.HasPrefix(text, `\!`) || strings.HasPrefix(text, `\#`) {
		text = text[1:]
	}
	if !applyShape(&rule, text) {
		return Rule{}, false
	}
	return rule, true
}

// ParseCommandLinePattern converts one include or exclude value into a Rule.
// Command-line patterns are never negated or treated as comments.
func ParseCommandLinePattern(value string, source Source) (Rule, bool) {
	text := strings.TrimSpace(strings.ReplaceAll(value, "\\", pathSeparator))
	for strings.HasPrefix(text, currentDirPrefix) {
		text = text[len(currentDirPrefix):]
	}
	if text == "" {
		return Rule{}, false
	}
	rule := Rule{Source: source}
	if !applyShape(&rule, text) {
		return Rule{}, false
	}
	return rule, true
}

// SplitPatternList expands comma-separated values into independent patterns.
func SplitPatternList(values []string) []string {
	var patterns []string
	for _, value := range values {
		for _, part := range strings.Split(value, patternListSplit) {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				patterns = append(patterns, trimmed)
			}
		}
	}
	return patterns
}

// CommandLineRules parses comma-expanded values into rules of the given source.
func CommandLineRules(values []string, source Source) []Rule {
	var rules []Rule
	for _, value := range SplitPatternList(values) {
		if rule, ok := ParseCommandLinePattern(value, source); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// applyShape fills the directory-only and anchored flags from the pattern text.
func applyShape(rule *Rule, text string) bool {
	if strings.HasSuffix(text, pathSeparator) {
		rule.DirectoryOnly = true
		text = strings.TrimRight(text, pathSeparator)
	}
	if strings.HasPrefix(text, pathSeparator) {
		rule.Anchored = true
		text = strings.TrimLeft(text, pathSeparator)
	}
	if text == "" {
		return false
	}
	if strings.Contains(text, pathSeparator) {
		rule.Anchored = true
	}
	rule.Pattern = text
	return true
}

// isLiteral reports whether the rule names a path without wildcards.
func (rule Rule) isLiteral() bool {
	return !strings.ContainsAny(rule.Pattern, globMetaCharacter)
}

// trimTrailingSpace removes unescaped trailing spaces as git does.
func trimTrailingSpace(text string) string {
	for strings.HasSuffix(text, " ") && !strings.HasSuffix(text, `\ `) {
		text = text[:len(text)-1]
	}
	return text
}
