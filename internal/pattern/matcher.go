package pattern

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const gitDirectoryName = ".git"

// Decision is the verdict for one path. Decisions chain from parent to
// child: a terminal exclusion on a directory covers everything beneath it.
type Decision struct {
	Included bool
	// Terminal is set on excluded directories whose contents cannot be
	// re-included by any later rule.
	Terminal bool
	// Reason describes the rule that excluded the path.
	Reason string

	includedByAncestor bool
}

// RootDecision is the decision for the traversal root.
func RootDecision() Decision {
	return Decision{Included: true}
}

type compiledRule struct {
	Rule
	expression *regexp.Regexp
}

// Matcher evaluates paths against compiled rules. It is immutable after
// Compile and safe for concurrent use.
type Matcher struct {
	includeRules    []compiledRule
	excludeRules    []compiledRule
	fileRules       []compiledRule
	literalIncludes []compiledRule
}

// Compile validates every rule and builds a Matcher. Rules from ignore files
// keep their relative order, so the last matching one wins. A malformed rule
// yields a *FilterError.
func Compile(rules []Rule) (*Matcher, error) {
	matcher := &Matcher{}
	if !namesGitDirectory(rules) {
		gitRule := Rule{Pattern: gitDirectoryName, DirectoryOnly: true, Anchored: true, Source: SourceDefault}
		compiled, err := compileRule(gitRule)
		if err != nil {
			return nil, err
		}
		matcher.fileRules = append(matcher.fileRules, compiled)
	}
	for _, rule := range rules {
		compiled, err := compileRule(rule)
		if err != nil {
			return nil, err
		}
		switch rule.Source {
		case SourceInclude:
			matcher.includeRules = append(matcher.includeRules, compiled)
			if rule.isLiteral() {
				matcher.literalIncludes = append(matcher.literalIncludes, compiled)
			}
		case SourceExclude:
			matcher.excludeRules = append(matcher.excludeRules, compiled)
		default:
			matcher.fileRules = append(matcher.fileRules, compiled)
		}
	}
	return matcher, nil
}

// MustCompile is like Compile but panics on error. It is intended for tests
// and fixed rule sets.
func MustCompile(rules []Rule) *Matcher {
	matcher, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return matcher
}

// Decide folds the decision over every ancestor of relativePath so callers
// that test a single path get the same answer as a traversal would.
func (matcher *Matcher) Decide(relativePath string, isDirectory bool) Decision {
	normalized := strings.Trim(relativePath, pathSeparator)
	segments := strings.Split(normalized, pathSeparator)
	decision := RootDecision()
	for index := 1; index < len(segments); index++ {
		decision = matcher.DecideChild(decision, strings.Join(segments[:index], pathSeparator), true)
		if decision.Terminal {
			return decision
		}
	}
	return matcher.DecideChild(decision, normalized, isDirectory)
}

// Includes reports whether relativePath survives filtering.
func (matcher *Matcher) Includes(relativePath string, isDirectory bool) bool {
	return matcher.Decide(relativePath, isDirectory).Included
}

// DecideChild evaluates relativePath given the decision already made for
// its parent directory.
//
// Include rules never filter directories. A directory matching an include
// rule makes its whole subtree a candidate. A literal include rule overrides
// ignore-file exclusion of the same path. Exclude rules always win.
func (matcher *Matcher) DecideChild(parent Decision, relativePath string, isDirectory bool) Decision {
	if parent.Terminal {
		return Decision{Terminal: true, Reason: parent.Reason}
	}
	includeHit := parent.includedByAncestor || matchesAny(matcher.includeRules, relativePath, isDirectory)

	if rule, ok := firstMatch(matcher.excludeRules, relativePath, isDirectory); ok {
		return excludedDecision(rule, isDirectory)
	}
	if rule, ignored := lastIgnoreMatch(matcher.fileRules, relativePath, isDirectory); ignored {
		if !matchesAny(matcher.literalIncludes, relativePath, isDirectory) {
			return excludedDecision(rule, isDirectory)
		}
	}
	if isDirectory {
		return Decision{Included: true, includedByAncestor: includeHit}
	}
	if len(matcher.includeRules) > 0 && !includeHit {
		return Decision{Reason: "no include pattern matched"}
	}
	return Decision{Included: true}
}

func excludedDecision(rule compiledRule, isDirectory bool) Decision {
	return Decision{
		Terminal: isDirectory,
		Reason:   fmt.Sprintf("%s rule %q", rule.Source, rule.display()),
	}
}

func (rule compiledRule) display() string {
	text := rule.Pattern
	if rule.Anchored && !strings.Contains(text, pathSeparator) {
		text = pathSeparator + text
	}
	if rule.DirectoryOnly {
		text += pathSeparator
	}
	if rule.Negated {
		text = negationPrefix + text
	}
	if rule.Base != "" {
		text = rule.Base + ":" + text
	}
	return text
}

func compileRule(rule Rule) (compiledRule, error) {
	expression, err := compileGlob(rule.Pattern)
	if err != nil {
		return compiledRule{}, &FilterError{Pattern: rule.Pattern, Source: rule.Source, Err: err}
	}
	return compiledRule{Rule: rule, expression: expression}, nil
}

func (rule compiledRule) matches(relativePath string, isDirectory bool) bool {
	if rule.DirectoryOnly && !isDirectory {
		return false
	}
	candidate := relativePath
	if rule.Base != "" {
		prefix := rule.Base + pathSeparator
		if !strings.HasPrefix(relativePath, prefix) {
			return false
		}
		candidate = relativePath[len(prefix):]
	}
	if !rule.Anchored {
		candidate = path.Base(candidate)
	}
	return rule.expression.MatchString(candidate)
}

func matchesAny(rules []compiledRule, relativePath string, isDirectory bool) bool {
	_, ok := firstMatch(rules, relativePath, isDirectory)
	return ok
}

func firstMatch(rules []compiledRule, relativePath string, isDirectory bool) (compiledRule, bool) {
	for _, rule := range rules {
		if rule.matches(relativePath, isDirectory) {
			return rule, true
		}
	}
	return compiledRule{}, false
}

// lastIgnoreMatch applies ignore-file rules in order; the last matching rule
// decides, and a negated rule re-includes.
func lastIgnoreMatch(rules []compiledRule, relativePath string, isDirectory bool) (compiledRule, bool) {
	var decisive compiledRule
	ignored := false
	for _, rule := range rules {
		if rule.matches(relativePath, isDirectory) {
			decisive = rule
			ignored = !rule.Negated
		}
	}
	return decisive, ignored
}

// namesGitDirectory reports whether an include rule explicitly targets .git.
func namesGitDirectory(rules []Rule) bool {
	for _, rule := range rules {
		if rule.Source != SourceInclude {
			continue
		}
		if rule.Pattern == gitDirectoryName || strings.HasPrefix(rule.Pattern, gitDirectoryName+pathSeparator) {
			return true
		}
	}
	return false
}
