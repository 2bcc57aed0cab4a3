// Package comments removes comments from source text while leaving string
// literals untouched.
package comments

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var embeddedProfiles []byte

// StringDelimiter describes one string literal form.
type StringDelimiter struct {
	Open   string `yaml:"open"`
	Close  string `yaml:"close"`
	Escape string `yaml:"escape"`
	// Multiline strings continue past a newline; others end at it.
	Multiline bool `yaml:"multiline"`
}

// BlockComment describes one block comment form.
type BlockComment struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Nested bool   `yaml:"nested"`
}

// Profile is the comment syntax of one language family.
type Profile struct {
	Name          string            `yaml:"name"`
	Extensions    []string          `yaml:"extensions"`
	FileNames     []string          `yaml:"filenames"`
	LineComments  []string          `yaml:"line_comments"`
	BlockComments []BlockComment    `yaml:"block_comments"`
	Strings       []StringDelimiter `yaml:"strings"`
	// Literals are copied as code before any other marker is tried, such
	// as a character literal holding a quote.
	Literals []string `yaml:"literals"`

	tokens []token
}

type tokenKind int

const (
	tokenString tokenKind = iota
	tokenLiteral
	tokenBlockComment
	tokenLineComment
)

type token struct {
	text  string
	kind  tokenKind
	index int
}

// prepare orders every opening marker longest first.
func (profile *Profile) prepare() error {
	profile.tokens = profile.tokens[:0]
	for index, delimiter := range profile.Strings {
		if delimiter.Open == "" || delimiter.Close == "" {
			return fmt.Errorf("profile %s: string delimiter %d is incomplete", profile.Name, index)
		}
		profile.tokens = append(profile.tokens, token{text: delimiter.Open, kind: tokenString, index: index})
	}
	for index, literal := range profile.Literals {
		if literal == "" {
			return fmt.Errorf("profile %s: literal %d is empty", profile.Name, index)
		}
		profile.tokens = append(profile.tokens, token{text: literal, kind: tokenLiteral, index: index})
	}
	for index, block := range profile.BlockComments {
		if block.Start == "" || block.End == "" {
			return fmt.Errorf("profile %s: block comment %d is incomplete", profile.Name, index)
		}
		profile.tokens = append(profile.tokens, token{text: block.Start, kind: tokenBlockComment, index: index})
	}
	for index, marker := range profile.LineComments {
		if marker == "" {
			return fmt.Errorf("profile %s: line comment %d is empty", profile.Name, index)
		}
		profile.tokens = append(profile.tokens, token{text: marker, kind: tokenLineComment, index: index})
	}
	sort.SliceStable(profile.tokens, func(left, right int) bool {
		return len(profile.tokens[left].text) > len(profile.tokens[right].text)
	})
	return nil
}

// Registry maps file extensions and names to profiles.
type Registry struct {
	byExtension map[string]*Profile
	byFileName  map[string]*Profile
}

type profileTable struct {
	Profiles []*Profile `yaml:"profiles"`
}

// ParseRegistry builds a Registry from a YAML profile table.
func ParseRegistry(data []byte) (*Registry, error) {
	var table profileTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse comment profiles: %w", err)
	}
	registry := &Registry{byExtension: map[string]*Profile{}, byFileName: map[string]*Profile{}}
	for _, profile := range table.Profiles {
		if err := profile.prepare(); err != nil {
			return nil, err
		}
		for _, extension := range profile.Extensions {
			registry.byExtension[strings.ToLower(extension)] = profile
		}
		for _, name := range profile.FileNames {
			registry.byFileName[name] = profile
		}
	}
	return registry, nil
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the built-in profile table, parsed on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		registry, err := ParseRegistry(embeddedProfiles)
		if err != nil {
			panic(err)
		}
		defaultRegistry = registry
	})
	return defaultRegistry
}

// ForPath returns the profile for a file, or nil when its language is unknown.
func (registry *Registry) ForPath(path string) *Profile {
	base := filepath.Base(path)
	if profile, ok := registry.byFileName[base]; ok {
		return profile
	}
	return registry.byExtension[strings.ToLower(filepath.Ext(base))]
}

// StripPath strips comments using the profile registered for path.
func (registry *Registry) StripPath(path string, content string) string {
	return Strip(content, registry.ForPath(path))
}
