package pattern

import (
	"regexp"
	"strings"
)

const (
	anySegmentExpression      = "[^/]*"
	singleCharacterExpression = "[^/]"
	anyDirectoriesExpression  = "(?:.*/)?"
	anythingExpression        = ".*"
)

// compileGlob translates a gitignore-style glob into an anchored regular expression.
//
// A single star and a question mark never cross a path separator. A double
// star between separators, or at either end of the pattern, spans any number
// of directories.
func compileGlob(glob string) (*regexp.Regexp, error) {
	if glob == "" {
		return nil, ErrEmptyPattern
	}
	expression, err := translateGlob(glob)
	if err != nil {
		return nil, err
	}
	return regexp.Compile("^" + expression + "$")
}

func translateGlob(glob string) (string, error) {
	runes := []rune(glob)
	var builder strings.Builder
	for index := 0; index < len(runes); index++ {
		current := runes[index]
		switch current {
		case '*':
			starStart := index
			for index+1 < len(runes) && runes[index+1] == '*' {
				index++
			}
			doubleStar := index > starStart
			afterIndex := index + 1
			atSegmentStart := starStart == 0 || runes[starStart-1] == '/'
			switch {
			case doubleStar && atSegmentStart && afterIndex < len(runes) && runes[afterIndex] == '/':
				builder.WriteString(anyDirectoriesExpression)
				index = afterIndex
			case doubleStar && atSegmentStart && afterIndex == len(runes):
				builder.WriteString(anythingExpression)
			default:
				builder.WriteString(anySegmentExpression)
			}
		case '?':
			builder.WriteString(singleCharacterExpression)
		case '[':
			classExpression, consumed, err := translateClass(runes[index:])
			if err != nil {
				return "", err
			}
			builder.WriteString(classExpression)
			index += consumed - 1
		case '\\':
			if index+1 >= len(runes) {
				return "", ErrTrailingEscape
			}
			index++
			builder.WriteString(regexp.QuoteMeta(string(runes[index])))
		default:
			builder.WriteString(regexp.QuoteMeta(string(current)))
		}
	}
	return builder.String(), nil
}

// translateClass converts a bracket expression starting at runes[0]. It
// returns the expression and the number of runes consumed.
func translateClass(runes []rune) (string, int, error) {
	index := 1
	negated := false
	if index < len(runes) && (runes[index] == '!' || runes[index] == '^') {
		negated = true
		index++
	}
	var body strings.Builder
	first := true
	for index < len(runes) {
		current := runes[index]
		if current == ']' && !first {
			expression := "[" + body.String() + "]"
			if negated {
				expression = "[^/" + body.String() + "]"
			}
			return expression, index + 1, nil
		}
		first = false
		switch current {
		case '\\':
			if index+1 >= len(runes) {
				return "", 0, ErrUnterminatedClass
			}
			index++
			body.WriteString(escapeClassRune(runes[index]))
		case '-':
			body.WriteRune('-')
		default:
			body.WriteString(escapeClassRune(current))
		}
		index++
	}
	return "", 0, ErrUnterminatedClass
}

func escapeClassRune(value rune) string {
	switch value {
	case '\\', ']', '[', '^':
		return "\\" + string(value)
	default:
		return string(value)
	}
}
