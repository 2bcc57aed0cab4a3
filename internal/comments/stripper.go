package comments

import (
	"bytes"
	"strings"
)

// Strip removes every comment from content according to profile. String
// literals are copied verbatim. A line that held only a comment is removed
// together with its newline; a comment after code keeps the newline. A nil
// profile returns content unchanged.
func Strip(content string, profile *Profile) string {
	if profile == nil || len(profile.tokens) == 0 {
		return content
	}
	stripper := &stripper{profile: profile, input: content, output: make([]byte, 0, len(content))}
	stripper.run()
	return string(stripper.output)
}

type stripper struct {
	profile  *Profile
	input    string
	position int
	output   []byte

	lineStart      int
	lineHasCode    bool
	lineHadComment bool
}

func (stripper *stripper) run() {
	for stripper.position < len(stripper.input) {
		matched, ok := stripper.matchToken()
		if !ok {
			stripper.emitCode(stripper.input[stripper.position])
			stripper.position++
			continue
		}
		switch matched.kind {
		case tokenString:
			stripper.scanString(stripper.profile.Strings[matched.index])
		case tokenLiteral:
			stripper.output = append(stripper.output, matched.text...)
			stripper.position += len(matched.text)
			stripper.lineHasCode = true
		case tokenBlockComment:
			stripper.skipBlockComment(stripper.profile.BlockComments[matched.index])
			stripper.separateJoinedTokens()
		case tokenLineComment:
			stripper.skipLineComment()
		}
	}
	stripper.finishLine(false)
}

func (stripper *stripper) matchToken() (token, bool) {
	remaining := stripper.input[stripper.position:]
	for _, candidate := range stripper.profile.tokens {
		if strings.HasPrefix(remaining, candidate.text) {
			return candidate, true
		}
	}
	return token{}, false
}

func (stripper *stripper) emitCode(value byte) {
	if value == '\n' {
		stripper.finishLine(true)
		return
	}
	stripper.output = append(stripper.output, value)
	if value != ' ' && value != '\t' && value != '\r' {
		stripper.lineHasCode = true
	}
}

// finishLine closes the current output line. A line that only carried
// comments is dropped together with its newline.
func (stripper *stripper) finishLine(newline bool) {
	if stripper.lineHadComment {
		if stripper.lineHasCode {
			stripper.trimTrailingBlanks()
		} else {
			stripper.output = stripper.output[:stripper.lineStart]
			newline = false
		}
	}
	if newline {
		stripper.output = append(stripper.output, '\n')
	}
	stripper.lineStart = len(stripper.output)
	stripper.lineHasCode = false
	stripper.lineHadComment = false
}

// scanString copies a literal through its closing delimiter. An escape
// consumes the following byte; when the escape equals the closing delimiter
// a doubled delimiter stands for one literal delimiter.
func (stripper *stripper) scanString(delimiter StringDelimiter) {
	stripper.output = append(stripper.output, delimiter.Open...)
	stripper.position += len(delimiter.Open)
	stripper.lineHasCode = true
	for stripper.position < len(stripper.input) {
		remaining := stripper.input[stripper.position:]
		if delimiter.Escape != "" && delimiter.Escape == delimiter.Close {
			if strings.HasPrefix(remaining, delimiter.Close+delimiter.Close) {
				stripper.output = append(stripper.output, delimiter.Close+delimiter.Close...)
				stripper.position += 2 * len(delimiter.Close)
				continue
			}
		} else if delimiter.Escape != "" && strings.HasPrefix(remaining, delimiter.Escape) {
			stripper.output = append(stripper.output, delimiter.Escape...)
			stripper.position += len(delimiter.Escape)
			if stripper.position < len(stripper.input) {
				stripper.copyStringByte(stripper.input[stripper.position])
				stripper.position++
			}
			continue
		}
		if strings.HasPrefix(remaining, delimiter.Close) {
			stripper.output = append(stripper.output, delimiter.Close...)
			stripper.position += len(delimiter.Close)
			return
		}
		if remaining[0] == '\n' && !delimiter.Multiline {
			return
		}
		stripper.copyStringByte(remaining[0])
		stripper.position++
	}
}

func (stripper *stripper) copyStringByte(value byte) {
	stripper.output = append(stripper.output, value)
	if value == '\n' {
		stripper.lineStart = len(stripper.output)
		stripper.lineHadComment = false
	}
}

// trimTrailingBlanks drops blanks left before a removed trailing comment,
// keeping the carriage return of a CRLF line.
func (stripper *stripper) trimTrailingBlanks() {
	end := len(stripper.output)
	carriageReturn := end > stripper.lineStart && stripper.output[end-1] == '\r'
	if carriageReturn {
		end--
	}
	for end > stripper.lineStart && (stripper.output[end-1] == ' ' || stripper.output[end-1] == '\t') {
		end--
	}
	stripper.output = stripper.output[:end]
	if carriageReturn {
		stripper.output = append(stripper.output, '\r')
	}
}

// separateJoinedTokens emits a space when the code on both sides of a
// removed block comment would otherwise form a new marker, as in "-/* */-".
func (stripper *stripper) separateJoinedTokens() {
	remaining := stripper.input[stripper.position:]
	for _, candidate := range stripper.profile.tokens {
		for split := 1; split < len(candidate.text); split++ {
			if bytes.HasSuffix(stripper.output, []byte(candidate.text[:split])) && strings.HasPrefix(remaining, candidate.text[split:]) {
				stripper.output = append(stripper.output, ' ')
				return
			}
		}
	}
}

// skipBlockComment drops a block comment. An unterminated comment runs to
// the end of input.
func (stripper *stripper) skipBlockComment(block BlockComment) {
	stripper.lineHadComment = true
	stripper.position += len(block.Start)
	depth := 1
	for stripper.position < len(stripper.input) {
		remaining := stripper.input[stripper.position:]
		switch {
		case strings.HasPrefix(remaining, block.End):
			stripper.position += len(block.End)
			depth--
			if depth == 0 || !block.Nested {
				return
			}
		case block.Nested && strings.HasPrefix(remaining, block.Start):
			stripper.position += len(block.Start)
			depth++
		default:
			stripper.position++
		}
	}
}

// skipLineComment drops everything up to the next line ending, which is
// left for the caller. A CRLF ending keeps its carriage return.
func (stripper *stripper) skipLineComment() {
	stripper.lineHadComment = true
	remaining := stripper.input[stripper.position:]
	newlineIndex := strings.IndexByte(remaining, '\n')
	if newlineIndex < 0 {
		stripper.position = len(stripper.input)
		return
	}
	if newlineIndex > 0 && remaining[newlineIndex-1] == '\r' {
		newlineIndex--
	}
	stripper.position += newlineIndex
}
