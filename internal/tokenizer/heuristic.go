package tokenizer

import "unicode/utf8"

const charactersPerToken = 4

// HeuristicCounter approximates one token per four characters.
type HeuristicCounter struct{}

func (HeuristicCounter) Name() string { return KindHeuristic }

func (HeuristicCounter) CountString(input string) (int, error) {
	return ApproximateTokens(input), nil
}

// ApproximateTokens returns ceil(characters/4), counting runes.
func ApproximateTokens(text string) int {
	characters := utf8.RuneCountInString(text)
	return (characters + charactersPerToken - 1) / charactersPerToken
}
