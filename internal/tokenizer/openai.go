package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// newTiktokenCounter resolves the encoding for model, falling back to
// cl100k_base for models tiktoken does not know.
func newTiktokenCounter(model string) (Counter, error) {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		model = defaultModel
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: "tiktoken:" + model}, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, fmt.Errorf("initialize tiktoken encoding %s: %w", defaultEncodingName, fallbackErr)
	}
	return openAICounter{encoding: fallback, name: "tiktoken:" + defaultEncodingName}, nil
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
