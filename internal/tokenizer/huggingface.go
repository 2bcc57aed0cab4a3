package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const (
	defaultHuggingFaceModel = "gpt2"
	tokenizerDefinitionFile = "tokenizer.json"
)

type huggingFaceCounter struct {
	tokenizer *hf.Tokenizer
	name      string
}

// newHuggingFaceCounter loads a tokenizer.json from tokenizerFile, or from
// the HuggingFace cache for model when no file is given.
func newHuggingFaceCounter(model string, tokenizerFile string) (Counter, error) {
	tokenizerFile = strings.TrimSpace(tokenizerFile)
	if tokenizerFile != "" {
		loaded, err := pretrained.FromFile(tokenizerFile)
		if err != nil {
			return nil, fmt.Errorf("load tokenizer from file %s: %w", tokenizerFile, err)
		}
		return huggingFaceCounter{tokenizer: loaded, name: "huggingface:" + tokenizerFile}, nil
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultHuggingFaceModel
	}
	definitionPath, err := hf.CachedPath(model, tokenizerDefinitionFile)
	if err != nil {
		return nil, fmt.Errorf("locate tokenizer for model %s: %w", model, err)
	}
	loaded, err := pretrained.FromFile(definitionPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for model %s from %s: %w", model, definitionPath, err)
	}
	return huggingFaceCounter{tokenizer: loaded, name: "huggingface:" + model}, nil
}

func (counter huggingFaceCounter) Name() string {
	return counter.name
}

func (counter huggingFaceCounter) CountString(input string) (int, error) {
	if counter.tokenizer == nil {
		return 0, errors.New("nil huggingface tokenizer")
	}
	if input == "" {
		return 0, nil
	}
	encoding, err := counter.tokenizer.EncodeSingle(input)
	if err != nil {
		return 0, fmt.Errorf("encode with %s: %w", counter.name, err)
	}
	return len(encoding.Tokens), nil
}
