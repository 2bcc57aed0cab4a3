package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// KindTiktoken selects an OpenAI BPE encoding.
	KindTiktoken = "tiktoken"
	// KindHuggingFace selects a HuggingFace tokenizer.json definition.
	KindHuggingFace = "huggingface"
	// KindHeuristic selects the ceil(characters/4) approximation.
	KindHeuristic = "heuristic"
)

// ErrUnknownTokenizer reports an unsupported tokenizer kind.
var ErrUnknownTokenizer = errors.New("unknown tokenizer")

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Kind          string
	Model         string
	TokenizerFile string
}

// NewCounter returns the Counter used for a whole invocation. When an
// external tokenizer cannot be initialized the heuristic estimator is used
// instead and a warning is logged.
func NewCounter(cfg Config, logger *zap.Logger) (Counter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	if kind == "" {
		kind = KindTiktoken
	}

	var (
		counter Counter
		err     error
	)
	switch kind {
	case KindHeuristic:
		return HeuristicCounter{}, nil
	case KindTiktoken:
		counter, err = newTiktokenCounter(cfg.Model)
	case KindHuggingFace:
		counter, err = newHuggingFaceCounter(cfg.Model, cfg.TokenizerFile)
	default:
		return nil, fmt.Errorf("%w: %q (use %s, %s or %s)", ErrUnknownTokenizer, cfg.Kind, KindTiktoken, KindHuggingFace, KindHeuristic)
	}
	if err != nil {
		logger.Warn("tokenizer unavailable, using heuristic estimator",
			zap.String("tokenizer", kind),
			zap.String("model", cfg.Model),
			zap.Error(err),
		)
		return HeuristicCounter{}, nil
	}
	return counter, nil
}
