package tokenizer

import (
	"errors"
	"fmt"

	"github.com/temirov/repodump/internal/types"
)

// ErrInvalidChunkSize reports a non-positive per-chunk budget.
var ErrInvalidChunkSize = errors.New("tokens per chunk must be positive")

// ApplyCap keeps files in order while the running total stays within
// maxTokens. The first file that would exceed the cap is dropped together
// with every file after it. A maxTokens of zero or less disables the cap.
func ApplyCap(files []types.FileOutput, maxTokens int) (kept []types.FileOutput, dropped []types.FileOutput) {
	if maxTokens <= 0 {
		return files, nil
	}
	total := 0
	for index, file := range files {
		if total+file.Tokens > maxTokens {
			return files[:index], files[index:]
		}
		total += file.Tokens
	}
	return files, nil
}

// Split packs files greedily into 1-based chunks of at most tokensPerChunk
// tokens. A file larger than the budget gets a chunk of its own; files are
// never divided.
func Split(files []types.FileOutput, tokensPerChunk int) ([]types.Chunk, error) {
	if tokensPerChunk <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, tokensPerChunk)
	}
	var chunks []types.Chunk
	current := types.Chunk{Index: 1}
	for _, file := range files {
		if len(current.Files) > 0 && current.Tokens+file.Tokens > tokensPerChunk {
			chunks = append(chunks, current)
			current = types.Chunk{Index: current.Index + 1}
		}
		current.Files = append(current.Files, file)
		current.Tokens += file.Tokens
	}
	if len(current.Files) > 0 {
		chunks = append(chunks, current)
	}
	return chunks, nil
}
