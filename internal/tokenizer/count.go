package tokenizer

import (
	"errors"
	"fmt"

	"github.com/temirov/repodump/internal/types"
)

// CountFiles sets the Tokens field of every file using counter, in order,
// and returns the total.
func CountFiles(counter Counter, files []types.FileOutput) (int, error) {
	if counter == nil {
		return 0, errors.New("nil tokenizer counter")
	}
	total := 0
	for index := range files {
		tokens, err := counter.CountString(files[index].Content)
		if err != nil {
			return 0, fmt.Errorf("count tokens for %s: %w", files[index].Path, err)
		}
		files[index].Tokens = tokens
		total += tokens
	}
	return total, nil
}
