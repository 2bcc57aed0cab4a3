package tokenizer

import (
	"errors"
	"testing"

	"github.com/temirov/repodump/internal/types"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func filesWithTokens(tokenCounts ...int) []types.FileOutput {
	files := make([]types.FileOutput, len(tokenCounts))
	for index, tokens := range tokenCounts {
		files[index] = types.FileOutput{Path: string(rune('a' + index)), Tokens: tokens}
	}
	return files
}

func TestApproximateTokens(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{input: "", expected: 0},
		{input: "a", expected: 1},
		{input: "abcd", expected: 1},
		{input: "abcde", expected: 2},
		{input: "日本語です", expected: 2},
	}
	previous := 0
	for _, testCase := range testCases {
		actual := ApproximateTokens(testCase.input)
		if actual != testCase.expected {
			t.Fatalf("ApproximateTokens(%q): expected %d, got %d", testCase.input, testCase.expected, actual)
		}
		if actual < previous {
			t.Fatalf("expected non-decreasing counts, got %d after %d", actual, previous)
		}
		previous = actual
	}
}

func TestCountFiles(t *testing.T) {
	files := []types.FileOutput{{Path: "a", Content: "hello"}, {Path: "b", Content: "hi"}}
	total, err := CountFiles(testCounter{}, files)
	if err != nil {
		t.Fatalf("CountFiles error: %v", err)
	}
	if total != 7 || files[0].Tokens != 5 || files[1].Tokens != 2 {
		t.Fatalf("unexpected counts: total %d files %+v", total, files)
	}
	if _, err := CountFiles(failingCounter{}, files); err == nil {
		t.Fatalf("expected counter error to propagate")
	}
}

func TestApplyCap(t *testing.T) {
	kept, dropped := ApplyCap(filesWithTokens(40, 40, 40), 100)
	if len(kept) != 2 || len(dropped) != 1 {
		t.Fatalf("expected 2 kept and 1 dropped, got %d and %d", len(kept), len(dropped))
	}
	if dropped[0].Path != "c" {
		t.Fatalf("expected third file dropped, got %s", dropped[0].Path)
	}

	kept, dropped = ApplyCap(filesWithTokens(10, 200, 5), 100)
	if len(kept) != 1 || len(dropped) != 2 {
		t.Fatalf("expected every file after the overflow to be dropped, got %d kept %d dropped", len(kept), len(dropped))
	}

	kept, dropped = ApplyCap(filesWithTokens(50, 50), 100)
	if len(kept) != 2 || len(dropped) != 0 {
		t.Fatalf("expected files summing exactly to the cap to be kept")
	}

	kept, dropped = ApplyCap(filesWithTokens(500), 0)
	if len(kept) != 1 || dropped != nil {
		t.Fatalf("expected zero cap to keep everything")
	}
}

func TestSplit(t *testing.T) {
	chunks, err := Split(filesWithTokens(30, 30, 50, 250, 10), 100)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	expectedSizes := [][]string{{"a", "b"}, {"c"}, {"d"}, {"e"}}
	if len(chunks) != len(expectedSizes) {
		t.Fatalf("expected %d chunks, got %d", len(expectedSizes), len(chunks))
	}
	for index, chunk := range chunks {
		if chunk.Index != index+1 {
			t.Fatalf("expected 1-based index %d, got %d", index+1, chunk.Index)
		}
		if len(chunk.Files) != len(expectedSizes[index]) {
			t.Fatalf("chunk %d: expected %v, got %d files", chunk.Index, expectedSizes[index], len(chunk.Files))
		}
		for position, file := range chunk.Files {
			if file.Path != expectedSizes[index][position] {
				t.Fatalf("chunk %d: expected %s at %d, got %s", chunk.Index, expectedSizes[index][position], position, file.Path)
			}
		}
		if chunk.Tokens > 100 && len(chunk.Files) != 1 {
			t.Fatalf("chunk %d exceeds budget with %d files", chunk.Index, len(chunk.Files))
		}
	}

	if _, err := Split(filesWithTokens(1), 0); !errors.Is(err, ErrInvalidChunkSize) {
		t.Fatalf("expected ErrInvalidChunkSize, got %v", err)
	}
	empty, err := Split(nil, 10)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no chunks for no files, got %v %v", empty, err)
	}
}

func TestNewCounterHeuristicAndUnknown(t *testing.T) {
	counter, err := NewCounter(Config{Kind: KindHeuristic}, nil)
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter.Name() != KindHeuristic {
		t.Fatalf("expected heuristic counter, got %s", counter.Name())
	}
	if _, err := NewCounter(Config{Kind: "sentencepiece"}, nil); !errors.Is(err, ErrUnknownTokenizer) {
		t.Fatalf("expected ErrUnknownTokenizer, got %v", err)
	}
}

func TestNewCounterFallsBackWhenTokenizerFileMissing(t *testing.T) {
	counter, err := NewCounter(Config{Kind: KindHuggingFace, TokenizerFile: t.TempDir() + "/missing.json"}, nil)
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if _, ok := counter.(HeuristicCounter); !ok {
		t.Fatalf("expected heuristic fallback, got %T", counter)
	}
}
