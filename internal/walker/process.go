package walker

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/repodump/internal/classify"
	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
)

type fileResult struct {
	done     bool
	output   types.FileOutput
	omission *types.Omission
}

// processAll reads, classifies and strips entries concurrently and returns
// the results in the order of entries.
func (walker *Walker) processAll(ctx context.Context, entries []types.PathEntry) ([]types.FileOutput, []types.Omission, error) {
	results := make([]fileResult, len(entries))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(walker.options.Workers)

	for index, entry := range entries {
		index, entry := index, entry
		if groupContext.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			results[index] = walker.processFile(entry)
			return nil
		})
	}
	waitError := group.Wait()
	if waitError == nil {
		waitError = ctx.Err()
	}

	var files []types.FileOutput
	var omitted []types.Omission
	for _, result := range results {
		if !result.done {
			continue
		}
		if result.omission != nil {
			omitted = append(omitted, *result.omission)
			continue
		}
		files = append(files, result.output)
	}
	return files, omitted, waitError
}

func (walker *Walker) processFile(entry types.PathEntry) fileResult {
	data, readError := walker.readBounded(entry)
	if readError != nil {
		omission := walker.omit(entry.Path, types.OmittedReadError, readError.Error())
		return fileResult{done: true, omission: &omission}
	}
	if walker.options.MaxSizeBytes > 0 && int64(len(data)) > walker.options.MaxSizeBytes {
		omission := walker.omit(entry.Path, types.OmittedOversized, "file grew past "+utils.FormatFileSize(walker.options.MaxSizeBytes))
		return fileResult{done: true, omission: &omission}
	}

	sample := data
	if len(sample) > classify.SampleSize {
		sample = sample[:classify.SampleSize]
	}
	classification := walker.classifier.Classify(entry.Path, sample)
	if classification.IsBinary {
		omission := walker.omit(entry.Path, types.OmittedBinary, string(classification.Reason))
		return fileResult{done: true, omission: &omission}
	}

	content, replaced := decodeText(data)
	if walker.options.StripComments {
		content = walker.profiles.StripPath(entry.Path, content)
	}
	return fileResult{
		done: true,
		output: types.FileOutput{
			Path:      entry.Path,
			Content:   content,
			SizeBytes: int64(len(data)),
			Replaced:  replaced,
		},
	}
}

// readBounded reads at most one byte past the size limit so growth after
// traversal is detected without loading the whole file. The listed size
// presizes the buffer.
//
// #nosec G304
func (walker *Walker) readBounded(entry types.PathEntry) ([]byte, error) {
	fileHandle, openError := os.Open(filepath.Join(walker.rootDirectory, filepath.FromSlash(entry.Path)))
	if openError != nil {
		return nil, &ReadError{Path: entry.Path, Err: openError}
	}
	defer fileHandle.Close()

	var reader io.Reader = fileHandle
	capacity := entry.SizeBytes + 1
	if walker.options.MaxSizeBytes > 0 {
		reader = io.LimitReader(fileHandle, walker.options.MaxSizeBytes+1)
		capacity = min(capacity, walker.options.MaxSizeBytes+1)
	}
	var buffer bytes.Buffer
	buffer.Grow(int(max(capacity, 0)))
	if _, readError := buffer.ReadFrom(reader); readError != nil {
		return nil, &ReadError{Path: entry.Path, Err: readError}
	}
	return buffer.Bytes(), nil
}

// decodeText converts data to a string, substituting U+FFFD for every
// byte that is not part of a valid UTF-8 sequence.
func decodeText(data []byte) (string, bool) {
	if utf8.Valid(data) {
		return string(data), false
	}
	decoded := make([]byte, 0, len(data)+8)
	for len(data) > 0 {
		value, size := utf8.DecodeRune(data)
		if value == utf8.RuneError && size == 1 {
			decoded = utf8.AppendRune(decoded, utf8.RuneError)
		} else {
			decoded = append(decoded, data[:size]...)
		}
		data = data[size:]
	}
	return string(decoded), true
}
