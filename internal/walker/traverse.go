package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/repodump/internal/pattern"
	"github.com/temirov/repodump/internal/types"
	"github.com/temirov/repodump/internal/utils"
)

// collect gathers candidate files. Excluded directories are pruned and
// reported once; excluded and oversized files are reported individually.
func (walker *Walker) collect(ctx context.Context) ([]types.PathEntry, []types.Omission, error) {
	var entries []types.PathEntry
	var omitted []types.Omission

	var visitDirectory func(absoluteDirectory string, relativeDirectory string, decision pattern.Decision) error
	visitDirectory = func(absoluteDirectory string, relativeDirectory string, decision pattern.Decision) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		directoryEntries, readError := os.ReadDir(absoluteDirectory)
		if readError != nil {
			if relativeDirectory == "" {
				return fmt.Errorf("read root directory %s: %w", absoluteDirectory, readError)
			}
			omitted = append(omitted, walker.omit(relativeDirectory, types.OmittedReadError, readError.Error()))
			return nil
		}

		for _, directoryEntry := range directoryEntries {
			relativePath := directoryEntry.Name()
			if relativeDirectory != "" {
				relativePath = relativeDirectory + "/" + directoryEntry.Name()
			}
			absolutePath := filepath.Join(absoluteDirectory, directoryEntry.Name())

			isDirectory := directoryEntry.IsDir()
			var size int64
			if directoryEntry.Type()&fs.ModeSymlink != 0 {
				targetInfo, statError := os.Stat(absolutePath)
				if statError != nil {
					omitted = append(omitted, walker.omit(relativePath, types.OmittedReadError, statError.Error()))
					continue
				}
				if targetInfo.IsDir() {
					walker.logger.Debug("symlinked directory not followed", zap.String("path", relativePath))
					continue
				}
				size = targetInfo.Size()
			} else if !isDirectory {
				if !directoryEntry.Type().IsRegular() {
					continue
				}
				info, infoError := directoryEntry.Info()
				if infoError != nil {
					omitted = append(omitted, walker.omit(relativePath, types.OmittedReadError, infoError.Error()))
					continue
				}
				size = info.Size()
			}

			childDecision := walker.matcher.DecideChild(decision, relativePath, isDirectory)
			if !childDecision.Included {
				omitted = append(omitted, walker.omit(relativePath, types.OmittedPatternExcluded, childDecision.Reason))
				continue
			}
			if isDirectory {
				if err := visitDirectory(absolutePath, relativePath, childDecision); err != nil {
					return err
				}
				continue
			}
			if walker.options.MaxSizeBytes > 0 && size > walker.options.MaxSizeBytes {
				detail := fmt.Sprintf("%s exceeds %s", utils.FormatFileSize(size), utils.FormatFileSize(walker.options.MaxSizeBytes))
				omitted = append(omitted, walker.omit(relativePath, types.OmittedOversized, detail))
				continue
			}
			entries = append(entries, types.PathEntry{Path: relativePath, SizeBytes: size})
		}
		return nil
	}

	err := visitDirectory(walker.rootDirectory, "", pattern.RootDecision())
	return entries, omitted, err
}
