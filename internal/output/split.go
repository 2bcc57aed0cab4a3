package output

import (
	"fmt"
	"path/filepath"

	"github.com/temirov/repodump/internal/types"
)

const chunkFileNameFormat = "%s_%d.%s"

// ChunkDump narrows dump to the files of chunk so each chunk renders as a
// standalone dump with its own token header. Omissions stay with the first
// chunk.
func ChunkDump(dump types.Dump, chunk types.Chunk) types.Dump {
	chunkDump := dump
	chunkDump.Files = chunk.Files
	chunkDump.TotalTokens = chunk.Tokens
	chunkDump.Chunks = nil
	if chunk.Index != 1 {
		chunkDump.Omitted = nil
	}
	return chunkDump
}

// ChunkFileName returns "<repo>_<index>.<ext>" inside outputDirectory.
func ChunkFileName(outputDirectory string, repositoryName string, index int, format string) (string, error) {
	extension, err := Extension(format)
	if err != nil {
		return "", err
	}
	return filepath.Join(outputDirectory, fmt.Sprintf(chunkFileNameFormat, repositoryName, index, extension)), nil
}
