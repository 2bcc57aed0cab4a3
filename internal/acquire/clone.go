// Package acquire fetches a remote repository into a temporary checkout.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

const (
	temporaryDirectoryPattern = "repodump-"
	tokenUsername             = "x-access-token"
	// DefaultDepth fetches only the tip commit.
	DefaultDepth = 1
)

// ErrSubdirectoryNotFound reports a tree URL path missing from the checkout.
var ErrSubdirectoryNotFound = errors.New("subdirectory not found in repository")

// Options tune a clone.
type Options struct {
	// Reference is a branch name or a full "refs/..." name; it overrides a
	// branch named in the URL.
	Reference string
	// Token authenticates https remotes.
	Token    string
	Depth    int
	Progress io.Writer
}

// Checkout is a cloned repository on disk. Close removes it.
type Checkout struct {
	// Directory is the temporary clone root.
	Directory string
	// RootDirectory is the directory to dump: Directory or a subdirectory of it.
	RootDirectory  string
	RepositoryName string
}

// Close removes the temporary clone.
func (checkout *Checkout) Close() error {
	if checkout == nil || checkout.Directory == "" {
		return nil
	}
	return os.RemoveAll(checkout.Directory)
}

// Clone fetches rawURL into a new temporary directory. The caller owns the
// returned Checkout and must Close it.
func Clone(ctx context.Context, rawURL string, options Options, logger *zap.Logger) (*Checkout, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	remote, err := ParseRemote(rawURL)
	if err != nil {
		return nil, err
	}

	temporaryDirectory, err := os.MkdirTemp("", temporaryDirectoryPattern)
	if err != nil {
		return nil, fmt.Errorf("create temporary directory: %w", err)
	}

	cloneOptions := &git.CloneOptions{
		URL:          remote.CloneURL,
		Depth:        options.Depth,
		SingleBranch: true,
		Tags:         git.NoTags,
		Progress:     options.Progress,
	}
	reference := options.Reference
	if reference == "" {
		reference = remote.Reference
	}
	if reference != "" {
		cloneOptions.ReferenceName = referenceName(reference)
	}
	if options.Token != "" && isHTTPRemote(remote.CloneURL) {
		cloneOptions.Auth = &githttp.BasicAuth{Username: tokenUsername, Password: options.Token}
	}

	logger.Info("cloning repository",
		zap.String("url", remote.CloneURL),
		zap.String("reference", reference),
		zap.Int("depth", options.Depth),
	)
	if _, cloneError := git.PlainCloneContext(ctx, temporaryDirectory, false, cloneOptions); cloneError != nil {
		_ = os.RemoveAll(temporaryDirectory)
		return nil, fmt.Errorf("clone %s: %w", remote.CloneURL, cloneError)
	}

	checkout := &Checkout{
		Directory:      temporaryDirectory,
		RootDirectory:  temporaryDirectory,
		RepositoryName: remote.RepositoryName,
	}
	if remote.Subdirectory != "" {
		subdirectory := filepath.Join(temporaryDirectory, filepath.FromSlash(remote.Subdirectory))
		info, statError := os.Stat(subdirectory)
		if statError != nil || !info.IsDir() {
			_ = checkout.Close()
			return nil, fmt.Errorf("%w: %s", ErrSubdirectoryNotFound, remote.Subdirectory)
		}
		checkout.RootDirectory = subdirectory
	}
	return checkout, nil
}

func referenceName(reference string) plumbing.ReferenceName {
	if strings.HasPrefix(reference, "refs/") {
		return plumbing.ReferenceName(reference)
	}
	return plumbing.NewBranchReferenceName(reference)
}
