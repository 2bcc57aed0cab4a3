package acquire

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/temirov/repodump/internal/utils"
)

const (
	githubHost       = "github.com"
	treeSegment      = "tree"
	gitSuffix        = ".git"
	httpsSchemeLabel = "https"
)

// ErrInvalidRemote reports a remote URL that names no repository.
var ErrInvalidRemote = errors.New("invalid remote repository URL")

// Remote is a parsed remote location.
type Remote struct {
	// CloneURL is the URL handed to git.
	CloneURL string
	// Reference is the branch named in a GitHub tree URL, if any.
	Reference string
	// Subdirectory is the slash-separated path below the repository root
	// named in a GitHub tree URL, if any.
	Subdirectory   string
	RepositoryName string
}

// ParseRemote accepts clone URLs (https, ssh, scp-like, file), GitHub
// "owner/repo" shorthands and GitHub browser URLs of the form
// https://github.com/owner/repo/tree/<branch>/<subdirectory>.
func ParseRemote(rawURL string) (Remote, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Remote{}, fmt.Errorf("%w: empty", ErrInvalidRemote)
	}
	if isScpLike(trimmed) {
		return Remote{CloneURL: trimmed, RepositoryName: utils.RepositoryNameFromURL(trimmed)}, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Remote{}, fmt.Errorf("%w: %v", ErrInvalidRemote, err)
	}
	if parsed.Scheme == "" {
		slug := strings.Trim(parsed.Path, "/")
		segments := strings.SplitN(slug, "/", 2)
		switch {
		case len(segments) == 2 && strings.Contains(segments[0], "."):
			parsed = &url.URL{Scheme: httpsSchemeLabel, Host: segments[0], Path: "/" + segments[1]}
		case strings.Count(slug, "/") == 1:
			parsed = &url.URL{Scheme: httpsSchemeLabel, Host: githubHost, Path: "/" + slug}
		default:
			return Remote{}, fmt.Errorf("%w: %q", ErrInvalidRemote, rawURL)
		}
	}
	if parsed.Scheme == "file" {
		return Remote{CloneURL: trimmed, RepositoryName: utils.RepositoryNameFromURL(trimmed)}, nil
	}
	if parsed.Host == "" {
		return Remote{}, fmt.Errorf("%w: %q", ErrInvalidRemote, rawURL)
	}

	remote := Remote{}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if strings.EqualFold(parsed.Hostname(), githubHost) && len(segments) > 3 && segments[2] == treeSegment {
		remote.Reference = segments[3]
		remote.Subdirectory = strings.Join(segments[4:], "/")
		segments = segments[:2]
	}
	if len(segments) < 2 || segments[len(segments)-1] == "" {
		return Remote{}, fmt.Errorf("%w: %q", ErrInvalidRemote, rawURL)
	}

	repositoryPath := strings.Join(segments, "/")
	if !strings.HasSuffix(repositoryPath, gitSuffix) && strings.EqualFold(parsed.Hostname(), githubHost) {
		repositoryPath += gitSuffix
	}
	cloneURL := *parsed
	cloneURL.Path = "/" + repositoryPath
	cloneURL.RawQuery = ""
	cloneURL.Fragment = ""
	remote.CloneURL = cloneURL.String()
	remote.RepositoryName = utils.RepositoryNameFromURL(remote.CloneURL)
	return remote, nil
}

// isScpLike reports the user@host:path form git accepts for ssh.
func isScpLike(value string) bool {
	if strings.Contains(value, "://") {
		return false
	}
	atIndex := strings.Index(value, "@")
	colonIndex := strings.Index(value, ":")
	return atIndex > 0 && colonIndex > atIndex
}

func isHTTPRemote(cloneURL string) bool {
	return strings.HasPrefix(cloneURL, "https://") || strings.HasPrefix(cloneURL, "http://")
}
