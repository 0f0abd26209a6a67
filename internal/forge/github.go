package forge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/observability"
)

// githubCompareFileLimit is the number of files GitHub returns for a
// comparison before silently truncating the list.
const githubCompareFileLimit = 300

// GitHubClient lists changed files through the GitHub compare API.
type GitHubClient struct {
	*BaseForge
}

// NewGitHubClient creates a new GitHub client.
func NewGitHubClient(cfg Config) (*GitHubClient, error) {
	if cfg.Type != TypeGitHub {
		return nil, ErrForgeUnsupported.WithContext("type", string(cfg.Type)).WithContext("client", "github")
	}
	if err := requireToken(cfg); err != nil {
		return nil, err
	}

	apiURL := withDefault(cfg.APIURL, "https://api.github.com")
	baseForge := NewBaseForge(httpClientOrDefault(cfg.HTTPClient), apiURL, cfg.Token)
	baseForge.SetAuthHeaderPrefix("token ")
	baseForge.SetCustomHeader("Accept", "application/vnd.github.v3+json")

	return &GitHubClient{BaseForge: baseForge}, nil
}

// githubComparison is the subset of the compare response affected reads.
type githubComparison struct {
	Status string `json:"status"`
	Files  []struct {
		Filename         string `json:"filename"`
		PreviousFilename string `json:"previous_filename"`
		Status           string `json:"status"`
	} `json:"files"`
}

// CompareFiles returns every path touched between base and head. Renamed
// files contribute both their old and new path.
func (c *GitHubClient) CompareFiles(ctx context.Context, repo, base, head string) ([]string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, ErrInvalidRepository.WithContext("repository", repo)
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/compare/%s...%s", owner, name, base, head)
	req, err := c.NewRequest(ctx, "GET", endpoint)
	if err != nil {
		return nil, err
	}

	var cmp githubComparison
	if err := c.DoRequest(req, &cmp); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(cmp.Files))
	files := make([]string, 0, len(cmp.Files))
	for _, f := range cmp.Files {
		files = appendUnique(files, seen, f.Filename, f.PreviousFilename)
	}
	if len(cmp.Files) >= githubCompareFileLimit {
		observability.WarnContext(ctx, "Comparison may be truncated by the GitHub file limit",
			logfields.Repository(repo),
			logfields.Base(base),
			logfields.Head(head),
			logfields.Count(len(cmp.Files)))
	}
	observability.DebugContext(ctx, "Fetched comparison",
		logfields.Repository(repo),
		logfields.Base(base),
		logfields.Head(head),
		slog.String("status", cmp.Status),
		logfields.Count(len(files)))
	return files, nil
}
