package forge

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/observability"
)

// GitLabClient lists changed files through the GitLab repository compare API.
type GitLabClient struct {
	*BaseForge
}

// NewGitLabClient creates a new GitLab client.
func NewGitLabClient(cfg Config) (*GitLabClient, error) {
	if cfg.Type != TypeGitLab {
		return nil, ErrForgeUnsupported.WithContext("type", string(cfg.Type)).WithContext("client", "gitlab")
	}
	if err := requireToken(cfg); err != nil {
		return nil, err
	}

	apiURL := withDefault(cfg.APIURL, "https://gitlab.com/api/v4")
	// GitLab uses Bearer auth (default), no custom headers needed
	return &GitLabClient{BaseForge: NewBaseForge(httpClientOrDefault(cfg.HTTPClient), apiURL, cfg.Token)}, nil
}

type gitlabComparison struct {
	Diffs []struct {
		OldPath     string `json:"old_path"`
		NewPath     string `json:"new_path"`
		NewFile     bool   `json:"new_file"`
		RenamedFile bool   `json:"renamed_file"`
		DeletedFile bool   `json:"deleted_file"`
	} `json:"diffs"`
	CompareTimeout bool `json:"compare_timeout"`
}

// CompareFiles returns every path touched between base and head using the
// merge-base comparison, matching GitHub's three-dot semantics.
func (c *GitLabClient) CompareFiles(ctx context.Context, project, base, head string) ([]string, error) {
	project = strings.Trim(project, "/")
	if project == "" {
		return nil, ErrInvalidRepository.WithContext("repository", project)
	}

	query := url.Values{}
	query.Set("from", base)
	query.Set("to", head)
	endpoint := fmt.Sprintf("/projects/%s/repository/compare?%s", url.PathEscape(project), query.Encode())
	req, err := c.NewRequest(ctx, "GET", endpoint)
	if err != nil {
		return nil, err
	}

	var cmp gitlabComparison
	if err := c.DoRequest(req, &cmp); err != nil {
		return nil, err
	}
	if cmp.CompareTimeout {
		observability.WarnContext(ctx, "GitLab comparison timed out; the file list may be incomplete",
			logfields.Repository(project), logfields.Base(base), logfields.Head(head))
	}

	seen := make(map[string]struct{}, len(cmp.Diffs))
	files := make([]string, 0, len(cmp.Diffs))
	for _, d := range cmp.Diffs {
		files = appendUnique(files, seen, d.NewPath, d.OldPath)
	}
	observability.DebugContext(ctx, "Fetched comparison",
		logfields.Repository(project), logfields.Base(base), logfields.Head(head), logfields.Count(len(files)))
	return files, nil
}
