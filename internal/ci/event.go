package ci

import (
	"encoding/json"
	"os"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// PullRequest identifies the two revisions of a pull request.
type PullRequest struct {
	Repository string // owner/name
	Number     int
	BaseSHA    string
	HeadSHA    string
}

type githubEvent struct {
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	PullRequest *struct {
		Number int `json:"number"`
		Base   struct {
			SHA string `json:"sha"`
		} `json:"base"`
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
}

// ReadPullRequestEvent reads the webhook payload at path (GITHUB_EVENT_PATH)
// of a pull_request or pull_request_target run.
func ReadPullRequestEvent(path string) (*PullRequest, error) {
	if path == "" {
		return nil, errors.ConfigError("GITHUB_EVENT_PATH is not set").Build()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read event payload").
			WithContext("path", path).
			Build()
	}
	return ParsePullRequestEvent(data)
}

// ParsePullRequestEvent extracts the pull request revisions from an event
// payload. The repository may be empty; callers fall back to GITHUB_REPOSITORY.
func ParsePullRequestEvent(data []byte) (*PullRequest, error) {
	var ev githubEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid event payload").Build()
	}
	if ev.PullRequest == nil {
		return nil, errors.ConfigError("could not determine base or head SHA").
			WithContext("field", "pull_request").
			Build()
	}
	pr := &PullRequest{
		Repository: ev.Repository.FullName,
		Number:     ev.PullRequest.Number,
		BaseSHA:    ev.PullRequest.Base.SHA,
		HeadSHA:    ev.PullRequest.Head.SHA,
	}
	if pr.BaseSHA == "" {
		return nil, errors.ConfigError("could not determine base or head SHA").
			WithContext("field", "pull_request.base.sha").
			Build()
	}
	if pr.HeadSHA == "" {
		return nil, errors.ConfigError("could not determine base or head SHA").
			WithContext("field", "pull_request.head.sha").
			Build()
	}
	return pr, nil
}
