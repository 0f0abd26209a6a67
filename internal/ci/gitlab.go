package ci

import (
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// MergeRequestFromEnv builds the merge request context from GitLab CI's
// predefined variables. lookup is usually os.LookupEnv.
func MergeRequestFromEnv(lookup func(string) (string, bool)) (*PullRequest, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	pr := &PullRequest{
		Repository: get("CI_PROJECT_ID"),
		BaseSHA:    get("CI_MERGE_REQUEST_DIFF_BASE_SHA"),
		HeadSHA:    get("CI_COMMIT_SHA"),
	}
	required := []struct{ key, val string }{
		{"CI_PROJECT_ID", pr.Repository},
		{"CI_MERGE_REQUEST_DIFF_BASE_SHA", pr.BaseSHA},
		{"CI_COMMIT_SHA", pr.HeadSHA},
	}
	for _, r := range required {
		if r.val == "" {
			return nil, errors.ConfigError("merge request variable is not set; run in a merge request pipeline").
				WithContext("variable", r.key).
				Build()
		}
	}
	return pr, nil
}
