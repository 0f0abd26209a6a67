package ci

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

const prEvent = `{
	"action": "synchronize",
	"number": 7,
	"repository": {"full_name": "octo/mono"},
	"pull_request": {
		"number": 7,
		"base": {"sha": "aaa111", "ref": "main"},
		"head": {"sha": "bbb222", "ref": "feature"}
	}
}`

func TestReadPullRequestEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(prEvent), 0o600))

	pr, err := ReadPullRequestEvent(path)
	require.NoError(t, err)
	assert.Equal(t, &PullRequest{Repository: "octo/mono", Number: 7, BaseSHA: "aaa111", HeadSHA: "bbb222"}, pr)
}

func TestReadPullRequestEvent_Errors(t *testing.T) {
	_, err := ReadPullRequestEvent("")
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = ReadPullRequestEvent(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParsePullRequestEvent_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{"push event", `{"repository":{"full_name":"o/r"},"ref":"refs/heads/main"}`, "pull_request"},
		{"no base sha", `{"pull_request":{"base":{},"head":{"sha":"b"}}}`, "pull_request.base.sha"},
		{"no head sha", `{"pull_request":{"base":{"sha":"a"},"head":{}}}`, "pull_request.head.sha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePullRequestEvent([]byte(tt.payload))
			ce, ok := errors.AsClassified(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, errors.CategoryConfig, ce.Category())
			field, _ := ce.Context().GetString("field")
			assert.Equal(t, tt.wantField, field)
		})
	}

	_, err := ParsePullRequestEvent([]byte(`{`))
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestMergeRequestFromEnv(t *testing.T) {
	env := map[string]string{
		"CI_PROJECT_ID":                  "42",
		"CI_MERGE_REQUEST_DIFF_BASE_SHA": "base",
		"CI_COMMIT_SHA":                  "head",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	pr, err := MergeRequestFromEnv(lookup)
	require.NoError(t, err)
	assert.Equal(t, &PullRequest{Repository: "42", BaseSHA: "base", HeadSHA: "head"}, pr)

	delete(env, "CI_MERGE_REQUEST_DIFF_BASE_SHA")
	_, err = MergeRequestFromEnv(lookup)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	variable, _ := ce.Context().GetString("variable")
	assert.Equal(t, "CI_MERGE_REQUEST_DIFF_BASE_SHA", variable)
}

func TestAnnotate(t *testing.T) {
	var buf bytes.Buffer
	Annotate(&buf, "error", "cycle A -> B\n100% broken")
	assert.Equal(t, "::error::cycle A -> B%0A100%25 broken\n", buf.String())
}
