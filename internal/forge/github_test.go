package forge

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

func newGitHubTestClient(t *testing.T, handler http.HandlerFunc) *GitHubClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGitHubClient(Config{Type: TypeGitHub, APIURL: srv.URL, Token: "gh-token", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return client
}

func TestGitHubClient_CompareFiles(t *testing.T) {
	client := newGitHubTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/octo/mono/compare/base1...head1", r.URL.Path)
		assert.Equal(t, "token gh-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(`{
			"status": "ahead",
			"files": [
				{"filename": "src/a/main.go", "status": "modified"},
				{"filename": "src/b/new.go", "previous_filename": "src/c/old.go", "status": "renamed"},
				{"filename": "src/a/main.go", "status": "modified"}
			]
		}`))
	})

	files, err := client.CompareFiles(context.Background(), "octo/mono", "base1", "head1")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a/main.go", "src/b/new.go", "src/c/old.go"}, files)
}

func TestGitHubClient_CompareFiles_NoFiles(t *testing.T) {
	client := newGitHubTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"identical"}`))
	})

	files, err := client.CompareFiles(context.Background(), "octo/mono", "a", "a")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitHubClient_CompareFiles_FileLimit(t *testing.T) {
	type file struct {
		Filename string `json:"filename"`
	}
	payload := struct {
		Files []file `json:"files"`
	}{}
	for i := range githubCompareFileLimit {
		payload.Files = append(payload.Files, file{Filename: fmt.Sprintf("f%03d.txt", i)})
	}

	client := newGitHubTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(payload)
	})

	files, err := client.CompareFiles(context.Background(), "octo/mono", "a", "b")
	require.NoError(t, err)
	assert.Len(t, files, githubCompareFileLimit)
}

func TestGitHubClient_CompareFiles_Errors(t *testing.T) {
	t.Run("upstream status is reported", func(t *testing.T) {
		client := newGitHubTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		})

		_, err := client.CompareFiles(context.Background(), "octo/mono", "a", "b")
		require.Error(t, err)
		ce, ok := errors.AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, errors.CategoryNotFound, ce.Category())
		code, _ := ce.Context().Get("code")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, err.Error(), "Not Found")
	})

	for _, repo := range []string{"", "mono", "/mono", "octo/", "octo/mono/extra"} {
		t.Run("invalid repository "+repo, func(t *testing.T) {
			client := newGitHubTestClient(t, func(http.ResponseWriter, *http.Request) {
				t.Error("no request expected")
			})
			_, err := client.CompareFiles(context.Background(), repo, "a", "b")
			assert.True(t, stderrors.Is(err, ErrInvalidRepository))
		})
	}
}

func TestNewGitHubClient(t *testing.T) {
	_, err := NewGitHubClient(Config{Type: TypeGitHub})
	assert.True(t, stderrors.Is(err, ErrAuthRequired))

	_, err = NewGitHubClient(Config{Type: TypeGitLab, Token: "t"})
	assert.True(t, stderrors.Is(err, ErrForgeUnsupported))

	c, err := NewGitHubClient(Config{Type: TypeGitHub, Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com", c.apiURL)
}
