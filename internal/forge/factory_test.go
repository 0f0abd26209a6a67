package forge

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComparer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    any
		wantErr error
	}{
		{name: "github", cfg: Config{Type: TypeGitHub, Token: "t"}, want: &GitHubClient{}},
		{name: "gitlab", cfg: Config{Type: TypeGitLab, Token: "t"}, want: &GitLabClient{}},
		{name: "unsupported", cfg: Config{Type: "forgejo", Token: "t"}, wantErr: ErrForgeUnsupported},
		{name: "missing token", cfg: Config{Type: TypeGitHub}, wantErr: ErrAuthRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewComparer(tt.cfg)
			if tt.wantErr != nil {
				assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
		})
	}
}

type stubComparer struct {
	repo, base, head string
	files            []string
}

func (s *stubComparer) CompareFiles(_ context.Context, repo, base, head string) ([]string, error) {
	s.repo, s.base, s.head = repo, base, head
	return s.files, nil
}

func TestCompareSource(t *testing.T) {
	stub := &stubComparer{files: []string{"a.txt"}}
	src := CompareSource{Comparer: stub, Repo: "o/r", Base: "b", Head: "h"}

	files, err := src.ChangedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, files)
	assert.Equal(t, "o/r", stub.repo)
	assert.Equal(t, "b", stub.base)
	assert.Equal(t, "h", stub.head)
	assert.Equal(t, "compare:o/r@b...h", src.String())
}
