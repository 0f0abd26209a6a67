package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

type testRepo struct {
	t    *testing.T
	path string
	repo *git.Repository
	wt   *git.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repo")
	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, path: path, repo: repo, wt: wt}
}

func (r *testRepo) write(name, content string) {
	r.t.Helper()
	full := filepath.Join(r.path, filepath.FromSlash(name))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o600))
	_, err := r.wt.Add(name)
	require.NoError(r.t, err)
}

func (r *testRepo) remove(name string) {
	r.t.Helper()
	_, err := r.wt.Remove(name)
	require.NoError(r.t, err)
}

func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	h, err := r.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(r.t, err)
	return h
}

func TestChangedFiles_Linear(t *testing.T) {
	r := newTestRepo(t)
	r.write("a/x.txt", "one")
	r.write("b/y.txt", "renamed later")
	r.write("untouched.md", "static")
	c1 := r.commit("initial")

	r.write("a/x.txt", "two")
	r.remove("b/y.txt")
	r.write("b/z.txt", "renamed later")
	r.write("c/new.txt", "fresh")
	c2 := r.commit("change")

	files, err := ChangedFiles(context.Background(), r.path, c1.String(), c2.String(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.txt", "b/y.txt", "b/z.txt", "c/new.txt"}, files)

	files, err = Source{RepoPath: r.path, Base: "HEAD~1", Head: "HEAD"}.ChangedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.txt", "b/y.txt", "b/z.txt", "c/new.txt"}, files)
}

func TestChangedFiles_SameRevision(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "1")
	c1 := r.commit("initial")

	files, err := ChangedFiles(context.Background(), r.path, c1.String(), c1.String(), true)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestChangedFiles_MergeBase(t *testing.T) {
	r := newTestRepo(t)
	r.write("shared.txt", "base")
	c1 := r.commit("initial")

	r.write("main-only.txt", "main")
	mainHead := r.commit("main work")

	require.NoError(t, r.wt.Checkout(&git.CheckoutOptions{
		Hash:   c1,
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
		Force:  true,
	}))
	r.write("feature.txt", "feature")
	featureHead := r.commit("feature work")

	files, err := ChangedFiles(context.Background(), r.path, mainHead.String(), featureHead.String(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature.txt"}, files)

	files, err = ChangedFiles(context.Background(), r.path, mainHead.String(), featureHead.String(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature.txt", "main-only.txt"}, files)
}

func TestChangedFiles_Errors(t *testing.T) {
	_, err := ChangedFiles(context.Background(), t.TempDir(), "a", "b", true)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)

	r := newTestRepo(t)
	r.write("a.txt", "1")
	r.commit("initial")

	_, err = ChangedFiles(context.Background(), r.path, "does-not-exist", "HEAD", true)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound), "got %v", err)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "git:main...HEAD", Source{Base: "main", Head: "HEAD", MergeBase: true}.String())
	assert.Equal(t, "git:main..HEAD", Source{Base: "main", Head: "HEAD"}.String())
}

func TestClassifyGitError(t *testing.T) {
	assert.NoError(t, ClassifyGitError(nil, "op", "x"))

	already := errors.ConfigError("bad").Build()
	assert.Same(t, already, ClassifyGitError(already, "op", "x"))

	err := ClassifyGitError(plumbing.ErrReferenceNotFound, "resolve", "main")
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryNotFound, ce.Category())
	op, _ := ce.Context().GetString("op")
	assert.Equal(t, "resolve", op)

	err = ClassifyGitError(git.ErrRepositoryNotExists, "open", "/tmp")
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
