package git

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/observability"
)

// Source lists the files changed between Base and Head in the repository at
// RepoPath. With MergeBase set the comparison starts at the merge base of the
// two revisions, matching a pull request's three-dot diff.
type Source struct {
	RepoPath  string
	Base      string
	Head      string
	MergeBase bool
}

// ChangedFiles implements the analysis change source contract.
func (s Source) ChangedFiles(ctx context.Context) ([]string, error) {
	return ChangedFiles(ctx, s.RepoPath, s.Base, s.Head, s.MergeBase)
}

func (s Source) String() string {
	sep := ".."
	if s.MergeBase {
		sep = "..."
	}
	return "git:" + s.Base + sep + s.Head
}

// ChangedFiles returns every path added, modified, deleted or renamed between
// base and head, sorted. Renames contribute both the old and the new path.
func ChangedFiles(ctx context.Context, repoPath, base, head string, mergeBase bool) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", repoPath)
	}

	baseCommit, err := resolveCommit(repo, base)
	if err != nil {
		return nil, err
	}
	headCommit, err := resolveCommit(repo, head)
	if err != nil {
		return nil, err
	}

	from := baseCommit
	if mergeBase {
		bases, mbErr := baseCommit.MergeBase(headCommit)
		if mbErr != nil {
			return nil, ClassifyGitError(mbErr, "merge-base", base+"..."+head)
		}
		if len(bases) > 0 {
			from = bases[0]
		} else {
			observability.WarnContext(ctx, "No merge base found; comparing revisions directly",
				logfields.Base(base), logfields.Head(head))
		}
	}

	fromTree, err := from.Tree()
	if err != nil {
		return nil, ClassifyGitError(err, "tree", from.Hash.String())
	}
	toTree, err := headCommit.Tree()
	if err != nil {
		return nil, ClassifyGitError(err, "tree", headCommit.Hash.String())
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, ClassifyGitError(err, "diff", base+".."+head)
	}

	seen := make(map[string]struct{}, len(changes)*2)
	for _, ch := range changes {
		for _, name := range []string{ch.From.Name, ch.To.Name} {
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	files := make([]string, 0, len(seen))
	for name := range seen {
		files = append(files, name)
	}
	sort.Strings(files)

	observability.DebugContext(ctx, "Computed local diff",
		logfields.Path(repoPath),
		logfields.Base(from.Hash.String()),
		logfields.Head(headCommit.Hash.String()),
		logfields.Count(len(files)))
	return files, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, ClassifyGitError(err, "resolve", rev)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, ClassifyGitError(err, "commit", rev)
	}
	return commit, nil
}
