package forge

import (
	"context"
	"net/http"
)

// Type identifies a hosted forge API flavour.
type Type string

const (
	TypeGitHub Type = "github"
	TypeGitLab Type = "gitlab"
)

// Config describes how to reach a forge API.
type Config struct {
	Type   Type
	APIURL string // empty selects the public default for Type
	Token  string
	// HTTPClient overrides the default 30s-timeout client (tests).
	HTTPClient *http.Client
}

// Comparer lists the paths touched between two revisions of a repository.
//
// repo is "owner/name" on GitHub and the numeric id or full path of the
// project on GitLab. Implementations never retry; any non-success response
// is returned as a classified error carrying the status code.
type Comparer interface {
	CompareFiles(ctx context.Context, repo, base, head string) ([]string, error)
}

// CompareSource adapts a Comparer to a change source for one pull request.
type CompareSource struct {
	Comparer Comparer
	Repo     string
	Base     string
	Head     string
}

// ChangedFiles implements the analysis change source contract.
func (s CompareSource) ChangedFiles(ctx context.Context) ([]string, error) {
	return s.Comparer.CompareFiles(ctx, s.Repo, s.Base, s.Head)
}

func (s CompareSource) String() string {
	return "compare:" + s.Repo + "@" + s.Base + "..." + s.Head
}
