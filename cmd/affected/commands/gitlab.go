package commands

import (
	"context"

	"git.home.luguber.info/inful/affected/internal/ci"
	"git.home.luguber.info/inful/affected/internal/forge"
	"git.home.luguber.info/inful/affected/internal/output"
)

// GitLabCmd implements 'affected gitlab'.
type GitLabCmd struct {
	Token   string `help:"Token for the GitLab API" env:"GITLAB_TOKEN"`
	APIURL  string `name:"api-url" help:"GitLab API base URL" default:"https://gitlab.com/api/v4" env:"CI_API_V4_URL"`
	Project string `help:"Project id or full path (defaults to CI_PROJECT_ID)"`
	Base    string `help:"Base revision (defaults to CI_MERGE_REQUEST_DIFF_BASE_SHA)"`
	Head    string `help:"Head revision (defaults to CI_COMMIT_SHA)"`
	Dotenv  string `help:"Dotenv report to write" default:"affected.env" type:"path"`
}

func (c *GitLabCmd) Run(g *Global, root *CLI) error {
	overrides := map[string]string{
		"CI_PROJECT_ID":                  c.Project,
		"CI_MERGE_REQUEST_DIFF_BASE_SHA": c.Base,
		"CI_COMMIT_SHA":                  c.Head,
	}
	mr, err := ci.MergeRequestFromEnv(func(key string) (string, bool) {
		if v := overrides[key]; v != "" {
			return v, true
		}
		v := lookup(g, key)
		return v, v != ""
	})
	if err != nil {
		return err
	}

	client, err := forge.NewComparer(forge.Config{Type: forge.TypeGitLab, APIURL: c.APIURL, Token: c.Token})
	if err != nil {
		return err
	}
	source := forge.CompareSource{Comparer: client, Repo: mr.Repository, Base: mr.BaseSHA, Head: mr.HeadSHA}
	return execute(context.Background(), g, root, source, output.Dotenv{Path: c.Dotenv})
}
