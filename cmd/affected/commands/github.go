package commands

import (
	"context"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/ci"
	"git.home.luguber.info/inful/affected/internal/forge"
	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/output"
)

// GitHubCmd implements 'affected github'.
type GitHubCmd struct {
	Token      string `help:"Token for the GitHub API" env:"INPUT_GITHUB_TOKEN,GITHUB_TOKEN"`
	APIURL     string `name:"api-url" help:"GitHub API base URL" default:"https://api.github.com" env:"GITHUB_API_URL"`
	EventPath  string `name:"event-path" help:"Pull request event payload" env:"GITHUB_EVENT_PATH" type:"path"`
	Repository string `help:"Repository as owner/name (defaults to the event payload)" env:"GITHUB_REPOSITORY"`
	Base       string `help:"Base revision (defaults to the event payload)"`
	Head       string `help:"Head revision (defaults to the event payload)"`
	Output     string `help:"Step output file" env:"GITHUB_OUTPUT" type:"path"`
}

func (c *GitHubCmd) Run(g *Global, root *CLI) error {
	base, head, repo := c.Base, c.Head, c.Repository
	if base == "" || head == "" {
		pr, err := ci.ReadPullRequestEvent(c.EventPath)
		if err != nil {
			return err
		}
		if base == "" {
			base = pr.BaseSHA
		}
		if head == "" {
			head = pr.HeadSHA
		}
		if repo == "" {
			repo = pr.Repository
		}
	}
	if repo == "" {
		return usageError("repository is not set; pass --repository or set GITHUB_REPOSITORY")
	}

	client, err := forge.NewComparer(forge.Config{Type: forge.TypeGitHub, APIURL: c.APIURL, Token: c.Token})
	if err != nil {
		return err
	}
	source := forge.CompareSource{Comparer: client, Repo: repo, Base: base, Head: head}

	var sink affected.OutputSink
	if c.Output != "" {
		sink = output.NewGitHubOutput(c.Output)
	} else {
		g.Logger.Debug("GITHUB_OUTPUT not set; printing result", logfields.Repository(repo))
		if sink, err = root.stdoutSink(g); err != nil {
			return err
		}
	}
	return execute(context.Background(), g, root, source, sink)
}
