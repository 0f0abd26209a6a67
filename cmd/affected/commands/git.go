package commands

import (
	"context"

	"git.home.luguber.info/inful/affected/internal/git"
)

// GitCmd implements 'affected git'.
type GitCmd struct {
	Base   string `required:"" help:"Base revision"`
	Head   string `default:"HEAD" help:"Head revision"`
	Repo   string `default:"." help:"Path inside the local checkout" type:"path"`
	TwoDot bool   `name:"two-dot" help:"Diff the revisions directly instead of from their merge base"`
}

func (c *GitCmd) Run(g *Global, root *CLI) error {
	sink, err := root.stdoutSink(g)
	if err != nil {
		return err
	}
	source := git.Source{RepoPath: c.Repo, Base: c.Base, Head: c.Head, MergeBase: !c.TwoDot}
	return execute(context.Background(), g, root, source, sink)
}
