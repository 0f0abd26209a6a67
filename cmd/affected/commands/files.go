package commands

import (
	"context"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/diffsource"
)

// FilesCmd implements 'affected files'.
type FilesCmd struct {
	Paths []string `arg:"" optional:"" help:"Changed file paths"`
	From  string   `help:"Read newline-separated paths from a file ('-' for stdin)"`
	Diff  string   `help:"Read paths from a unified diff ('-' for stdin)"`
}

func (c *FilesCmd) Run(g *Global, root *CLI) error {
	source, err := c.source(g)
	if err != nil {
		return err
	}
	sink, err := root.stdoutSink(g)
	if err != nil {
		return err
	}
	return execute(context.Background(), g, root, source, sink)
}

func (c *FilesCmd) source(g *Global) (affected.ChangeSource, error) {
	given := 0
	for _, set := range []bool{len(c.Paths) > 0, c.From != "", c.Diff != ""} {
		if set {
			given++
		}
	}
	if given > 1 {
		return nil, usageError("use only one of file arguments, --from or --diff")
	}

	switch {
	case c.Diff != "":
		return diffsource.Source{Path: c.Diff, Stdin: g.Stdin}, nil
	case c.From != "":
		return affected.ListFileSource{Path: c.From, Stdin: g.Stdin}, nil
	default:
		return affected.StaticSource(c.Paths), nil
	}
}
