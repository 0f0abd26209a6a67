package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/affected/cmd/affected/commands"
	"git.home.luguber.info/inful/affected/internal/ci"
	"git.home.luguber.info/inful/affected/internal/config"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], commands.NewGlobal(uuid.NewString())))
}

func run(args []string, global *commands.Global) int {
	// .env files must be in the environment before kong resolves env bindings.
	if _, err := config.LoadEnvFiles(config.DefaultEnvFiles...); err != nil {
		return report(global, false, err)
	}

	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("affected"),
		kong.Description("Detect which projects a change touches and order them by dependency."),
		kong.UsageOnError(),
		kong.Writers(global.Stdout, global.Stderr),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err != nil {
		return report(global, false, errors.InternalError("failed to build command line").WithCause(err).Build())
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		if errors.IsClassified(err) {
			return report(global, cli.Verbose, err)
		}
		_, _ = fmt.Fprintln(global.Stderr, "Error:", err)
		return errors.ExitUsage
	}
	return report(global, cli.Verbose, kctx.Run(global, cli))
}

// report prints err, annotates the workflow run when inside GitHub Actions
// and returns the exit code for its category.
func report(g *commands.Global, verbose bool, err error) int {
	if err == nil {
		return errors.ExitOK
	}
	adapter := errors.NewCLIErrorAdapter(verbose, g.Logger).WithOutput(g.Stderr)
	if v, _ := g.LookupEnv("GITHUB_ACTIONS"); v == "true" {
		ci.Annotate(g.Stdout, "error", adapter.FormatError(err))
	}
	return adapter.Report(err)
}
