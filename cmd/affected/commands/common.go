package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/config"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/glob"
	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/metrics"
	"git.home.luguber.info/inful/affected/internal/observability"
	"git.home.luguber.info/inful/affected/internal/output"
)

// Global carries process-level state shared by every command.
type Global struct {
	Logger    *slog.Logger
	RunID     string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
}

// NewGlobal returns a Global wired to the real process.
func NewGlobal(runID string) *Global {
	return &Global{
		Logger:    slog.Default(),
		RunID:     runID,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
	}
}

// CLI definition & global flags.
type CLI struct {
	Projects         string           `help:"Project configuration as JSON or YAML" env:"INPUT_PROJECTS"`
	ProjectsFile     string           `name:"projects-file" help:"File holding the project configuration" type:"path"`
	DescriptorSuffix string           `name:"descriptor-suffix" help:"Path suffix that marks a package descriptor" default:".nuspec" env:"INPUT_DESCRIPTOR_SUFFIX"`
	CaseMode         string           `name:"case" help:"Pattern case sensitivity: host, sensitive or insensitive" default:"host" enum:"host,sensitive,insensitive"`
	IgnoreCase       bool             `name:"ignore-case" help:"Match patterns case-insensitively (same as --case=insensitive)"`
	Format           string           `help:"Stdout format when no CI output file is used: text or json" default:"text" enum:"text,json"`
	MetricsFile      string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile" type:"path"`
	LogLevel         string           `name:"log-level" help:"Log level: debug, info, warn or error" env:"AFFECTED_LOG_LEVEL"`
	Verbose          bool             `short:"v" help:"Enable verbose logging"`
	Version          kong.VersionFlag `name:"version" help:"Show version and exit"`

	GitHub GitHubCmd `cmd:"" name:"github" default:"1" help:"Compare a pull request through the GitHub API (default)"`
	GitLab GitLabCmd `cmd:"" name:"gitlab" help:"Compare a merge request through the GitLab API"`
	Git    GitCmd    `cmd:"" name:"git" help:"Compare two revisions of a local checkout"`
	Files  FilesCmd  `cmd:"" name:"files" help:"Analyze an explicit list of files or a unified diff"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	level, err := config.ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level})).
		With(logfields.RunID(g.RunID))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// Settings resolves the global flags.
func (c *CLI) Settings() (*config.Settings, error) {
	mode, err := glob.ParseCaseMode(c.CaseMode)
	if err != nil {
		return nil, err
	}
	if c.IgnoreCase {
		mode = glob.CaseInsensitive
	}
	level, err := config.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &config.Settings{
		Projects:         c.Projects,
		ProjectsFile:     c.ProjectsFile,
		DescriptorSuffix: c.DescriptorSuffix,
		CaseMode:         mode,
		LogLevel:         level,
		MetricsFile:      c.MetricsFile,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// stdoutSink prints the result in the selected format.
func (c *CLI) stdoutSink(g *Global) (affected.OutputSink, error) {
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return output.Stream{W: g.Stdout, Format: format}, nil
}

// execute loads the project configuration and runs one analysis from source
// to sink. Metrics, when requested, are flushed whatever the outcome.
func execute(ctx context.Context, g *Global, root *CLI, source affected.ChangeSource, sink affected.OutputSink) (err error) {
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if root.MetricsFile != "" {
		prom := metrics.NewPrometheusRecorder(nil)
		rec = prom
		defer func() {
			if werr := prom.WriteTextfile(root.MetricsFile); werr != nil {
				g.Logger.Warn("Failed to write metrics textfile", logfields.Path(root.MetricsFile), logfields.Error(werr))
			}
		}()
	}

	settings, err := root.Settings()
	if err != nil {
		rec.IncOutcome(metrics.OutcomeConfig)
		return err
	}
	catalog, err := settings.LoadCatalog()
	if err != nil {
		rec.IncOutcome(metrics.OutcomeConfig)
		return err
	}

	ctx = observability.WithSource(ctx, describe(source))
	observability.InfoContext(ctx, "Starting analysis", logfields.Count(len(catalog)))

	_, err = affected.Run(ctx, source, sink, catalog, affected.Options{
		DescriptorSuffix: settings.DescriptorSuffix,
		CaseMode:         settings.CaseMode,
		Recorder:         rec,
		Logger:           g.Logger,
	})
	return err
}

func describe(source affected.ChangeSource) string {
	if s, ok := source.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", source)
}

func lookup(g *Global, key string) string {
	if g.LookupEnv == nil {
		return ""
	}
	v, _ := g.LookupEnv(key)
	return v
}

// usageError reports conflicting or missing command arguments.
func usageError(msg string) error {
	return errors.ValidationError(msg).Build()
}
