package output

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/observability"
)

// GitHubOutput appends step outputs to the file named by GITHUB_OUTPUT.
type GitHubOutput struct {
	Path string
	// delimiter overrides the random heredoc delimiter (tests).
	delimiter func() string
}

// NewGitHubOutput creates a sink for the given output file.
func NewGitHubOutput(path string) *GitHubOutput {
	return &GitHubOutput{Path: path}
}

// Write implements affected.OutputSink. All values are rendered before the
// file is touched and appended in one write.
func (g *GitHubOutput) Write(ctx context.Context, res *affected.Result) error {
	if g.Path == "" {
		return errors.ConfigError("GITHUB_OUTPUT is not set").Build()
	}
	vals, err := values(res)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, v := range vals {
		b.WriteString(g.format(v.key, v.val))
	}

	f, err := os.OpenFile(g.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open output file").
			WithContext("path", g.Path).
			Build()
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
			WithContext("path", g.Path).
			Build()
	}
	if err := f.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to close output file").
			WithContext("path", g.Path).
			Build()
	}

	observability.DebugContext(ctx, "Wrote step outputs", logfields.Path(g.Path), logfields.Count(len(vals)))
	return nil
}

// format renders one key. Values spanning lines use the heredoc form with a
// delimiter that cannot occur in the value.
func (g *GitHubOutput) format(key, val string) string {
	if !strings.ContainsAny(val, "\r\n") {
		return key + "=" + val + "\n"
	}
	newDelimiter := g.delimiter
	if newDelimiter == nil {
		newDelimiter = func() string { return "ghadelimiter_" + uuid.NewString() }
	}
	delim := newDelimiter()
	for strings.Contains(val, delim) {
		delim = newDelimiter()
	}
	return key + "<<" + delim + "\n" + val + "\n" + delim + "\n"
}
