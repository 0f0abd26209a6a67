package output

import (
	"context"
	"strings"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/observability"
)

// Dotenv writes the result as a dotenv file, suitable for a GitLab
// artifacts:reports:dotenv report. Keys are the upper-cased output names.
type Dotenv struct {
	Path string
}

// Write implements affected.OutputSink. The file is replaced.
func (d Dotenv) Write(ctx context.Context, res *affected.Result) error {
	vals, err := values(res)
	if err != nil {
		return err
	}
	env := make(map[string]string, len(vals))
	for _, v := range vals {
		env[strings.ToUpper(v.key)] = v.val
	}
	if err := godotenv.Write(env, d.Path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write dotenv report").
			WithContext("path", d.Path).
			Build()
	}
	observability.DebugContext(ctx, "Wrote dotenv report", logfields.Path(d.Path))
	return nil
}
