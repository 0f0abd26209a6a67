package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/foundation/normalization"
)

// Format selects how Stream renders a result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var formatNormalizer = normalization.NewNormalizer("output format", map[string]Format{
	"text": FormatText,
	"json": FormatJSON,
}, FormatText)

// ParseFormat validates a --format value. Empty selects text.
func ParseFormat(s string) (Format, error) {
	return formatNormalizer.NormalizeWithError(s)
}

// Stream prints the result to a writer, usually stdout.
type Stream struct {
	W      io.Writer
	Format Format
}

// Write implements affected.OutputSink.
func (s Stream) Write(_ context.Context, res *affected.Result) error {
	var err error
	switch s.Format {
	case FormatJSON:
		enc := json.NewEncoder(s.W)
		enc.SetIndent("", "  ")
		err = enc.Encode(res)
	default:
		var vals []value
		if vals, err = values(res); err != nil {
			return err
		}
		for _, v := range vals {
			if _, err = fmt.Fprintf(s.W, "%s=%s\n", v.key, v.val); err != nil {
				break
			}
		}
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write result").Build()
	}
	return nil
}
