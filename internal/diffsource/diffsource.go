// Package diffsource lists the files touched by a unified diff, such as the
// output of `git diff` or a downloaded pull request patch.
package diffsource

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

const devNull = "/dev/null"

// Source reads a unified diff from Path, or from Stdin when Path is "-".
type Source struct {
	Path  string
	Stdin io.Reader
}

// ChangedFiles implements the analysis change source contract.
func (s Source) ChangedFiles(context.Context) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if s.Path == "-" {
		in := s.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(s.Path)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read diff").
			WithContext("path", s.Path).
			Build()
	}
	return Parse(data)
}

func (s Source) String() string { return "diff:" + s.Path }

// Parse returns the paths named by every file section of a multi-file diff,
// in order of appearance. Renames contribute both names; the /dev/null side
// of additions and deletions is dropped.
func Parse(data []byte) ([]string, error) {
	fileDiffs, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid unified diff").Build()
	}

	seen := make(map[string]struct{}, len(fileDiffs)*2)
	files := make([]string, 0, len(fileDiffs)*2)
	for _, fd := range fileDiffs {
		orig, next := cleanName(fd.OrigName), cleanName(fd.NewName)
		if hasPrefix(orig, "a/") && hasPrefix(next, "b/") {
			orig = strings.TrimPrefix(orig, "a/")
			next = strings.TrimPrefix(next, "b/")
		}
		for _, name := range []string{orig, next} {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			files = append(files, name)
		}
	}
	return files, nil
}

// cleanName drops the /dev/null side and a CR left by CRLF line endings.
func cleanName(name string) string {
	name = strings.TrimSuffix(name, "\r")
	if name == devNull {
		return ""
	}
	return name
}

// hasPrefix reports whether name carries git's default side prefix. An
// absent side does not rule the prefix out.
func hasPrefix(name, prefix string) bool {
	return name == "" || strings.HasPrefix(name, prefix)
}
