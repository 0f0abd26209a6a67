package affected

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// StaticSource serves a fixed list of changed files.
type StaticSource []string

// ChangedFiles implements ChangeSource.
func (s StaticSource) ChangedFiles(context.Context) ([]string, error) {
	return []string(s), nil
}

func (s StaticSource) String() string { return "static" }

// ListFileSource reads newline-separated paths from a file, or from Stdin
// when Path is "-". Empty lines are skipped.
type ListFileSource struct {
	Path  string
	Stdin io.Reader
}

// ChangedFiles implements ChangeSource.
func (s ListFileSource) ChangedFiles(context.Context) ([]string, error) {
	if s.Path == "-" {
		in := s.Stdin
		if in == nil {
			in = os.Stdin
		}
		return ReadList(in)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open changed file list").
			WithContext("path", s.Path).
			Build()
	}
	defer func() { _ = f.Close() }()
	return ReadList(f)
}

func (s ListFileSource) String() string { return "list:" + s.Path }

// ReadList parses one path per line. Only a CRLF line ending is removed;
// any other whitespace is part of the path.
func ReadList(r io.Reader) ([]string, error) {
	var files []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read changed file list").Build()
	}
	return files, nil
}
