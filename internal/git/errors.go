package git

import (
	"strings"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op, target string) error {
	if err == nil {
		return nil
	}

	// Already classified
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())

	builder := errors.GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("target", target)

	switch {
	case strings.Contains(l, "repository does not exist") || strings.Contains(l, "repository not exists"):
		builder.WithCategory(errors.CategoryConfig)
	case strings.Contains(l, "reference not found") || strings.Contains(l, "object not found") || strings.Contains(l, "revision"):
		builder.WithCategory(errors.CategoryNotFound).UserAction()
	case strings.Contains(l, "shallow"):
		builder.WithContext("shallow", true).UserAction()
	}

	return builder.Build()
}
