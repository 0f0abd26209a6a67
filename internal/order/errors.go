package order

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// ErrCycle matches any *CycleError via errors.Is.
var ErrCycle = errors.DependencyError("circular dependency detected").Build()

// CycleError reports a dependency cycle among modified projects.
type CycleError struct {
	// Project is the node that was reached again while still on the active path.
	Project string
	// Path is the active chain from Project back to itself.
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("circular dependency detected involving %s", e.Project)
	}
	return fmt.Sprintf("circular dependency detected involving %s (%s)", e.Project, strings.Join(e.Path, " -> "))
}

// Unwrap exposes the classified form so CLI error handling maps cycles to
// their own exit code.
func (e *CycleError) Unwrap() error {
	return ErrCycle.
		WithContext("project", e.Project).
		WithContext("path", strings.Join(e.Path, " -> "))
}
