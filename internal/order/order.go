package order

import (
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/project"
	"git.home.luguber.info/inful/affected/internal/util/sets"
)

type state uint8

const (
	unvisited state = iota
	visiting
	done
)

// frame is one entry on the traversal stack: a project and the index of the
// next modified dependency to examine.
type frame struct {
	id   string
	deps []string
	next int
}

// Order returns the modified projects so that every modified dependency of a
// project precedes it. Roots are seeded in identifier order, which makes the
// result reproducible; siblings without a mutual dependency carry no other
// ordering guarantee.
func Order(catalog project.Catalog, modified sets.Set[string]) ([]string, error) {
	states := make(map[string]state, modified.Len())
	ordered := make([]string, 0, modified.Len())
	var stack []frame

	push := func(id string) error {
		p, ok := catalog[id]
		if !ok {
			return errors.ConfigError("modified project is not defined in the project configuration").
				WithContext("project", id).
				Build()
		}
		deps := make([]string, 0, len(p.Dependencies))
		for _, dep := range p.Dependencies {
			if modified.Has(dep) {
				deps = append(deps, dep)
			}
		}
		states[id] = visiting
		stack = append(stack, frame{id: id, deps: deps})
		return nil
	}

	for _, root := range modified.Sorted() {
		if states[root] == done {
			continue
		}
		if err := push(root); err != nil {
			return nil, err
		}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.deps) {
				states[top.id] = done
				ordered = append(ordered, top.id)
				stack = stack[:len(stack)-1]
				continue
			}
			dep := top.deps[top.next]
			top.next++
			switch states[dep] {
			case done:
			case visiting:
				return nil, &CycleError{Project: dep, Path: cyclePath(stack, dep)}
			default:
				if err := push(dep); err != nil {
					return nil, err
				}
			}
		}
	}
	return ordered, nil
}

// cyclePath returns the active chain starting at id and closing back on it.
func cyclePath(stack []frame, id string) []string {
	start := 0
	for i, f := range stack {
		if f.id == id {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return append(path, id)
}
