// Package detect maps changed file paths to the projects whose patterns
// match them.
package detect

import (
	"log/slog"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/glob"
	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/project"
	"git.home.luguber.info/inful/affected/internal/util/sets"
)

// Detector holds the compiled patterns of a project catalog.
type Detector struct {
	projects []compiledProject
	logger   *slog.Logger
}

type compiledProject struct {
	id       string
	patterns []*glob.Pattern
}

// Option configures a Detector.
type Option func(*Detector, *settings)

type settings struct {
	caseMode glob.CaseMode
}

// WithCaseMode overrides the host case-sensitivity convention.
func WithCaseMode(mode glob.CaseMode) Option {
	return func(_ *Detector, s *settings) { s.caseMode = mode }
}

// WithLogger sets the logger used for debug match tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector, _ *settings) { d.logger = logger }
}

// New compiles every project's patterns. Projects are kept in identifier
// order so debug output is stable.
func New(catalog project.Catalog, opts ...Option) (*Detector, error) {
	d := &Detector{logger: slog.Default()}
	s := settings{caseMode: glob.CaseHost}
	for _, opt := range opts {
		opt(d, &s)
	}

	for _, id := range catalog.IDs() {
		p := catalog[id]
		cp := compiledProject{id: id, patterns: make([]*glob.Pattern, 0, len(p.Patterns))}
		for _, raw := range p.Patterns {
			compiled, err := glob.Compile(raw, s.caseMode)
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryValidation, "invalid project pattern").
					Fatal().
					WithContext("project", id).
					WithContext("pattern", raw).
					Build()
			}
			cp.patterns = append(cp.patterns, compiled)
		}
		d.projects = append(d.projects, cp)
	}
	return d, nil
}

// Detect returns the identifiers of every project with at least one pattern
// matching at least one changed file. Duplicate and unordered input is fine.
func (d *Detector) Detect(changedFiles []string) sets.Set[string] {
	modified := sets.New[string]()
	if len(changedFiles) == 0 {
		return modified
	}
	for _, cp := range d.projects {
		if file, pattern, ok := cp.firstMatch(changedFiles); ok {
			modified.Add(cp.id)
			d.logger.Debug("Project modified",
				logfields.Project(cp.id),
				logfields.File(file),
				logfields.Pattern(pattern.String()))
		}
	}
	return modified
}

func (cp compiledProject) firstMatch(files []string) (string, *glob.Pattern, bool) {
	for _, file := range files {
		for _, pattern := range cp.patterns {
			if pattern.Match(file) {
				return file, pattern, true
			}
		}
	}
	return "", nil, false
}

// Detect is a convenience wrapper that compiles the catalog and runs a single detection.
func Detect(catalog project.Catalog, changedFiles []string, opts ...Option) (sets.Set[string], error) {
	d, err := New(catalog, opts...)
	if err != nil {
		return nil, err
	}
	return d.Detect(changedFiles), nil
}
