package project

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/glob"
)

// ErrEmptyCatalog is returned when the configuration defines no projects.
var ErrEmptyCatalog = errors.ConfigError("project configuration defines no projects").Build()

var validate = validator.New()

// record is the wire shape of one project entry. Pointers distinguish a
// missing key from an explicitly empty list.
type record struct {
	Patterns     *[]string `json:"patterns" yaml:"patterns"`
	Dependencies *[]string `json:"dependencies" yaml:"dependencies"`
	Path         *string   `json:"path" yaml:"path"`
}

// Parse decodes and validates a project configuration blob. JSON objects are
// decoded as JSON; anything else is decoded as YAML.
func Parse(data []byte) (Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.ConfigError("project configuration is empty").Build()
	}

	var raw map[string]record
	var err error
	if trimmed[0] == '{' {
		err = decodeJSON(trimmed, &raw)
	} else {
		err = decodeYAML(trimmed, &raw)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "malformed project configuration").Fatal().Build()
	}
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}

	catalog := make(Catalog, len(raw))
	for _, id := range slices.Sorted(maps.Keys(raw)) {
		p, err := raw[id].toProject(id)
		if err != nil {
			return nil, err
		}
		catalog[id] = p
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadFile reads and parses a project configuration file.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "read project configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

func decodeJSON(data []byte, out *map[string]record) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after top-level object")
	}
	return nil
}

func decodeYAML(data []byte, out *map[string]record) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func (r record) toProject(id string) (Project, error) {
	missing := func(field string) error {
		return errors.ConfigError("project is missing a required field").
			WithContext("project", id).
			WithContext("field", field).
			Build()
	}
	switch {
	case r.Patterns == nil:
		return Project{}, missing("patterns")
	case r.Dependencies == nil:
		return Project{}, missing("dependencies")
	case r.Path == nil:
		return Project{}, missing("path")
	}
	return Project{
		ID:           id,
		Patterns:     *r.Patterns,
		Dependencies: *r.Dependencies,
		Path:         *r.Path,
	}, nil
}

// Validate checks every project's fields and patterns. Projects are checked
// in identifier order so the first reported problem is stable.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	for _, id := range c.IDs() {
		p := c[id]
		if p.ID != id {
			return errors.ValidationError("project id does not match its key").
				WithContext("project", id).
				WithContext("id", p.ID).
				Build()
		}
		if strings.TrimSpace(id) == "" {
			return errors.ValidationError("project id must not be blank").Build()
		}
		if err := validate.Struct(p); err != nil {
			return fieldError(id, err)
		}
		for _, pattern := range p.Patterns {
			if strings.TrimSpace(pattern) == "" {
				return errors.ValidationError("project pattern must not be blank").
					WithContext("project", id).
					Build()
			}
			// Folding can turn a valid class into a different one, so both
			// forms have to compile.
			for _, mode := range []glob.CaseMode{glob.CaseSensitive, glob.CaseInsensitive} {
				if _, err := glob.Compile(pattern, mode); err != nil {
					return errors.WrapError(err, errors.CategoryValidation, "invalid project pattern").
						Fatal().
						WithContext("project", id).
						WithContext("pattern", pattern).
						Build()
				}
			}
		}
	}
	return nil
}

func fieldError(id string, err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field, _, _ := strings.Cut(fe.Field(), "[")
		return errors.ValidationError("invalid project field").
			WithContext("project", id).
			WithContext("field", strings.ToLower(field)).
			WithContext("rule", fe.Tag()).
			Build()
	}
	return errors.WrapError(err, errors.CategoryValidation, "invalid project").
		Fatal().
		WithContext("project", id).
		Build()
}
