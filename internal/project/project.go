package project

import (
	"maps"
	"slices"
	"strings"
)

// DefaultDescriptorSuffix marks a project whose path is a NuGet package descriptor.
const DefaultDescriptorSuffix = ".nuspec"

// Project is one independently buildable unit in the repository.
type Project struct {
	ID           string   `validate:"required"`
	Patterns     []string `validate:"dive,required"`
	Dependencies []string `validate:"dive,required"`
	Path         string
}

// Catalog maps project identifiers to their definitions.
type Catalog map[string]Project

// IDs returns the project identifiers in ascending order.
func (c Catalog) IDs() []string {
	return slices.Sorted(maps.Keys(c))
}

// HasDescriptor reports whether any of the given projects has a path ending
// in suffix. Identifiers missing from the catalog are ignored.
func (c Catalog) HasDescriptor(ids []string, suffix string) bool {
	if suffix == "" {
		return false
	}
	for _, id := range ids {
		if p, ok := c[id]; ok && strings.HasSuffix(p.Path, suffix) {
			return true
		}
	}
	return false
}
