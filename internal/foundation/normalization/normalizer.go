// Package normalization maps loosely typed flag and environment values onto
// enum types.
package normalization

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	name         string
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// name identifies the setting in error messages. The keys are normalized
// using defaultNormalization.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		normalizedKey := defaultNormalization(k)
		normalized[normalizedKey] = v
		validKeys = append(validKeys, normalizedKey)
	}

	// Sort keys for consistent error messages
	sort.Strings(validKeys)

	return &Normalizer[T]{
		name:         name,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// NormalizeWithError converts a string to the enum type. An empty string
// yields the default; any other unrecognized value is a validation error.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	cleaned := defaultNormalization(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if value, exists := n.validValues[cleaned]; exists {
		return value, nil
	}

	var zero T
	return zero, errors.ValidationError("invalid "+n.name).
		WithContext("value", raw).
		WithContext("valid", strings.Join(n.validKeys, ",")).
		Build()
}

func defaultNormalization(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
