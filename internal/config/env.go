package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/logfields"
)

// DefaultEnvFiles are loaded, when present, before flags are parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads each existing file into the process environment.
// Variables that are already set are never overridden, so the real CI
// environment always wins. It returns the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, errors.WrapError(err, errors.CategoryConfig, "failed to load env file").
				WithContext("path", p).
				Build()
		}
		slog.Debug("Loaded environment file", logfields.Path(p))
		loaded = append(loaded, p)
	}
	return loaded, nil
}
