package config

import (
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/foundation/normalization"
	"git.home.luguber.info/inful/affected/internal/glob"
	"git.home.luguber.info/inful/affected/internal/project"
)

// Settings are the resolved inputs shared by every command.
type Settings struct {
	// Projects is the inline project configuration (INPUT_PROJECTS).
	Projects string `validate:"required_without=ProjectsFile,excluded_with=ProjectsFile"`
	// ProjectsFile names a JSON or YAML file holding the project configuration.
	ProjectsFile     string `validate:"required_without=Projects"`
	DescriptorSuffix string `validate:"required"`
	CaseMode         glob.CaseMode
	LogLevel         slog.Level
	MetricsFile      string
}

var validate = validator.New()

// Validate checks that exactly one project source is configured and that
// the descriptor suffix is set.
func (s *Settings) Validate() error {
	s.Projects = strings.TrimSpace(s.Projects)
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.InternalError("settings validation failed").WithCause(err).Build()
	}
	fe := verrs[0]
	msg := "invalid setting"
	switch fe.Tag() {
	case "required", "required_without":
		msg = "missing required setting"
	case "excluded_with":
		msg = "conflicting settings"
	}
	return errors.ConfigError(msg).
		Fatal().
		WithContext("field", fe.Field()).
		WithContext("rule", fe.Tag()).
		Build()
}

// LoadCatalog parses the configured project source.
func (s *Settings) LoadCatalog() (project.Catalog, error) {
	if s.ProjectsFile != "" {
		return project.LoadFile(s.ProjectsFile)
	}
	return project.Parse([]byte(s.Projects))
}

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

// ParseLogLevel maps AFFECTED_LOG_LEVEL values to slog levels. Empty is info.
func ParseLogLevel(raw string) (slog.Level, error) {
	return logLevelNormalizer.NormalizeWithError(raw)
}
