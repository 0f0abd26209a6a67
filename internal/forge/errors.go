package forge

import (
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

var (
	// ErrForgeUnsupported signals that the forge type is not supported.
	ErrForgeUnsupported = errors.ConfigError("unsupported forge type").Build()

	// ErrAuthRequired signals that no token was configured for the forge client.
	ErrAuthRequired = errors.ConfigError("authentication token required for forge client").Build()

	// ErrInvalidRepository signals a repository reference the forge cannot address.
	ErrInvalidRepository = errors.ConfigError("invalid repository reference").Build()
)
