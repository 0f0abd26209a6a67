package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryDependency represents project graph errors such as cycles.
	CategoryDependency ErrorCategory = "dependency"

	// CategoryNetwork represents external system integration errors.
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"
	CategoryForge   ErrorCategory = "forge"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal" // Stops execution completely
	SeverityError ErrorSeverity = "error" // Fails the current operation
)

// RetryStrategy records whether a caller could reasonably try again.
// affected itself never retries; the strategy only feeds logging.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"      // Permanent failure
	RetryBackoff    RetryStrategy = "backoff"    // Transient, worth re-running the job
	RetryRateLimit  RetryStrategy = "rate_limit" // Retry after rate limit window
	RetryUserAction RetryStrategy = "user"       // Requires user intervention
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}
