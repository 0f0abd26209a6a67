// Package errors provides the classified error primitives used across affected.
//
// Every failure in an invocation is terminal, so classification is about
// presentation rather than recovery: the category picks the process exit code
// and the context map carries the identifiers an operator needs to diagnose
// the failure (project id, status code, revision, file).
//
// Example usage:
//
//	err := errors.ForgeError("compare request failed").
//		WithCause(cause).
//		WithContext("status", resp.StatusCode).
//		Build()
package errors
