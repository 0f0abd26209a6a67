// Package ci reads the pull request context a CI system hands to a job
// and writes workflow annotations back to it.
package ci
