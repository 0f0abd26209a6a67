// Package config resolves the settings of one affected invocation from
// flags, the process environment and optional .env files.
package config
