// Package project defines the typed project catalog that change detection and
// dependency ordering operate on, and loads it from the JSON or YAML blob a CI
// job supplies.
package project
