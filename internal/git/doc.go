// Package git lists the paths touched between two revisions of a local
// checkout using go-git, so change detection works without a forge API.
package git
