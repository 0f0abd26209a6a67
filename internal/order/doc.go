// Package order produces a build order for the modified subset of a project
// catalog.
//
// Order runs a depth-first post-order traversal seeded once per modified
// project. Only dependencies that are themselves modified are followed;
// anything else is assumed to be built already. Every node moves through
// unvisited, visiting and done exactly once, and reaching a node that is
// still visiting aborts the whole call with a *CycleError.
//
// The traversal keeps its own stack instead of recursing, so deep dependency
// chains cannot exhaust the goroutine stack.
package order
