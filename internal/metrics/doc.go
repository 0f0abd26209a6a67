// Package metrics records per-invocation observations (changed files,
// modified projects, stage timings, outcome). The default recorder does
// nothing; the Prometheus recorder can be flushed to a node_exporter textfile
// at the end of a CI job.
package metrics
