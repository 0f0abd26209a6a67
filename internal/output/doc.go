// Package output implements the sinks that publish an analysis result:
// the GitHub Actions output file, a GitLab dotenv report and a plain stream
// for local use.
package output
