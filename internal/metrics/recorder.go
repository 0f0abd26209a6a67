package metrics

import "time"

// Outcome enumerates invocation results for counters.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeUpstream Outcome = "upstream_error"
	OutcomeConfig   Outcome = "config_error"
	OutcomeCycle    Outcome = "cycle"
	OutcomeOutput   Outcome = "output_error"
)

// Recorder defines observability hooks for a single analysis run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	SetChangedFiles(n int)
	SetModifiedProjects(n int)
	IncOutcome(outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) SetChangedFiles(int)                        {}
func (NoopRecorder) SetModifiedProjects(int)                    {}
func (NoopRecorder) IncOutcome(Outcome)                         {}
