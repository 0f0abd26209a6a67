package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "affected"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry         *prom.Registry
	stageDuration    *prom.HistogramVec
	changedFiles     prom.Gauge
	modifiedProjects prom.Gauge
	outcomes         *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual analysis stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		changedFiles: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "changed_files",
			Help:      "Number of changed files in the last run",
		}),
		modifiedProjects: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "modified_projects",
			Help:      "Number of modified projects in the last run",
		}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.stageDuration, pr.changedFiles, pr.modifiedProjects, pr.outcomes)
	return pr
}

// Registry returns the registry the recorder writes to.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetChangedFiles(n int) {
	if p == nil {
		return
	}
	p.changedFiles.Set(float64(n))
}

func (p *PrometheusRecorder) SetModifiedProjects(n int) {
	if p == nil {
		return
	}
	p.modifiedProjects.Set(float64(n))
}

func (p *PrometheusRecorder) IncOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes the registry in the text exposition format. The file
// is written atomically so a concurrent node_exporter scrape never sees a
// partial file.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
