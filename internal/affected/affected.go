package affected

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/affected/internal/detect"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/glob"
	"git.home.luguber.info/inful/affected/internal/logfields"
	"git.home.luguber.info/inful/affected/internal/metrics"
	"git.home.luguber.info/inful/affected/internal/observability"
	"git.home.luguber.info/inful/affected/internal/order"
	"git.home.luguber.info/inful/affected/internal/project"
)

// Stage names used for logging and metrics.
const (
	StageFetch  = "fetch"
	StageDetect = "detect"
	StageOrder  = "order"
	StageOutput = "output"
)

// Options tune a run. The zero value is valid.
type Options struct {
	// DescriptorSuffix marks projects that publish a package descriptor.
	// Empty selects project.DefaultDescriptorSuffix.
	DescriptorSuffix string
	// CaseMode overrides the host case-sensitivity convention for patterns.
	CaseMode glob.CaseMode
	// Recorder receives stage timings and the run outcome.
	Recorder metrics.Recorder
	// Logger receives per-project match tracing. Nil selects slog.Default.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DescriptorSuffix == "" {
		o.DescriptorSuffix = project.DefaultDescriptorSuffix
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Analyze maps changedFiles to projects, orders the modified set and
// checks for package descriptors. It performs no I/O.
func Analyze(catalog project.Catalog, changedFiles []string, opts Options) (*Result, error) {
	return analyze(context.Background(), catalog, changedFiles, opts.withDefaults())
}

// Run fetches changed files from source, analyzes them and writes the result
// to sink. Nothing is written when fetching or analysis fails.
func Run(ctx context.Context, source ChangeSource, sink OutputSink, catalog project.Catalog, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	rec := opts.Recorder

	stageStart := time.Now()
	fetchCtx := observability.WithStage(ctx, StageFetch)
	observability.InfoContext(fetchCtx, "Fetching changed files")
	files, err := source.ChangedFiles(fetchCtx)
	elapsed := time.Since(stageStart)
	rec.ObserveStageDuration(StageFetch, elapsed)
	if err != nil {
		rec.IncOutcome(outcomeFor(err, metrics.OutcomeUpstream))
		return nil, err
	}
	observability.InfoContext(fetchCtx, "Fetched changed files",
		logfields.Count(len(files)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))

	res, err := analyze(ctx, catalog, files, opts)
	if err != nil {
		rec.IncOutcome(outcomeFor(err, metrics.OutcomeConfig))
		return nil, err
	}

	stageStart = time.Now()
	outCtx := observability.WithStage(ctx, StageOutput)
	if err := sink.Write(outCtx, res); err != nil {
		rec.ObserveStageDuration(StageOutput, time.Since(stageStart))
		rec.IncOutcome(metrics.OutcomeOutput)
		return nil, err
	}
	rec.ObserveStageDuration(StageOutput, time.Since(stageStart))
	rec.IncOutcome(metrics.OutcomeSuccess)
	observability.InfoContext(outCtx, "Analysis complete",
		logfields.Projects("ordered", res.Ordered),
		slog.Bool("has_descriptor", res.HasDescriptor))
	return res, nil
}

func analyze(ctx context.Context, catalog project.Catalog, changedFiles []string, opts Options) (*Result, error) {
	rec := opts.Recorder
	if len(catalog) == 0 {
		return nil, project.ErrEmptyCatalog
	}

	files := normalizeFiles(changedFiles)
	rec.SetChangedFiles(len(files))

	stageStart := time.Now()
	detectCtx := observability.WithStage(ctx, StageDetect)
	observability.DebugContext(detectCtx, "Detecting modified projects", logfields.Count(len(files)))
	detector, err := detect.New(catalog, detect.WithCaseMode(opts.CaseMode), detect.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	modified := detector.Detect(files)
	rec.ObserveStageDuration(StageDetect, time.Since(stageStart))
	rec.SetModifiedProjects(modified.Len())

	ids := modified.Sorted()
	observability.InfoContext(detectCtx, "Detected modified projects",
		logfields.Count(len(ids)),
		logfields.Projects("modified", ids))

	stageStart = time.Now()
	orderCtx := observability.WithStage(ctx, StageOrder)
	ordered, err := order.Order(catalog, modified)
	rec.ObserveStageDuration(StageOrder, time.Since(stageStart))
	if err != nil {
		observability.ErrorContext(orderCtx, "Dependency ordering failed", logfields.Error(err))
		return nil, err
	}
	observability.DebugContext(orderCtx, "Ordered modified projects", logfields.Projects("ordered", ordered))

	return &Result{
		ChangedFiles:  files,
		Modified:      ids,
		Ordered:       ordered,
		HasDescriptor: catalog.HasDescriptor(ids, opts.DescriptorSuffix),
	}, nil
}

// normalizeFiles drops empty entries and duplicates, keeping first-seen order.
// Paths are otherwise passed through untouched.
func normalizeFiles(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func outcomeFor(err error, fallback metrics.Outcome) metrics.Outcome {
	var cycle *order.CycleError
	switch {
	case stderrors.As(err, &cycle):
		return metrics.OutcomeCycle
	case errors.HasCategory(err, errors.CategoryConfig), errors.HasCategory(err, errors.CategoryValidation):
		return metrics.OutcomeConfig
	default:
		return fallback
	}
}
