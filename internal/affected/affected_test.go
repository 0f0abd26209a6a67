package affected

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
	"git.home.luguber.info/inful/affected/internal/glob"
	"git.home.luguber.info/inful/affected/internal/metrics"
	"git.home.luguber.info/inful/affected/internal/order"
	"git.home.luguber.info/inful/affected/internal/project"
)

// scenario is the three-project repository used across these tests:
// B depends on A, C depends on B.
func scenario() project.Catalog {
	return project.Catalog{
		"A": {ID: "A", Patterns: []string{"a/*"}, Dependencies: []string{}, Path: "a/A.csproj"},
		"B": {ID: "B", Patterns: []string{"b/*"}, Dependencies: []string{"A"}, Path: "b/B.nuspec"},
		"C": {ID: "C", Patterns: []string{"c/*"}, Dependencies: []string{"B"}, Path: "c/C.csproj"},
	}
}

type recordingSink struct {
	results []*Result
	err     error
}

func (s *recordingSink) Write(_ context.Context, res *Result) error {
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, res)
	return nil
}

type failingSource struct{ err error }

func (f failingSource) ChangedFiles(context.Context) ([]string, error) { return nil, f.err }

type fakeRecorder struct {
	stages   map[string]int
	changed  int
	modified int
	outcomes []metrics.Outcome
}

func newFakeRecorder() *fakeRecorder { return &fakeRecorder{stages: map[string]int{}} }

func (f *fakeRecorder) ObserveStageDuration(stage string, _ time.Duration) { f.stages[stage]++ }
func (f *fakeRecorder) SetChangedFiles(n int)                              { f.changed = n }
func (f *fakeRecorder) SetModifiedProjects(n int)                          { f.modified = n }
func (f *fakeRecorder) IncOutcome(o metrics.Outcome)                       { f.outcomes = append(f.outcomes, o) }

func TestAnalyze_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		files          []string
		wantModified   []string
		wantOrdered    []string
		wantDescriptor bool
	}{
		{
			name:         "independent projects",
			files:        []string{"a/x", "c/y"},
			wantModified: []string{"A", "C"},
			wantOrdered:  []string{"A", "C"},
		},
		{
			name:           "full chain",
			files:          []string{"c/y", "b/z", "a/x"},
			wantModified:   []string{"A", "B", "C"},
			wantOrdered:    []string{"A", "B", "C"},
			wantDescriptor: true,
		},
		{
			name:         "no changes",
			files:        nil,
			wantModified: []string{},
			wantOrdered:  []string{},
		},
		{
			name:         "unrelated files",
			files:        []string{"README.md", "docs/intro.md"},
			wantModified: []string{},
			wantOrdered:  []string{},
		},
		{
			name:         "empty and duplicate entries",
			files:        []string{"", "  ", "a/x", "a/x"},
			wantModified: []string{"A"},
			wantOrdered:  []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(scenario(), tt.files, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantModified, res.Modified)
			assert.Equal(t, tt.wantOrdered, res.Ordered)
			assert.Equal(t, tt.wantDescriptor, res.HasDescriptor)
		})
	}
}

func TestAnalyze_DescriptorSuffix(t *testing.T) {
	res, err := Analyze(scenario(), []string{"a/x"}, Options{DescriptorSuffix: ".csproj"})
	require.NoError(t, err)
	assert.True(t, res.HasDescriptor)

	res, err = Analyze(scenario(), []string{"a/x"}, Options{})
	require.NoError(t, err)
	assert.False(t, res.HasDescriptor)
}

func TestAnalyze_CaseMode(t *testing.T) {
	res, err := Analyze(scenario(), []string{"A/x"}, Options{CaseMode: glob.CaseInsensitive})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.Modified)

	res, err = Analyze(scenario(), []string{"A/x"}, Options{CaseMode: glob.CaseSensitive})
	require.NoError(t, err)
	assert.Empty(t, res.Modified)
}

func TestAnalyze_PathsKeptVerbatim(t *testing.T) {
	res, err := Analyze(scenario(), []string{" a/x", "", "b/y ", "b/y "}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{" a/x", "b/y "}, res.ChangedFiles)
	assert.Equal(t, []string{"B"}, res.Modified, "a leading space is part of the name")
}

func TestAnalyze_FoldedReversedRange(t *testing.T) {
	catalog := scenario()
	catalog["D"] = project.Project{ID: "D", Patterns: []string{"d/[Z-a]*", "d/*"}, Dependencies: []string{}, Path: "d/D.csproj"}

	res, err := Analyze(catalog, []string{"D/file"}, Options{CaseMode: glob.CaseInsensitive})
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, res.Modified)
}

func TestAnalyze_LoggerReceivesMatches(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Analyze(scenario(), []string{"c/y"}, Options{Logger: logger})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "project=C")
}

func TestAnalyze_SelfDependency(t *testing.T) {
	catalog := project.Catalog{
		"X": {ID: "X", Patterns: []string{"x/*"}, Dependencies: []string{"X"}, Path: "x/X.csproj"},
	}

	res, err := Analyze(catalog, []string{"x/file"}, Options{})
	require.Error(t, err)
	assert.Nil(t, res)

	var cycle *order.CycleError
	require.True(t, stderrors.As(err, &cycle))
	assert.Equal(t, "X", cycle.Project)
	assert.True(t, errors.HasCategory(err, errors.CategoryDependency))
}

func TestAnalyze_EmptyCatalog(t *testing.T) {
	_, err := Analyze(project.Catalog{}, []string{"a/x"}, Options{})
	assert.True(t, stderrors.Is(err, project.ErrEmptyCatalog))
}

func TestRun_WritesResult(t *testing.T) {
	sink := &recordingSink{}
	rec := newFakeRecorder()

	res, err := Run(context.Background(), StaticSource{"b/z", "a/x"}, sink, scenario(), Options{Recorder: rec})
	require.NoError(t, err)
	require.Len(t, sink.results, 1)
	assert.Same(t, res, sink.results[0])
	assert.Equal(t, []string{"A", "B"}, res.Ordered)
	assert.Equal(t, []string{"b/z", "a/x"}, res.ChangedFiles)

	assert.Equal(t, 2, rec.changed)
	assert.Equal(t, 2, rec.modified)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeSuccess}, rec.outcomes)
	for _, stage := range []string{StageFetch, StageDetect, StageOrder, StageOutput} {
		assert.Equal(t, 1, rec.stages[stage], "stage %s", stage)
	}
}

func TestRun_CycleWritesNothing(t *testing.T) {
	catalog := scenario()
	a := catalog["A"]
	a.Dependencies = []string{"C"}
	catalog["A"] = a

	sink := &recordingSink{}
	rec := newFakeRecorder()
	_, err := Run(context.Background(), StaticSource{"a/x", "b/y", "c/z"}, sink, catalog, Options{Recorder: rec})

	var cycle *order.CycleError
	require.True(t, stderrors.As(err, &cycle))
	assert.Empty(t, sink.results)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeCycle}, rec.outcomes)
}

func TestRun_UpstreamFailure(t *testing.T) {
	upstream := errors.ForgeError("forge API error: 502 Bad Gateway").WithContext("code", 502).Build()
	sink := &recordingSink{}
	rec := newFakeRecorder()

	_, err := Run(context.Background(), failingSource{err: upstream}, sink, scenario(), Options{Recorder: rec})
	assert.Same(t, upstream, err)
	assert.Empty(t, sink.results)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeUpstream}, rec.outcomes)
	assert.Zero(t, rec.stages[StageDetect])
}

func TestRun_SourceConfigError(t *testing.T) {
	rec := newFakeRecorder()
	_, err := Run(context.Background(), failingSource{err: errors.ConfigError("bad repo").Build()}, &recordingSink{}, scenario(), Options{Recorder: rec})
	require.Error(t, err)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeConfig}, rec.outcomes)
}

func TestRun_SinkFailure(t *testing.T) {
	rec := newFakeRecorder()
	sinkErr := errors.NewError(errors.CategoryFileSystem, "disk full").Build()

	_, err := Run(context.Background(), StaticSource{"a/x"}, &recordingSink{err: sinkErr}, scenario(), Options{Recorder: rec})
	assert.Same(t, sinkErr, err)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeOutput}, rec.outcomes)
}

func TestRun_DefaultRecorder(t *testing.T) {
	_, err := Run(context.Background(), StaticSource{"c/y"}, &recordingSink{}, scenario(), Options{})
	require.NoError(t, err)
}
