package engine

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/history"
	"github.com/roach88/abacus/internal/plugin"
	"github.com/roach88/abacus/internal/testutil"
)

func newTestEngine(t *testing.T) (*Engine, *testutil.FakeClock) {
	t.Helper()
	clock := testutil.NewFakeClock()
	e := New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(clock),
		WithSessionIDGenerator(testutil.NewFixedIDGenerator("session-1")),
	)
	return e, clock
}

// halve has a default second operand.
type halve struct{}

func (halve) Compute(a, b float64) (float64, error) { return a / b, nil }
func (halve) Label() string                         { return "Halve" }
func (halve) DefaultOperand() float64               { return 2 }

func TestNew(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Equal(t, "session-1", e.SessionID())
	assert.Equal(t, 0, e.History().Len())
	assert.Equal(t, []OperationInfo{
		{Name: "add", Label: "Addition"},
		{Name: "divide", Label: "Division"},
		{Name: "multiply", Label: "Multiplication"},
		{Name: "subtract", Label: "Subtraction"},
	}, e.Operations())
	assert.Equal(t, 4.0, promtest.ToFloat64(e.metrics.operations))
}

func TestNew_GeneratesUUIDv7Session(t *testing.T) {
	a := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	b := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	assert.Len(t, a.SessionID(), 36)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestExecute_RecordsHistory(t *testing.T) {
	e, _ := newTestEngine(t)

	got, err := e.Execute("ADD", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	got, err = e.Execute("multiply", 4, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	records := e.Query(history.Filter{})
	require.Len(t, records, 2)
	assert.Equal(t, "add", records[0].Operation)
	assert.Equal(t, [2]float64{2, 3}, records[0].Operands)
	assert.Equal(t, testutil.DefaultEpoch, records[0].Timestamp)
	assert.Equal(t, "multiply", records[1].Operation)
	assert.Equal(t, testutil.DefaultEpoch.Add(time.Second), records[1].Timestamp)
}

func TestExecute_SingleOperand(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Register("halve", halve{})

	got, err := e.Execute("halve", 9)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got)

	// Operations without a default take 0.
	got, err = e.Execute("subtract", 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)

	records := e.Query(history.Filter{})
	require.Len(t, records, 2)
	assert.Equal(t, [2]float64{9, 2}, records[0].Operands)
	assert.Equal(t, [2]float64{7, 0}, records[1].Operands)
}

func TestExecute_Failures(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		operands []float64
		target   error
		label    string
		status   string
	}{
		{"unknown operation", "modulo", []float64{1, 2}, calc.ErrUnknownOperation, unknownOperationLabel, "unknown_operation"},
		{"division by zero", "divide", []float64{1, 0}, calc.ErrDivisionByZero, "divide", "division_by_zero"},
		{"no operands", "add", nil, calc.ErrInvalidArgument, "add", "invalid_argument"},
		{"too many operands", "add", []float64{1, 2, 3}, calc.ErrInvalidArgument, "add", "invalid_argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)

			_, err := e.Execute(tt.op, tt.operands...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)

			assert.Equal(t, 0, e.History().Len(), "failures must not be recorded")
			assert.Equal(t, 1.0, promtest.ToFloat64(e.metrics.calculations.WithLabelValues(tt.label, tt.status)))
		})
	}
}

func TestExecute_Metrics(t *testing.T) {
	e, _ := newTestEngine(t)

	for i := 0; i < 3; i++ {
		_, err := e.Execute("add", float64(i), 1)
		require.NoError(t, err)
	}
	_, err := e.Execute("divide", 1, 0)
	require.Error(t, err)

	assert.Equal(t, 3.0, promtest.ToFloat64(e.metrics.calculations.WithLabelValues("add", statusOK)))
	assert.Equal(t, 1.0, promtest.ToFloat64(e.metrics.calculations.WithLabelValues("divide", "division_by_zero")))

	count, err := promtest.GatherAndCount(e.Metrics(), "abacus_calculations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExecute_NonFiniteResultsAreRecorded(t *testing.T) {
	e, _ := newTestEngine(t)

	got, err := e.Execute("multiply", math.Inf(1), 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
	assert.Equal(t, 1, e.History().Len())
}

func TestRegister_Replaces(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Register("Add", calc.Multiply{})

	got, err := e.Execute("add", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got)
	assert.True(t, e.HasOperation("ADD"))
	assert.Len(t, e.Operations(), 4)
}

func TestLoadPlugins(t *testing.T) {
	e, _ := newTestEngine(t)

	report, err := e.LoadPlugins(filepath.Join("..", "..", "plugins", "cue"), plugin.ModeFailFast)
	require.NoError(t, err)
	assert.Len(t, report.Units, 3)
	assert.True(t, e.HasOperation("hypot"))

	got, err := e.Execute("hypot", 3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)

	// percent defaults its second operand to 100.
	got, err = e.Execute("percent", 42)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, got, 1e-12)

	_, err = e.Execute("reciprocal", 0)
	assert.True(t, errors.Is(err, calc.ErrInvalidDomain))

	assert.Equal(t, 3.0, promtest.ToFloat64(e.metrics.pluginUnits.WithLabelValues(plugin.KindCUE, statusOK)))
	assert.Equal(t, 8.0, promtest.ToFloat64(e.metrics.operations))
}

func TestLoadPlugins_Failures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.cue"), []byte("operation: {"), 0o644))

	e, _ := newTestEngine(t)
	_, err := e.LoadPlugins(dir, plugin.ModeCollectAll)
	require.Error(t, err)
	assert.True(t, errors.Is(err, plugin.ErrLoadFailed))
	assert.Equal(t, 1.0, promtest.ToFloat64(e.metrics.pluginUnits.WithLabelValues(plugin.KindCUE, statusError)))

	_, err = e.LoadPlugins(filepath.Join(dir, "missing"), plugin.ModeFailFast)
	assert.True(t, errors.Is(err, plugin.ErrDirNotFound))
	assert.Len(t, e.Operations(), 4)
}

func TestWatchPlugins(t *testing.T) {
	dir := t.TempDir()
	e, _ := newTestEngine(t)

	w, err := e.WatchPlugins(dir, plugin.ModeCollectAll)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	unit := "operation: double: {\n\tlabel: \"Double\"\n\ta: number\n\tb: number | *0\n\tresult: a * 2\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "double.cue"), []byte(unit), 0o644))

	require.Eventually(t, func() bool { return e.HasOperation("double") }, 2*time.Second, 10*time.Millisecond)

	got, err := e.Execute("double", 21)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

func TestExecute_ConcurrentWithReload(t *testing.T) {
	e, _ := newTestEngine(t)
	dir := filepath.Join("..", "..", "plugins", "cue")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, _ = e.LoadPlugins(dir, plugin.ModeCollectAll)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = e.Execute("add", float64(i), 1)
		}
	}()
	wg.Wait()

	assert.Equal(t, 200, e.History().Len())
}

func TestHistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"history", "history.yaml", "history.db"} {
		t.Run(name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			_, err := e.Execute("add", 1, 2)
			require.NoError(t, err)
			_, err = e.Execute("divide", 1, 4)
			require.NoError(t, err)

			saved, err := e.SaveHistory(filepath.Join(dir, name))
			require.NoError(t, err)

			other, _ := newTestEngine(t)
			loaded, err := other.LoadHistory(saved)
			require.NoError(t, err)
			assert.Equal(t, saved, loaded)

			want := e.Query(history.Filter{})
			got := other.Query(history.Filter{})
			require.Len(t, got, len(want))
			for i := range want {
				assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp))
				assert.Equal(t, want[i].Operation, got[i].Operation)
				assert.Equal(t, want[i].Operands, got[i].Operands)
				assert.Equal(t, want[i].Result, got[i].Result)
			}
		})
	}

	assert.FileExists(t, filepath.Join(dir, "history.csv"))
}

func TestStatsAndClear(t *testing.T) {
	e, _ := newTestEngine(t)
	_, _ = e.Execute("add", 1, 1)
	_, _ = e.Execute("add", 2, 2)
	_, _ = e.Execute("multiply", 3, 3)

	stats := e.Stats()
	assert.Equal(t, 3, stats.TotalCalculations)
	assert.Equal(t, "add", stats.MostUsedOperation)

	e.ClearHistory()
	assert.Equal(t, 0, e.Stats().TotalCalculations)
}

func TestLoadHistory_MissingFileKeepsRecords(t *testing.T) {
	e, _ := newTestEngine(t)
	_, _ = e.Execute("add", 1, 1)

	_, err := e.LoadHistory(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, history.ErrFileNotFound))
	assert.Equal(t, 1, e.History().Len())
}
