package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/history"
	"github.com/roach88/abacus/internal/plugin"
	"github.com/roach88/abacus/internal/store"
)

// OperationInfo describes one registered operation.
type OperationInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Engine wires the registry, the history store and plugin discovery.
type Engine struct {
	mu       sync.Mutex
	registry *calc.Registry
	history  *history.Store
	session  string
	logger   *slog.Logger
	metrics  *metrics
}

type config struct {
	logger *slog.Logger
	clock  history.Clock
	ids    SessionIDGenerator
}

// Option configures an Engine.
type Option func(*config)

// WithLogger sets the engine's logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets the clock history timestamps are taken from.
func WithClock(clock history.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithSessionIDGenerator overrides the UUIDv7 session id source.
func WithSessionIDGenerator(g SessionIDGenerator) Option {
	return func(c *config) { c.ids = g }
}

// New creates an Engine with the built-in operations registered and an
// empty history. History files ending in .db or .sqlite are served by the
// SQLite archive.
func New(opts ...Option) *Engine {
	cfg := config{
		logger: slog.Default(),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	session := cfg.ids.Generate()

	historyOpts := []history.Option{}
	if cfg.clock != nil {
		historyOpts = append(historyOpts, history.WithClock(cfg.clock))
	}
	for _, ext := range store.Extensions {
		historyOpts = append(historyOpts, history.WithPersister(ext, store.Persister{SessionID: session}))
	}

	e := &Engine{
		registry: calc.NewDefaultRegistry(),
		history:  history.NewStore(historyOpts...),
		session:  session,
		logger:   cfg.logger,
		metrics:  newMetrics(),
	}
	e.metrics.operations.Set(float64(e.registry.Len()))
	return e
}

// SessionID returns the id this engine stamps on archived history.
func (e *Engine) SessionID() string {
	return e.session
}

// Metrics returns the engine's private metrics registry.
func (e *Engine) Metrics() prometheus.Gatherer {
	return e.metrics.registry
}

// History returns the underlying store. It is not guarded by the engine's
// mutex.
func (e *Engine) History() *history.Store {
	return e.history
}

// Execute runs the named operation on one or two operands and records the
// result. With one operand the second is the operation's default, or 0.
func (e *Engine) Execute(name string, operands ...float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(operands) < 1 || len(operands) > 2 {
		err := calc.NewInvalidArgumentError(name,
			fmt.Sprintf("expected 1 or 2 operands, got %d", len(operands)))
		e.observe(calc.NormalizeName(name), err)
		return 0, err
	}

	op, err := e.registry.Resolve(name)
	if err != nil {
		e.observe(unknownOperationLabel, err)
		return 0, err
	}

	a := operands[0]
	b := calc.SecondOperand(op)
	if len(operands) == 2 {
		b = operands[1]
	}

	key := calc.NormalizeName(name)
	result, err := op.Compute(a, b)
	if err != nil {
		e.logger.Debug("calculation failed", "operation", key, "a", a, "b", b, "error", err)
		e.observe(key, err)
		return 0, err
	}

	e.history.Append(key, [2]float64{a, b}, result)
	e.logger.Debug("calculation", "operation", key, "a", a, "b", b, "result", result)
	e.observe(key, nil)
	return result, nil
}

func (e *Engine) observe(operation string, err error) {
	status := statusOK
	if err != nil {
		status = statusError
		if code := calc.CodeOf(err); code != "" {
			status = strings.ToLower(string(code))
		}
	}
	e.metrics.calculations.WithLabelValues(operation, status).Inc()
}

// Register adds or replaces an operation.
func (e *Engine) Register(name string, op calc.Operation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.registry.Register(name, op)
	e.metrics.operations.Set(float64(e.registry.Len()))
}

// HasOperation reports whether name resolves.
func (e *Engine) HasOperation(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Has(name)
}

// Operations lists registered operations sorted by name.
func (e *Engine) Operations() []OperationInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := e.registry.Names()
	infos := make([]OperationInfo, 0, len(names))
	for _, name := range names {
		op, err := e.registry.Resolve(name)
		if err != nil {
			continue
		}
		infos = append(infos, OperationInfo{Name: name, Label: op.Label()})
	}
	return infos
}

// LoadPlugins discovers plugin units in dir and registers their operations.
// See plugin.Discover for the meaning of mode and the returned values.
func (e *Engine) LoadPlugins(dir string, mode plugin.Mode) (*plugin.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	report, err := plugin.Discover(dir, e.registry, plugin.WithMode(mode), plugin.WithLogger(e.logger))
	if report != nil {
		for _, u := range report.Units {
			e.metrics.pluginUnits.WithLabelValues(u.Kind, statusOK).Inc()
		}
		for _, f := range report.Failures {
			e.metrics.pluginUnits.WithLabelValues(unitKind(f.Unit), statusError).Inc()
		}
		e.logger.Info("plugins loaded",
			"dir", dir,
			"units", len(report.Units),
			"failures", len(report.Failures),
			"duration", time.Since(start),
		)
	}
	e.metrics.operations.Set(float64(e.registry.Len()))
	return report, err
}

// WatchPlugins reloads plugins from dir whenever its units change. The
// returned watcher is already started; the caller must Stop it.
func (e *Engine) WatchPlugins(dir string, mode plugin.Mode) (*plugin.Watcher, error) {
	reload := func() {
		if _, err := e.LoadPlugins(dir, mode); err != nil {
			e.logger.Warn("plugin reload failed", "dir", dir, "error", err)
		}
	}

	w, err := plugin.NewWatcher(dir, reload, plugin.WithWatcherLogger(e.logger))
	if err != nil {
		return nil, err
	}
	w.Start()
	return w, nil
}

func unitKind(unit string) string {
	if strings.HasSuffix(strings.ToLower(unit), ".so") {
		return plugin.KindNative
	}
	return plugin.KindCUE
}

// Query returns the history records matching f.
func (e *Engine) Query(f history.Filter) []history.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Query(f)
}

// Stats summarises the history.
func (e *Engine) Stats() history.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Stats()
}

// ClearHistory removes every record.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

// SaveHistory writes the history to path and returns the resolved path.
func (e *Engine) SaveHistory(path string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolved, err := e.history.Save(path)
	if err != nil {
		return resolved, err
	}
	e.logger.Debug("history saved", "path", resolved, "records", e.history.Len())
	return resolved, nil
}

// LoadHistory replaces the history with the contents of path and returns
// the resolved path. On error the history is unchanged.
func (e *Engine) LoadHistory(path string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolved, err := e.history.Load(path)
	if err != nil {
		return resolved, err
	}
	e.logger.Debug("history loaded", "path", resolved, "records", e.history.Len())
	return resolved, nil
}
