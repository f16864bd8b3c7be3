package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/abacus/internal/calc"
)

// Mode controls how discovery reacts to a failing unit.
type Mode int

const (
	// ModeFailFast stops on the first failing unit.
	ModeFailFast Mode = iota
	// ModeCollectAll loads every unit it can and reports all failures.
	ModeCollectAll
)

func (m Mode) String() string {
	switch m {
	case ModeFailFast:
		return "failfast"
	case ModeCollectAll:
		return "collect"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a config value to a Mode. The empty string is ModeFailFast.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "failfast":
		return ModeFailFast, nil
	case "collect", "collectall":
		return ModeCollectAll, nil
	default:
		return ModeFailFast, fmt.Errorf("unknown plugin mode %q (want failfast or collect)", s)
	}
}

// Unit kinds.
const (
	KindNative = "native"
	KindCUE    = "cue"
)

// UnitReport describes one successfully loaded unit.
type UnitReport struct {
	Path       string   `json:"path"`
	Kind       string   `json:"kind"`
	Operations []string `json:"operations"`
}

// Report summarises a discovery run.
type Report struct {
	Dir      string       `json:"dir"`
	Units    []UnitReport `json:"units"`
	Failures []*Error     `json:"-"`
}

// Operations returns every operation name registered by the run, in load order.
func (r *Report) Operations() []string {
	var names []string
	for _, u := range r.Units {
		names = append(names, u.Operations...)
	}
	return names
}

// Err joins all recorded failures, or returns nil.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

type options struct {
	mode   Mode
	logger *slog.Logger
	open   opener
}

// Option configures Discover.
type Option func(*options)

// WithMode selects the failure mode. The default is ModeFailFast.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithLogger sets the logger used for per-unit progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func withOpener(fn opener) Option {
	return func(o *options) { o.open = fn }
}

// Discover loads every eligible unit in dir and registers its operations
// into reg.
//
// In ModeFailFast the first failure is returned as a PLUGIN_LOAD_FAILED
// *Error together with the partial report. In ModeCollectAll the returned
// error joins every failure and the report lists both loaded units and
// failures. A missing directory is always PLUGIN_DIR_NOT_FOUND.
func Discover(dir string, reg calc.Registrar, opts ...Option) (*Report, error) {
	o := options{
		mode:   ModeFailFast,
		logger: slog.Default(),
		open:   openNative,
	}
	for _, opt := range opts {
		opt(&o)
	}

	units, err := Units(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{Dir: dir, Units: []UnitReport{}}
	for _, path := range units {
		unit, err := loadUnit(o.open, path)
		if err != nil {
			loadErr := asLoadError(path, err)
			o.logger.Warn("plugin unit failed", "unit", path, "error", loadErr)
			report.Failures = append(report.Failures, loadErr)
			if o.mode == ModeFailFast {
				return report, loadErr
			}
			continue
		}

		for _, name := range unit.Operations {
			reg.Register(name, unit.ops[name])
		}
		o.logger.Debug("plugin unit loaded", "unit", path, "kind", unit.Kind, "operations", unit.Operations)
		report.Units = append(report.Units, unit.UnitReport)
	}

	return report, report.Err()
}

// Units lists the eligible unit files in dir in lexical order.
func Units(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, dirError(dir, err)
	}
	if !info.IsDir() {
		return nil, newDirNotFoundError(dir, fmt.Errorf("not a directory"))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, dirError(dir, err)
	}

	var units []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !Eligible(e.Name()) {
			continue
		}
		units = append(units, filepath.Join(dir, e.Name()))
	}
	sort.Strings(units)
	return units, nil
}

// dirError reports a missing directory as PLUGIN_DIR_NOT_FOUND and any other
// failure to read it as PLUGIN_LOAD_FAILED.
func dirError(dir string, err error) *Error {
	if errors.Is(err, fs.ErrNotExist) {
		return newDirNotFoundError(dir, err)
	}
	return newDirReadError(dir, err)
}

// Eligible reports whether a file name is a loadable, non-private unit.
func Eligible(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".so", ".cue":
		return true
	default:
		return false
	}
}

type loadedUnit struct {
	UnitReport
	ops map[string]calc.Operation
}

// loadUnit opens, gates and validates a unit. Nothing is registered here so
// a unit either contributes all of its operations or none.
func loadUnit(open opener, path string) (*loadedUnit, error) {
	var (
		kind     string
		requires string
		raw      map[string]calc.Operation
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".so":
		u, err := loadNative(open, path)
		if err != nil {
			return nil, err
		}
		kind, requires, raw = KindNative, u.requires, u.ops
	case ".cue":
		u, err := loadCUE(path)
		if err != nil {
			return nil, err
		}
		kind, requires, raw = KindCUE, u.requires, u.ops
	default:
		return nil, fmt.Errorf("unsupported unit type %q", filepath.Ext(path))
	}

	if err := checkAPIVersion(requires); err != nil {
		return nil, err
	}

	ops, names, err := validateOperations(raw)
	if err != nil {
		return nil, err
	}

	return &loadedUnit{
		UnitReport: UnitReport{Path: path, Kind: kind, Operations: names},
		ops:        ops,
	}, nil
}

// validateOperations normalises names and rejects nil or unnamed entries.
func validateOperations(raw map[string]calc.Operation) (map[string]calc.Operation, []string, error) {
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("unit declares no operations")
	}

	ops := make(map[string]calc.Operation, len(raw))
	for key, op := range raw {
		name := calc.NormalizeName(key)
		if name == "" {
			return nil, nil, fmt.Errorf("operation with empty name")
		}
		if op == nil {
			return nil, nil, fmt.Errorf("operation %q is nil", key)
		}
		if _, dup := ops[name]; dup {
			return nil, nil, fmt.Errorf("operation %q declared twice", name)
		}
		ops[name] = op
	}

	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return ops, names, nil
}

func asLoadError(path string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return newLoadError(filepath.Base(path), "load failed", err)
}
