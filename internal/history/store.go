package history

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/abacus/internal/calc"
)

// DefaultExtension is appended to paths without a known extension.
const DefaultExtension = ".csv"

// Persister reads and writes a whole history at a path.
// Implementations report failures as *Error.
type Persister interface {
	Save(path string, records []Record) error
	Load(path string) ([]Record, error)
}

// Store is an ordered, in-memory calculation log.
type Store struct {
	records    []Record
	clock      Clock
	persisters map[string]Persister
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp appended records.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithPersister registers p for paths ending in ext (e.g. ".db").
// Registering an existing extension replaces it.
func WithPersister(ext string, p Persister) Option {
	return func(s *Store) { s.persisters[strings.ToLower(ext)] = p }
}

// NewStore creates an empty store with CSV and YAML persisters.
func NewStore(opts ...Option) *Store {
	s := &Store{
		records: []Record{},
		clock:   systemClock{},
		persisters: map[string]Persister{
			".csv":  CSVPersister{},
			".yaml": YAMLPersister{},
			".yml":  YAMLPersister{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stamps a new record with the current time and adds it to the log.
func (s *Store) Append(operation string, operands [2]float64, result float64) Record {
	r := Record{
		Timestamp: s.clock.Now(),
		Operation: calc.NormalizeName(operation),
		Operands:  operands,
		Result:    result,
	}
	s.records = append(s.records, r)
	return r
}

// Query returns the records matching f in chronological order.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Query(f Filter) []Record {
	op := ""
	if f.Operation != "" {
		op = calc.NormalizeName(f.Operation)
	}

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if f.Start != nil && r.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && r.Timestamp.After(*f.End) {
			continue
		}
		if op != "" && r.Operation != op {
			continue
		}
		out = append(out, r)
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// Records returns a copy of the full log.
func (s *Store) Records() []Record {
	return s.Query(Filter{})
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Stats aggregates the full log.
func (s *Store) Stats() Stats {
	return computeStats(s.records)
}

// Clear empties the log.
func (s *Store) Clear() {
	s.records = []Record{}
}

// Replace swaps the log for a copy of records.
func (s *Store) Replace(records []Record) {
	s.records = append(make([]Record, 0, len(records)), records...)
}

// ResolvePath returns the path Save and Load will use for path: unchanged
// when its extension has a persister, otherwise with DefaultExtension appended.
func (s *Store) ResolvePath(path string) string {
	if _, ok := s.persisters[strings.ToLower(filepath.Ext(path))]; ok {
		return path
	}
	return path + DefaultExtension
}

// Save writes the full log to path and returns the resolved path.
func (s *Store) Save(path string) (string, error) {
	resolved := s.ResolvePath(path)
	p := s.persisters[strings.ToLower(filepath.Ext(resolved))]

	if err := p.Save(resolved, s.records); err != nil {
		return resolved, asHistoryError(resolved, "write", err)
	}
	return resolved, nil
}

// Load replaces the log with the contents of path and returns the resolved
// path. On error the log is left unchanged.
func (s *Store) Load(path string) (string, error) {
	resolved := s.ResolvePath(path)

	info, err := os.Stat(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return resolved, NewFileNotFoundError(resolved)
	}
	if err != nil {
		return resolved, NewIOError(resolved, "stat", err)
	}
	if info.IsDir() {
		return resolved, NewIOError(resolved, "read", errors.New("path is a directory"))
	}

	p := s.persisters[strings.ToLower(filepath.Ext(resolved))]
	records, err := p.Load(resolved)
	if err != nil {
		return resolved, asHistoryError(resolved, "read", err)
	}

	s.Replace(records)
	return resolved, nil
}
