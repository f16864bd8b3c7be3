package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/abacus/internal/history"
)

// createTestStore opens a fresh archive in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecords returns n records one second apart starting at 2025-01-01 12:00 UTC.
func createTestRecords(n int) []history.Record {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ops := []string{"add", "multiply", "divide"}
	records := make([]history.Record, n)
	for i := range records {
		records[i] = history.Record{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Operation: ops[i%len(ops)],
			Operands:  [2]float64{float64(i), 2},
			Result:    float64(i) + 0.5,
		}
	}
	return records
}

func assertSameRecords(t *testing.T, want, got []history.Record) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if !want[i].Timestamp.Equal(got[i].Timestamp) {
			t.Errorf("record %d: timestamp %v, want %v", i, got[i].Timestamp, want[i].Timestamp)
		}
		if want[i].Operation != got[i].Operation || want[i].Operands != got[i].Operands || want[i].Result != got[i].Result {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
