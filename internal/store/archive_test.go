package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/roach88/abacus/internal/history"
)

func TestWriteHistory_ReadBackInOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	records := createTestRecords(5)

	if err := s.WriteHistory(ctx, "session-1", records); err != nil {
		t.Fatalf("WriteHistory() failed: %v", err)
	}

	got, err := s.ReadHistory(ctx, "")
	if err != nil {
		t.Fatalf("ReadHistory() failed: %v", err)
	}
	assertSameRecords(t, records, got)
}

func TestWriteHistory_Replaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteHistory(ctx, "session-1", createTestRecords(5)); err != nil {
		t.Fatalf("first WriteHistory() failed: %v", err)
	}
	second := createTestRecords(2)
	if err := s.WriteHistory(ctx, "session-2", second); err != nil {
		t.Fatalf("second WriteHistory() failed: %v", err)
	}

	got, err := s.ReadHistory(ctx, "")
	if err != nil {
		t.Fatalf("ReadHistory() failed: %v", err)
	}
	assertSameRecords(t, second, got)

	n, err := s.CountSessions(ctx)
	if err != nil {
		t.Fatalf("CountSessions() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountSessions() = %d, want 2", n)
	}
}

func TestWriteHistory_SameSessionTwice(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.WriteHistory(ctx, "session-1", createTestRecords(1)); err != nil {
			t.Fatalf("WriteHistory() #%d failed: %v", i, err)
		}
	}

	n, _ := s.CountSessions(ctx)
	if n != 1 {
		t.Errorf("CountSessions() = %d, want 1", n)
	}
}

func TestWriteHistory_NonFiniteValues(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	records := createTestRecords(2)
	records[0].Result = math.NaN()
	records[1].Result = math.Inf(-1)

	if err := s.WriteHistory(ctx, "session-1", records); err != nil {
		t.Fatalf("WriteHistory() failed: %v", err)
	}

	got, err := s.ReadHistory(ctx, "")
	if err != nil {
		t.Fatalf("ReadHistory() failed: %v", err)
	}
	if !math.IsNaN(got[0].Result) {
		t.Errorf("NaN result came back as %v", got[0].Result)
	}
	if !math.IsInf(got[1].Result, -1) {
		t.Errorf("-Inf result came back as %v", got[1].Result)
	}
}

func TestReadHistory_EmptyArchive(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadHistory(context.Background(), "")
	if err != nil {
		t.Fatalf("ReadHistory() failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReadHistory_ByOperation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	if err := s.WriteHistory(ctx, "session-1", createTestRecords(6)); err != nil {
		t.Fatalf("WriteHistory() failed: %v", err)
	}

	got, err := s.ReadHistory(ctx, "Multiply")
	if err != nil {
		t.Fatalf("ReadHistory() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d multiply records, want 2", len(got))
	}
	if got[0].Operands[0] != 1 || got[1].Operands[0] != 4 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestReadHistory_CorruptRow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	if err := s.WriteHistory(ctx, "session-1", createTestRecords(3)); err != nil {
		t.Fatalf("WriteHistory() failed: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE history SET result = 'lots' WHERE seq = 2`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err := s.ReadHistory(ctx, "")
	if !errors.Is(err, history.ErrFormat) {
		t.Fatalf("expected FORMAT_ERROR, got %v", err)
	}
	var he *history.Error
	if errors.As(err, &he) && he.Line != 2 {
		t.Errorf("Line = %d, want 2", he.Line)
	}
}
