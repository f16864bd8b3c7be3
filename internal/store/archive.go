package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/abacus/internal/calc"
	"github.com/roach88/abacus/internal/history"
)

// WriteHistory replaces the archived history with records, attributed to
// sessionID. The session row is created on first write.
func (s *Store) WriteHistory(ctx context.Context, sessionID string, records []history.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write history: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sessionID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write history: insert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("write history: truncate: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history
		(seq, session_id, timestamp, operation, operand_a, operand_b, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write history: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			int64(i+1),
			sessionID,
			r.Timestamp.Format(time.RFC3339Nano),
			r.Operation,
			history.FormatFloat(r.Operands[0]),
			history.FormatFloat(r.Operands[1]),
			history.FormatFloat(r.Result),
		)
		if err != nil {
			return fmt.Errorf("write history: insert seq %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write history: commit: %w", err)
	}
	return nil
}

// ReadHistory returns the archived records in seq order. A non-empty
// operation restricts the result to that (normalised) operation name.
//
// Returns an empty slice (not nil) if the archive holds no records.
// Rows that cannot be decoded are reported as history FORMAT_ERROR with the
// row's seq as line.
func (s *Store) ReadHistory(ctx context.Context, operation string) ([]history.Record, error) {
	query := `
		SELECT seq, timestamp, operation, operand_a, operand_b, result
		FROM history
		ORDER BY seq ASC
	`
	var args []any
	if operation != "" {
		query = `
		SELECT seq, timestamp, operation, operand_a, operand_b, result
		FROM history
		WHERE operation = ?
		ORDER BY seq ASC
	`
		args = append(args, calc.NormalizeName(operation))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := []history.Record{}
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return records, nil
}

// CountSessions returns how many sessions have written to the archive.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *Store) scanRecord(rows *sql.Rows) (history.Record, error) {
	var (
		seq               int
		ts, op, a, b, res string
	)
	if err := rows.Scan(&seq, &ts, &op, &a, &b, &res); err != nil {
		return history.Record{}, fmt.Errorf("scan history: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return history.Record{}, history.NewFormatError(s.path, seq, "invalid timestamp %q", ts)
	}

	var nums [3]float64
	for i, raw := range []string{a, b, res} {
		v, err := history.ParseFloat(raw)
		if err != nil {
			return history.Record{}, history.NewFormatError(s.path, seq, "invalid number %q", raw)
		}
		nums[i] = v
	}

	return history.Record{
		Timestamp: timestamp,
		Operation: op,
		Operands:  [2]float64{nums[0], nums[1]},
		Result:    nums[2],
	}, nil
}
