package history

import "time"

// Record is one executed calculation. Records are values; the store only
// ever hands out copies.
type Record struct {
	Timestamp time.Time
	Operation string
	Operands  [2]float64
	Result    float64
}

// Filter selects records for Query. Zero fields do not filter.
type Filter struct {
	// Start keeps records with Timestamp >= *Start.
	Start *time.Time

	// End keeps records with Timestamp <= *End.
	End *time.Time

	// Operation keeps records whose operation equals the normalised name.
	Operation string

	// Limit keeps only the last Limit matches when > 0.
	Limit int
}

// IsEmpty reports whether the filter selects every record.
func (f Filter) IsEmpty() bool {
	return f.Start == nil && f.End == nil && f.Operation == "" && f.Limit <= 0
}

// Clock supplies append timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
