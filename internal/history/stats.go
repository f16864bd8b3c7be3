package history

import (
	"math"
	"sort"
	"time"
)

// OperationCount is the number of records for one operation name.
type OperationCount struct {
	Operation string `json:"operation"`
	Count     int    `json:"count"`
}

// Stats summarises a history. The zero value describes an empty history.
type Stats struct {
	TotalCalculations int `json:"total_calculations"`

	// MostUsedOperation is "" when the history is empty. Ties go to the
	// operation that appeared first.
	MostUsedOperation string `json:"most_used_operation,omitempty"`

	// AverageResult is the mean of all results, skipping NaN. It is NaN
	// only when every result is NaN.
	AverageResult float64 `json:"average_result"`

	// OperationsCount is ordered by count descending, ties by first appearance.
	OperationsCount []OperationCount `json:"operations_count"`

	LastCalculation  *time.Time `json:"last_calculation,omitempty"`
	UniqueOperations int        `json:"unique_operations"`
}

// Counts returns OperationsCount as a map.
func (s Stats) Counts() map[string]int {
	m := make(map[string]int, len(s.OperationsCount))
	for _, oc := range s.OperationsCount {
		m[oc.Operation] = oc.Count
	}
	return m
}

// computeStats aggregates records in one pass.
func computeStats(records []Record) Stats {
	if len(records) == 0 {
		return Stats{OperationsCount: []OperationCount{}}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	var sum float64
	var finite int

	for _, r := range records {
		if _, seen := counts[r.Operation]; !seen {
			order = append(order, r.Operation)
		}
		counts[r.Operation]++

		if !math.IsNaN(r.Result) {
			sum += r.Result
			finite++
		}
	}

	breakdown := make([]OperationCount, len(order))
	for i, op := range order {
		breakdown[i] = OperationCount{Operation: op, Count: counts[op]}
	}
	// Stable keeps first-appearance order among equal counts.
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	avg := math.NaN()
	if finite > 0 {
		avg = sum / float64(finite)
	}

	last := records[len(records)-1].Timestamp

	return Stats{
		TotalCalculations: len(records),
		MostUsedOperation: breakdown[0].Operation,
		AverageResult:     avg,
		OperationsCount:   breakdown,
		LastCalculation:   &last,
		UniqueOperations:  len(order),
	}
}
