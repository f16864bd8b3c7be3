package cli

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/roach88/abacus/internal/history"
)

// jsonFloat encodes non-finite values as the strings "nan", "inf" and
// "-inf", which encoding/json rejects as numbers.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(history.FormatFloat(v))
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// displayTimestampLayout is used for timestamps in text output.
const displayTimestampLayout = "2006-01-02 15:04:05"

type recordView struct {
	Timestamp string       `json:"timestamp"`
	Operation string       `json:"operation"`
	Operands  [2]jsonFloat `json:"operands"`
	Result    jsonFloat    `json:"result"`
}

func newRecordView(r history.Record) recordView {
	return recordView{
		Timestamp: history.FormatTimestamp(r.Timestamp),
		Operation: r.Operation,
		Operands:  [2]jsonFloat{jsonFloat(r.Operands[0]), jsonFloat(r.Operands[1])},
		Result:    jsonFloat(r.Result),
	}
}

func newRecordViews(records []history.Record) []recordView {
	views := make([]recordView, len(records))
	for i, r := range records {
		views[i] = newRecordView(r)
	}
	return views
}

// recordLine renders a record the way history prints it.
func recordLine(r history.Record) string {
	return r.Timestamp.Format(displayTimestampLayout) + " - " + r.Operation + ": " +
		history.FormatOperands(r.Operands) + " = " + history.FormatFloat(r.Result)
}

type statsView struct {
	TotalCalculations int                      `json:"total_calculations"`
	MostUsedOperation string                   `json:"most_used_operation,omitempty"`
	AverageResult     jsonFloat                `json:"average_result"`
	OperationsCount   []history.OperationCount `json:"operations_count"`
	LastCalculation   string                   `json:"last_calculation,omitempty"`
	UniqueOperations  int                      `json:"unique_operations"`
}

func newStatsView(s history.Stats) statsView {
	v := statsView{
		TotalCalculations: s.TotalCalculations,
		MostUsedOperation: s.MostUsedOperation,
		AverageResult:     jsonFloat(s.AverageResult),
		OperationsCount:   s.OperationsCount,
		UniqueOperations:  s.UniqueOperations,
	}
	if s.LastCalculation != nil {
		v.LastCalculation = history.FormatTimestamp(*s.LastCalculation)
	}
	return v
}
