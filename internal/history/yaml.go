package history

import (
	"bytes"
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/abacus/internal/calc"
)

// YAMLPersister stores histories as a YAML sequence of records.
type YAMLPersister struct{}

type yamlRecord struct {
	Timestamp string    `yaml:"timestamp"`
	Operation string    `yaml:"operation"`
	Operands  []float64 `yaml:"operands,flow"`
	Result    float64   `yaml:"result"`
}

// Save writes records to path, truncating any existing file.
func (YAMLPersister) Save(path string, records []Record) error {
	out := make([]yamlRecord, len(records))
	for i, r := range records {
		out[i] = yamlRecord{
			Timestamp: FormatTimestamp(r.Timestamp),
			Operation: r.Operation,
			Operands:  []float64{r.Operands[0], r.Operands[1]},
			Result:    r.Result,
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return NewIOError(path, "encode", err)
	}
	if err := enc.Close(); err != nil {
		return NewIOError(path, "encode", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return NewIOError(path, "write", err)
	}
	return nil
}

// Load reads every record from path. Format errors carry the YAML line of
// the offending record.
func (YAMLPersister) Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewFileNotFoundError(path)
	}
	if err != nil {
		return nil, NewIOError(path, "read", err)
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, NewFormatError(path, 0, "%v", err)
	}

	records := make([]Record, 0, len(nodes))
	for _, node := range nodes {
		var yr yamlRecord
		if err := node.Decode(&yr); err != nil {
			return nil, NewFormatError(path, node.Line, "%v", err)
		}
		if len(yr.Operands) != 2 {
			return nil, NewFormatError(path, node.Line, "expected 2 operands, got %d", len(yr.Operands))
		}
		ts, err := ParseTimestamp(yr.Timestamp)
		if err != nil {
			return nil, NewFormatError(path, node.Line, "%v", err)
		}
		op := calc.NormalizeName(yr.Operation)
		if op == "" {
			return nil, NewFormatError(path, node.Line, "empty operation")
		}
		records = append(records, Record{
			Timestamp: ts,
			Operation: op,
			Operands:  [2]float64{yr.Operands[0], yr.Operands[1]},
			Result:    yr.Result,
		})
	}
	return records, nil
}
