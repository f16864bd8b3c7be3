package history

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/roach88/abacus/internal/calc"
)

// CSVHeader is the mandatory first row of a CSV history file.
var CSVHeader = []string{"timestamp", "operation", "operands", "result"}

// CSVPersister stores histories in the canonical CSV format.
type CSVPersister struct{}

// Save writes records to path, truncating any existing file.
// The write is not atomic: a failure may leave a partial file behind.
func (CSVPersister) Save(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return NewIOError(path, "create", err)
	}

	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, records); err != nil {
		f.Close()
		return NewIOError(path, "write", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return NewIOError(path, "write", err)
	}
	if err := f.Close(); err != nil {
		return NewIOError(path, "close", err)
	}
	return nil
}

// Load reads every record from path.
func (CSVPersister) Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewFileNotFoundError(path)
	}
	if err != nil {
		return nil, NewIOError(path, "open", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		var he *Error
		if errors.As(err, &he) {
			he.Path = path
			return nil, he
		}
		return nil, NewIOError(path, "read", err)
	}
	return records, nil
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			FormatTimestamp(r.Timestamp),
			r.Operation,
			FormatOperands(r.Operands),
			FormatFloat(r.Result),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV history. Malformed input is reported as a FORMAT_ERROR
// *Error carrying the offending line.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count is checked per row below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, NewFormatError("", 1, "missing header row")
	}
	if err != nil {
		return nil, csvFormatError(err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := []Record{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvFormatError(err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(CSVHeader) {
		return NewFormatError("", 1, "header has %d columns, want %d (%s)",
			len(header), len(CSVHeader), strings.Join(CSVHeader, ","))
	}
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		if !strings.EqualFold(strings.TrimSpace(col), CSVHeader[i]) {
			return NewFormatError("", 1, "header column %d is %q, want %q", i+1, col, CSVHeader[i])
		}
	}
	return nil
}

func parseRow(row []string, line int) (Record, error) {
	if len(row) != len(CSVHeader) {
		return Record{}, NewFormatError("", line, "row has %d columns, want %d", len(row), len(CSVHeader))
	}

	ts, err := ParseTimestamp(row[0])
	if err != nil {
		return Record{}, NewFormatError("", line, "%v", err)
	}

	op := calc.NormalizeName(row[1])
	if op == "" {
		return Record{}, NewFormatError("", line, "empty operation")
	}

	operands, err := ParseOperands(row[2])
	if err != nil {
		return Record{}, NewFormatError("", line, "%v", err)
	}

	result, err := ParseFloat(row[3])
	if err != nil {
		return Record{}, NewFormatError("", line, "result %q: not a number", row[3])
	}

	return Record{Timestamp: ts, Operation: op, Operands: operands, Result: result}, nil
}

func csvFormatError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return NewFormatError("", pe.Line, "%v", pe.Err)
	}
	return err
}
