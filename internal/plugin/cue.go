package plugin

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/abacus/internal/calc"
)

var (
	pathOperation = cue.ParsePath("operation")
	pathRequires  = cue.ParsePath("requires")
	pathLabel     = cue.ParsePath("label")
	pathA         = cue.ParsePath("a")
	pathB         = cue.ParsePath("b")
	pathResult    = cue.ParsePath("result")
)

// cueUnit is a compiled .cue plugin file.
type cueUnit struct {
	requires string
	ops      map[string]calc.Operation
}

// loadCUE compiles a .cue unit and extracts its operations.
func loadCUE(path string) (*cueUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compiling unit: %w", err)
	}
	if err := value.Validate(); err != nil {
		return nil, fmt.Errorf("validating unit: %w", err)
	}

	unit := &cueUnit{ops: make(map[string]calc.Operation)}

	if req := value.LookupPath(pathRequires); req.Exists() {
		s, err := req.String()
		if err != nil {
			return nil, fmt.Errorf("requires must be a string: %w", err)
		}
		unit.requires = s
	}

	opsVal := value.LookupPath(pathOperation)
	if !opsVal.Exists() {
		return nil, fmt.Errorf("no operation struct declared")
	}

	iter, err := opsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		op, err := compileCUEOperation(name, iter.Value())
		if err != nil {
			return nil, err
		}
		unit.ops[name] = op
	}

	return unit, nil
}

// compileCUEOperation checks the shape of one operation struct.
func compileCUEOperation(name string, v cue.Value) (*cueOperation, error) {
	labelVal := v.LookupPath(pathLabel)
	if !labelVal.Exists() {
		return nil, fmt.Errorf("operation.%s: label is required", name)
	}
	label, err := labelVal.String()
	if err != nil {
		return nil, fmt.Errorf("operation.%s: label must be a string: %w", name, err)
	}

	if !v.LookupPath(pathA).Exists() {
		return nil, fmt.Errorf("operation.%s: field a is required", name)
	}
	if !v.LookupPath(pathResult).Exists() {
		return nil, fmt.Errorf("operation.%s: field result is required", name)
	}

	op := &cueOperation{name: name, label: label, value: v}

	bVal := v.LookupPath(pathB)
	if !bVal.Exists() {
		return nil, fmt.Errorf("operation.%s: field b is required", name)
	}
	if d, ok := bVal.Default(); ok {
		f, err := d.Float64()
		if err != nil {
			return nil, fmt.Errorf("operation.%s: default of b must be a number: %w", name, err)
		}
		op.defaultB = f
		op.hasDefault = true
	}

	return op, nil
}

// cueOperation evaluates a CUE operation struct by filling its operands.
type cueOperation struct {
	name       string
	label      string
	value      cue.Value
	defaultB   float64
	hasDefault bool
}

func (o *cueOperation) Label() string {
	return o.label
}

// DefaultOperand returns the CUE default of b, or 0 when b has none.
func (o *cueOperation) DefaultOperand() float64 {
	if o.hasDefault {
		return o.defaultB
	}
	return 0
}

func (o *cueOperation) Compute(a, b float64) (float64, error) {
	filled := o.value.FillPath(pathA, a).FillPath(pathB, b)
	if err := filled.Err(); err != nil {
		return 0, calc.NewInvalidDomainError(o.name, err.Error())
	}

	result := filled.LookupPath(pathResult)
	if err := result.Err(); err != nil {
		return 0, calc.NewInvalidDomainError(o.name, err.Error())
	}

	f, err := result.Float64()
	if err != nil {
		return 0, calc.NewInvalidDomainError(o.name, err.Error())
	}
	return f, nil
}
