package plugin

import (
	"errors"
	"testing"

	cueerrors "cuelang.org/go/cue/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/abacus/internal/calc"
)

func TestLoadCUE_Hypot(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "hypot.cue", hypotUnit)

	unit, err := loadCUE(path)
	require.NoError(t, err)
	assert.Equal(t, ">= 1.0.0, < 2.0.0", unit.requires)
	require.Contains(t, unit.ops, "hypot")

	op := unit.ops["hypot"]
	assert.Equal(t, "Hypotenuse", op.Label())

	got, err := op.Compute(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestLoadCUE_DefaultOperand(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "domain.cue", domainUnit)

	unit, err := loadCUE(path)
	require.NoError(t, err)

	root, ok := unit.ops["root"].(calc.Defaulter)
	require.True(t, ok)
	assert.Equal(t, 2.0, root.DefaultOperand())
	assert.Equal(t, 2.0, calc.SecondOperand(unit.ops["root"]))

	got, err := unit.ops["root"].Compute(9, 2)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got)
}

func TestLoadCUE_AverageWithDefault(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "average.cue", averageUnit)

	unit, err := loadCUE(path)
	require.NoError(t, err)

	op := unit.ops["average"]
	got, err := op.Compute(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	got, err = op.Compute(4, calc.SecondOperand(op))
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestCUEOperation_InvalidDomain(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "domain.cue", domainUnit)

	unit, err := loadCUE(path)
	require.NoError(t, err)

	tests := []struct {
		name string
		op   string
		a, b float64
	}{
		{"division by zero", "Reciprocal", 0, 0},
		{"constraint violation", "root", -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := unit.ops[tt.op].Compute(tt.a, tt.b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, calc.ErrInvalidDomain), "got %v", err)

			var ce *calc.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.op, ce.Operation)
		})
	}
}

func TestLoadCUE_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax error", "operation: {", "compiling unit"},
		{"no operation struct", "x: 1\n", "no operation struct"},
		{"missing label", "operation: f: {a: number, b: number, result: a}\n", "label is required"},
		{"missing result", "operation: f: {label: \"F\", a: number, b: number}\n", "result is required"},
		{"missing b", "operation: f: {label: \"F\", a: number, result: a}\n", "b is required"},
		{"non-string requires", "requires: 1\noperation: f: {label: \"F\", a: number, b: number, result: a}\n", "requires must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeUnit(t, t.TempDir(), "unit.cue", tt.content)
			_, err := loadCUE(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCUE_ErrorPositionNamesFile(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "broken.cue", "operation: {")

	_, err := loadCUE(path)
	require.Error(t, err)

	positions := cueerrors.Positions(err)
	require.NotEmpty(t, positions)
	assert.Equal(t, path, positions[0].Filename())
}
