package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/abacus/internal/calc"
)

func TestOperationsEntryPoint(t *testing.T) {
	ops := Operations()
	assert.Len(t, ops, 3)

	reg := calc.NewDefaultRegistry()
	for name, op := range ops {
		reg.Register(name, op)
	}
	assert.Equal(t, []string{"add", "divide", "logarithm", "multiply", "power", "squareroot", "subtract"}, reg.Names())
}

func TestPower(t *testing.T) {
	got, err := Power{}.Compute(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, got)

	got, err = Power{}.Compute(math.NaN(), 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	got, err = Power{}.Compute(0, -1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestSquareRoot(t *testing.T) {
	got, err := SquareRoot{}.Compute(16, 999)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	_, err = SquareRoot{}.Compute(-1, 0)
	assert.True(t, errors.Is(err, calc.ErrInvalidDomain))
}

func TestLogarithm(t *testing.T) {
	op := Logarithm{}
	assert.Equal(t, math.E, calc.SecondOperand(op))

	got, err := op.Compute(math.E, calc.SecondOperand(op))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = op.Compute(1000, 10)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-12)

	tests := []struct {
		name    string
		a, base float64
	}{
		{"zero", 0, 10},
		{"negative", -5, 10},
		{"base one", 10, 1},
		{"base zero", 10, 0},
		{"negative base", 10, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := op.Compute(tt.a, tt.base)
			require.Error(t, err)
			assert.True(t, errors.Is(err, calc.ErrInvalidDomain))
		})
	}
}
