// Command scientific is a native operation plugin. Build it with
//
//	go build -buildmode=plugin -o plugins/scientific.so ./plugins/scientific
//
// and point abacus at the output directory with --plugins.
package main

import (
	"math"

	"github.com/roach88/abacus/internal/calc"
)

// APIVersion is the plugin API constraint this unit was built against.
var APIVersion = ">= 1.0.0, < 2.0.0"

// Operations is the entry point the loader looks up.
func Operations() map[string]calc.Operation {
	return map[string]calc.Operation{
		"power":      Power{},
		"squareroot": SquareRoot{},
		"logarithm":  Logarithm{},
	}
}

// Power raises a to the power b. NaN and infinities propagate.
type Power struct{}

func (Power) Compute(a, b float64) (float64, error) { return math.Pow(a, b), nil }
func (Power) Label() string                         { return "Power" }

// SquareRoot ignores its second operand.
type SquareRoot struct{}

func (SquareRoot) Compute(a, _ float64) (float64, error) {
	if a < 0 {
		return 0, calc.NewInvalidDomainError("squareroot", "cannot take the square root of a negative number")
	}
	return math.Sqrt(a), nil
}

func (SquareRoot) Label() string { return "Square Root" }

// Logarithm computes log of a in base b. A missing base means e.
type Logarithm struct{}

func (Logarithm) Compute(a, base float64) (float64, error) {
	if a <= 0 {
		return 0, calc.NewInvalidDomainError("logarithm", "logarithm is undefined for non-positive numbers")
	}
	if base <= 0 || base == 1 {
		return 0, calc.NewInvalidDomainError("logarithm", "base must be positive and not equal to 1")
	}
	if base == math.E {
		return math.Log(a), nil
	}
	return math.Log(a) / math.Log(base), nil
}

func (Logarithm) Label() string { return "Logarithm" }

// DefaultOperand makes the natural logarithm the one-operand form.
func (Logarithm) DefaultOperand() float64 { return math.E }

func main() {}
