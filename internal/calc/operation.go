package calc

// Operation is a named, pure numeric transformation over two operands.
//
// Implementations must be stateless: one instance is shared by every
// invocation and may be called concurrently.
type Operation interface {
	// Compute applies the operation. Domain violations are reported as *Error.
	Compute(a, b float64) (float64, error)

	// Label returns a short human-readable description, e.g. "Addition".
	Label() string
}

// Defaulter is implemented by operations that supply their own value for a
// missing second operand. Operations without it receive 0.
type Defaulter interface {
	DefaultOperand() float64
}

// SecondOperand returns the value used for b when the caller supplied only a.
func SecondOperand(op Operation) float64 {
	if d, ok := op.(Defaulter); ok {
		return d.DefaultOperand()
	}
	return 0
}

// Add returns a + b.
type Add struct{}

func (Add) Compute(a, b float64) (float64, error) { return a + b, nil }
func (Add) Label() string                         { return "Addition" }

// Subtract returns a - b.
type Subtract struct{}

func (Subtract) Compute(a, b float64) (float64, error) { return a - b, nil }
func (Subtract) Label() string                         { return "Subtraction" }

// Multiply returns a * b.
type Multiply struct{}

func (Multiply) Compute(a, b float64) (float64, error) { return a * b, nil }
func (Multiply) Label() string                         { return "Multiplication" }

// Divide returns a / b and fails with DIVISION_BY_ZERO when b is zero.
type Divide struct{}

func (Divide) Compute(a, b float64) (float64, error) {
	if b == 0 {
		return 0, NewDivisionByZeroError("divide")
	}
	return a / b, nil
}

func (Divide) Label() string { return "Division" }

// Builtins returns the base operation set keyed by name.
func Builtins() map[string]Operation {
	return map[string]Operation{
		"add":      Add{},
		"subtract": Subtract{},
		"multiply": Multiply{},
		"divide":   Divide{},
	}
}
