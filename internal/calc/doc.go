// Package calc defines the calculator's unit of computation and the name
// registry that dispatches to it.
//
// An Operation is a pure function of two float64 operands. Operations that
// only need one operand ignore the second; operations with a meaningful
// default for the second operand implement Defaulter.
//
// REGISTRY:
//
// Names are case-normalised before insert and lookup (NFC, then Unicode
// lower case), so "Add", "ADD" and "add" resolve to the same entry.
// Registering an existing name overwrites it. Plugins rely on this to
// override built-in operations.
//
// The registry is not synchronised. Callers that share one across
// goroutines guard it themselves (see internal/engine).
package calc
