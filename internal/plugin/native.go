package plugin

import (
	"fmt"
	goplugin "plugin"

	"github.com/roach88/abacus/internal/calc"
)

// Exported symbol names a native unit is looked up by.
const (
	SymbolOperations = "Operations"
	SymbolAPIVersion = "APIVersion"
)

// symbolTable is the part of *plugin.Plugin the loader uses.
type symbolTable interface {
	Lookup(name string) (goplugin.Symbol, error)
}

// opener opens a native unit. Tests replace it.
type opener func(path string) (symbolTable, error)

func openNative(path string) (symbolTable, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// nativeUnit is an opened .so plugin.
type nativeUnit struct {
	requires string
	ops      map[string]calc.Operation
}

func loadNative(open opener, path string) (*nativeUnit, error) {
	table, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("opening unit: %w", err)
	}

	sym, err := table.Lookup(SymbolOperations)
	if err != nil {
		return nil, fmt.Errorf("missing %s entry point: %w", SymbolOperations, err)
	}
	entry, ok := sym.(func() map[string]calc.Operation)
	if !ok {
		return nil, fmt.Errorf("%s has type %T, want func() map[string]calc.Operation", SymbolOperations, sym)
	}

	ops, err := callEntry(entry)
	if err != nil {
		return nil, err
	}
	unit := &nativeUnit{ops: ops}

	// APIVersion is optional.
	if sym, err := table.Lookup(SymbolAPIVersion); err == nil {
		switch v := sym.(type) {
		case *string:
			unit.requires = *v
		case string:
			unit.requires = v
		default:
			return nil, fmt.Errorf("%s has type %T, want string", SymbolAPIVersion, sym)
		}
	}

	return unit, nil
}

// callEntry runs a unit's entry point, turning a panic into an error.
func callEntry(entry func() map[string]calc.Operation) (ops map[string]calc.Operation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s entry point panicked: %v", SymbolOperations, r)
		}
	}()
	return entry(), nil
}
