// Package plugin discovers operation plugins in a directory and registers
// their operations into a calc.Registrar.
//
// Two kinds of unit are recognised by extension:
//
//   - .so: a Go plugin built with -buildmode=plugin. It must export
//
//     func Operations() map[string]calc.Operation
//
//     and may export `var APIVersion string` holding a semver constraint.
//
//   - .cue: a CUE file declaring operations as structs:
//
//     import "math"
//
//     requires: ">= 1.0.0"
//
//     operation: hypot: {
//     label:  "Hypotenuse"
//     a:      number
//     b:      number | *0
//     result: math.Sqrt(a*a + b*b)
//     }
//
//     Computing fills a and b and reads result. Any constraint violation or
//     evaluation failure is reported as calc INVALID_DOMAIN.
//
// Files whose names begin with "_" or "." are private and skipped. Units are
// processed in lexical order; every operation of a unit is registered under
// its lower-cased key once the whole unit has loaded.
//
// FAILURE MODES:
//
// ModeFailFast (the default) stops at the first unit that fails and returns
// a PLUGIN_LOAD_FAILED *Error naming it. Units processed before it stay
// registered. ModeCollectAll loads every unit it can and reports all
// failures together.
//
// Re-running discovery re-registers everything; the registry's
// last-write-wins rule makes that idempotent.
package plugin
