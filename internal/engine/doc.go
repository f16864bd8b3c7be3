// Package engine is the composition root of abacus.
//
// An Engine owns one operation registry (seeded with the built-in
// arithmetic), one history store and a session id. Execute resolves an
// operation, computes it and records the result; failed calculations are
// never recorded.
//
// CONCURRENCY:
//
// Every method takes the engine's mutex. The plugin watcher re-registers
// operations from its own goroutine, so registry reads and writes must not
// bypass the engine. The history store returned by History is not guarded
// and must only be used from the goroutine driving the engine.
//
// METRICS:
//
// Each engine has a private Prometheus registry exposed through Metrics:
//
//	abacus_calculations_total{operation,status}
//	abacus_plugin_units_total{kind,status}
//	abacus_operations_registered
package engine
