// Package wrap implements the wrapper-resolution engine.
//
// A wrapper mapping relates a set of presentation fields (what the
// caller sees, e.g. separate "date" and "time" inputs) to the set of
// underlying fields they derive from (e.g. a single "datetime"). After
// every bulk import the engine inspects which side of each mapping has
// complete data and runs the appropriate converter to materialize the
// other side. A fully populated side is never overwritten; a partial
// side is treated as absent and regenerated.
package wrap
