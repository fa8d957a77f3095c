// Package field implements the canonical flat field store.
//
// All field data lives under flat, delimiter-joined names
// (e.g. "address:city" for {address: {city: ...}}). Nested form is a
// derived projection computed on demand; the flat map is the storage of
// record. The store is the leaf component of the binding pipeline: the
// wrapper engine and validation orchestrator both operate on it but it
// depends on neither.
package field
