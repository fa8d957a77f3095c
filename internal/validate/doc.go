// Package validate runs per-field validator chains against a field
// store and aggregates error codes.
//
// Validator names resolve through a registry probed with an ordered
// namespace list, replacing the reflective class lookup of dynamic
// languages. Validation failures are data, accumulated on chains and
// inspected through IsValid/Errors; only name-resolution and
// construction failures surface as Go errors.
package validate
