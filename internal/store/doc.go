// Package store persists binding outcomes to a SQLite submission log.
//
// Each row records the reconciled flat field values, the validation
// verdict, and the per-field error codes, all serialized as canonical
// JSON. The log is an audit artifact: writes are idempotent by ID and
// rows are never updated.
package store
