// Package errors provides structured runtime errors with stable codes,
// categories, and fix suggestions.
//
// Errors are created from a registry of known codes:
//
//	err := errors.New("A101").Wrap(cause)
//
// The registry keeps messages and documentation links in one place so
// log output and terminal diagnostics stay consistent across packages.
package errors
