// Package validation provides the argument and configuration checks shared
// by the pool, the scheduler and the config loader.
//
// Every failed check returns a *errors.ValidationError carrying the module
// and field names plus a hint, so callers can surface consistent messages.
package validation
