// Package apperr defines the sentinel errors shared across the service
// and transport layers.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a person, template, or department id
	// does not resolve against the current working set.
	ErrNotFound = errors.New("not found")
	// ErrCycle is returned when a manager assignment is rejected because
	// it would create a reporting cycle or a self-assignment.
	ErrCycle = errors.New("assignment would create a reporting cycle")
	// ErrNotCustom is returned when deletion is attempted on a
	// template-derived person; only custom roles may be deleted.
	ErrNotCustom = errors.New("cannot delete non-custom role")
	// ErrBadFormat is returned when an import document or dataset fails
	// structural validation. Prior state is left untouched.
	ErrBadFormat = errors.New("invalid format")
	// ErrNoDataset is returned by operations that need role templates
	// before any dataset has been loaded.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrConfirmationRequired is returned when a destructive command
	// descriptor is executed without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
)
