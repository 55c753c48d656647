package program

import "errors"

var (
	// ErrUnregisteredType is returned when a document references a type tag
	// that has no codec in the matching registry.
	ErrUnregisteredType = errors.New("unregistered type")

	// ErrInvalidArgument is returned for malformed documents, missing required
	// fields and out-of-range option indexes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoProgram is returned when a Planner is asked to serialize before
	// anything has been loaded.
	ErrNoProgram = errors.New("no program loaded")
)
