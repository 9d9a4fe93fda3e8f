package types

import "errors"

// Store and orchestration errors. Stores return ErrNotFound for absent
// entities; the orchestrator classifies the rest with errors.Is.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidKey      = errors.New("invalid external key")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidPage     = errors.New("page index must not be negative")
)

// Backend lifecycle errors.
var (
	ErrNotAttached     = errors.New("backend is not attached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrTableExists     = errors.New("table already registered")
)
