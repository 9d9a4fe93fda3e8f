package types

// Backend is a store owner with an attach/detach lifecycle.
type Backend interface {
	// Attach opens the backend with config. Returns ErrAlreadyAttached
	// when called twice without Detach.
	Attach(config Config) error

	// Detach releases resources. It is idempotent.
	Detach() error
}
