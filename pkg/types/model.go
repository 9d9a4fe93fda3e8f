package types

import "github.com/google/uuid"

// Model is the shape every persisted entity exposes to the orchestrator and
// the stores. Implementations are pointer types; embed Base to get one.
type Model[ID comparable] interface {
	EntityID() ID
	SetEntityID(id ID)
	ExternalKey() uuid.UUID
	SetExternalKey(key uuid.UUID)
}

// Base carries the primary identity and the external key of an entity.
// Embedding it by value promotes ID and Key so the mapper matches them
// against same-named DTO fields.
type Base[ID comparable] struct {
	ID  ID        `json:"id"`
	Key uuid.UUID `json:"key"`
}

// EntityID returns the primary identity.
func (b *Base[ID]) EntityID() ID { return b.ID }

// SetEntityID assigns the primary identity.
func (b *Base[ID]) SetEntityID(id ID) { b.ID = id }

// ExternalKey returns the external key.
func (b *Base[ID]) ExternalKey() uuid.UUID { return b.Key }

// SetExternalKey assigns the external key.
func (b *Base[ID]) SetExternalKey(key uuid.UUID) { b.Key = key }

// ValidKey reports whether key is set (not the all-zero UUID).
func ValidKey(key uuid.UUID) bool {
	return key != uuid.Nil
}
