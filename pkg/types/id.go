package types

import (
	"strings"

	"github.com/google/uuid"
)

// IDValidator reports whether an identity is set. Controllers receive one at
// construction so each identity kind is checked by its own predicate.
type IDValidator[ID comparable] func(id ID) bool

// Integer is the set of signed integer identity kinds.
type Integer interface {
	~int | ~int16 | ~int32 | ~int64
}

// PositiveID accepts numeric identities greater than zero.
func PositiveID[T Integer](id T) bool {
	return id > 0
}

// NonBlankID accepts string identities with at least one non-space rune.
func NonBlankID(id string) bool {
	return strings.TrimSpace(id) != ""
}

// NonNilUUID accepts UUID identities other than uuid.Nil.
func NonNilUUID(id uuid.UUID) bool {
	return id != uuid.Nil
}

// IDGenerator produces the identity of a newly inserted entity. seq is the
// store's next sequence number, starting at 1.
type IDGenerator[ID comparable] func(seq int64) (ID, error)

// SequentialID uses the store sequence as the identity.
func SequentialID[T Integer](seq int64) (T, error) {
	return T(seq), nil
}

// UUIDv7StringID ignores the sequence and returns a UUID v7 string.
func UUIDv7StringID(int64) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// UUIDv7ID ignores the sequence and returns a UUID v7.
func UUIDv7ID(int64) (uuid.UUID, error) {
	return uuid.NewV7()
}

// NewKey generates an external key (UUID v7, falling back to v4).
func NewKey() uuid.UUID {
	key, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return key
}
