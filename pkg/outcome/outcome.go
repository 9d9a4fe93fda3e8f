// Package outcome defines the closed set of results a CRUD operation can
// produce. Transport adapters translate an Outcome into their own responses.
package outcome

import (
	json "github.com/goccy/go-json"
)

// Kind classifies an Outcome.
type Kind int

// Outcome kinds.
const (
	KindValue    Kind = iota + 1 // succeeded with a value
	KindEmpty                    // succeeded without a value
	KindNotFound                 // the addressed entity does not exist
	KindConflict                 // the entity already exists
	KindInvalid                  // malformed or missing input
	KindFailed                   // any other failure
	KindCanceled                 // the context was canceled or timed out
)

var kindNames = map[Kind]string{
	KindValue:    "value",
	KindEmpty:    "empty",
	KindNotFound: "not_found",
	KindConflict: "conflict",
	KindInvalid:  "invalid",
	KindFailed:   "failed",
	KindCanceled: "canceled",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the immutable result of one operation.
type Outcome[T any] struct {
	kind     Kind
	value    T
	hasValue bool
	message  string
}

// Value builds a successful outcome carrying v.
func Value[T any](v T) Outcome[T] {
	return Outcome[T]{kind: KindValue, value: v, hasValue: true}
}

// Empty builds a successful outcome without a value.
func Empty[T any]() Outcome[T] {
	return Outcome[T]{kind: KindEmpty}
}

// NotFound builds a not-found outcome.
func NotFound[T any](msg string) Outcome[T] {
	return Outcome[T]{kind: KindNotFound, message: msg}
}

// Conflict builds a conflict outcome.
func Conflict[T any](msg string) Outcome[T] {
	return Outcome[T]{kind: KindConflict, message: msg}
}

// Invalid builds a validation-failed outcome.
func Invalid[T any](msg string) Outcome[T] {
	return Outcome[T]{kind: KindInvalid, message: msg}
}

// Failed builds a failed outcome.
func Failed[T any](msg string) Outcome[T] {
	return Outcome[T]{kind: KindFailed, message: msg}
}

// Of builds a valueless outcome of kind k. KindValue yields Empty.
func Of[T any](k Kind, msg string) Outcome[T] {
	if k == KindValue || k == KindEmpty {
		return Empty[T]()
	}
	return Outcome[T]{kind: k, message: msg}
}

// Kind returns the outcome kind.
func (o Outcome[T]) Kind() Kind { return o.kind }

// Value returns the carried value and whether there is one.
func (o Outcome[T]) Value() (T, bool) { return o.value, o.hasValue }

// Message returns the failure message; empty for successful outcomes.
func (o Outcome[T]) Message() string { return o.message }

// OK reports whether the operation succeeded.
func (o Outcome[T]) OK() bool {
	return o.kind == KindValue || o.kind == KindEmpty
}

// MarshalJSON renders the outcome as {"kind", "value", "message"}.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	view := struct {
		Kind    string `json:"kind"`
		Value   any    `json:"value,omitempty"`
		Message string `json:"message,omitempty"`
	}{
		Kind:    o.kind.String(),
		Message: o.message,
	}
	if o.hasValue {
		view.Value = o.value
	}
	return json.Marshal(view)
}
