package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Operation names used in log records.
const (
	opCreate   = "create"
	opGet      = "get"
	opGetByKey = "get_by_key"
	opList     = "list"
	opPage     = "page"
	opUpdate   = "update"
	opPatch    = "patch"
	opDelete   = "delete"
)

// Messages reported for proactively detected failures.
const (
	msgPayloadRequired = "payload is required"
	msgInvalidID       = "invalid id"
	msgInvalidKey      = "invalid key"
	msgAlreadyExists   = "entity already exists"
	msgNotFound        = "entity not found"
	msgCouldNotRemove  = "could not remove entity"
)

// classify maps an error that escaped an operation body to an outcome kind.
func classify(err error) outcome.Kind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcome.KindCanceled
	case errors.Is(err, types.ErrNotFound):
		return outcome.KindNotFound
	case errors.Is(err, types.ErrAlreadyExists):
		return outcome.KindConflict
	case errors.Is(err, types.ErrInvalidArgument),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidKey),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidPage):
		return outcome.KindInvalid
	}
	return outcome.KindFailed
}

// fail logs err with operation context and converts it to an outcome.
func fail[T any](ctx context.Context, s *settings, op string, err error) outcome.Outcome[T] {
	kind := classify(err)
	level := slog.LevelError
	if kind == outcome.KindCanceled || kind == outcome.KindNotFound || kind == outcome.KindInvalid {
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, "operation failed",
		"resource", s.name,
		"op", op,
		"kind", kind.String(),
		"error", err,
	)
	return outcome.Of[T](kind, err.Error())
}

// notFound logs the miss at debug level and builds a not-found outcome.
func notFound[T any](ctx context.Context, s *settings, op string, attrs ...any) outcome.Outcome[T] {
	args := append([]any{"resource", s.name, "op", op}, attrs...)
	s.logger.DebugContext(ctx, "entity not found", args...)
	return outcome.NotFound[T](msgNotFound)
}

// recoverTo is deferred by every operation. It turns a panic in the body
// into a failed outcome written to res.
func recoverTo[T any](ctx context.Context, s *settings, op string, res *outcome.Outcome[T]) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	s.logger.ErrorContext(ctx, "operation panicked",
		"resource", s.name,
		"op", op,
		"panic", err,
	)
	*res = outcome.Failed[T](err.Error())
}
