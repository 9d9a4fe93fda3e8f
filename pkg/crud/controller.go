package crud

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/mesh-intelligence/crudkit/pkg/mapper"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Projection converts a value from one shape to another.
type Projection[From, To any] func(From) (To, error)

// Controller runs CRUD operations for entity E identified by ID. In is the
// shape accepted from callers and Out the shape returned to them; both are
// E in direct mode.
type Controller[E types.Model[ID], ID comparable, In, Out any] struct {
	svc      types.Service[E, ID]
	validID  types.IDValidator[ID]
	toEntity Projection[In, E]
	toOut    Projection[E, Out]
	settings
}

// settings holds the options shared by every controller flavor.
type settings struct {
	logger       *slog.Logger
	name         string
	defaultLimit int
	verbose      bool
}

// Option configures a Controller.
type Option func(*settings)

// WithLogger sets the logger for failures and diagnostics. A nil logger
// discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		s.logger = l
	}
}

// WithName sets the resource name attached to log records.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithDefaultLimit sets the page size used when Page receives a negative
// limit and the store does not choose one.
func WithDefaultLimit(n int) Option {
	return func(s *settings) { s.defaultLimit = n }
}

// WithVerbose makes Patch fail on patch fields that cannot be converted
// instead of skipping them.
func WithVerbose(on bool) Option {
	return func(s *settings) { s.verbose = on }
}

// New builds a direct-mode controller that accepts and returns E.
func New[E types.Model[ID], ID comparable](svc types.Service[E, ID], validID types.IDValidator[ID], opts ...Option) (*Controller[E, ID, E, E], error) {
	same := func(e E) (E, error) { return e, nil }
	return NewProjected[E, ID, E, E](svc, validID, same, same, opts...)
}

// NewMapped builds a DTO-mode controller whose projections copy fields
// structurally with package mapper.
func NewMapped[E types.Model[ID], ID comparable, In, Out any](svc types.Service[E, ID], validID types.IDValidator[ID], opts ...Option) (*Controller[E, ID, In, Out], error) {
	toEntity := func(in In) (E, error) { return mapper.Parse[E](in) }
	toOut := func(e E) (Out, error) { return mapper.Parse[Out](e) }
	return NewProjected[E, ID, In, Out](svc, validID, toEntity, toOut, opts...)
}

// NewProjected builds a controller with explicit projections.
func NewProjected[E types.Model[ID], ID comparable, In, Out any](
	svc types.Service[E, ID],
	validID types.IDValidator[ID],
	toEntity Projection[In, E],
	toOut Projection[E, Out],
	opts ...Option,
) (*Controller[E, ID, In, Out], error) {
	if isNil(svc) {
		return nil, fmt.Errorf("%w: service is required", types.ErrInvalidArgument)
	}
	if validID == nil {
		return nil, fmt.Errorf("%w: id validator is required", types.ErrInvalidArgument)
	}
	if toEntity == nil || toOut == nil {
		return nil, fmt.Errorf("%w: projections are required", types.ErrInvalidArgument)
	}
	c := &Controller[E, ID, In, Out]{
		svc:      svc,
		validID:  validID,
		toEntity: toEntity,
		toOut:    toOut,
		settings: settings{
			logger: slog.Default(),
			name:   resourceName[E](),
		},
	}
	for _, opt := range opts {
		opt(&c.settings)
	}
	return c, nil
}

// Name returns the resource name used in log records.
func (c *Controller[E, ID, In, Out]) Name() string { return c.name }

// outputs projects a list of entities, always returning a non-nil slice.
func (c *Controller[E, ID, In, Out]) outputs(entities []E) ([]Out, error) {
	out := make([]Out, 0, len(entities))
	for i, e := range entities {
		o, err := c.toOut(e)
		if err != nil {
			return nil, fmt.Errorf("project element %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// pageLimit resolves a negative limit to the store's or the configured
// default.
func (c *Controller[E, ID, In, Out]) pageLimit(page, limit int) types.PageRequest {
	def := c.defaultLimit
	if dl, ok := any(c.svc).(types.DefaultLimiter); ok && dl.DefaultLimit() > 0 {
		def = dl.DefaultLimit()
	}
	return types.PageRequest{Page: page, Limit: limit}.Resolve(def)
}

// resourceName is the element type name of E with pointers removed.
func resourceName[E any]() string {
	t := reflect.TypeFor[E]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// isNil reports whether v is nil or a nil pointer, map, slice, func,
// channel or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
