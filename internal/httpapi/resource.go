package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
)

// Controller is the set of orchestrator operations the adapter calls.
// *crud.Controller satisfies it.
type Controller[ID comparable, In, Out any] interface {
	Create(ctx context.Context, in In) outcome.Outcome[Out]
	Get(ctx context.Context, id ID) outcome.Outcome[Out]
	GetByKey(ctx context.Context, key uuid.UUID) outcome.Outcome[Out]
	List(ctx context.Context) outcome.Outcome[[]Out]
	Page(ctx context.Context, page, limit int) outcome.Outcome[[]Out]
	Update(ctx context.Context, in In) outcome.Outcome[Out]
	Patch(ctx context.Context, key uuid.UUID, patch any) outcome.Outcome[Out]
	Delete(ctx context.Context, key uuid.UUID) outcome.Outcome[Out]
}

// Mounter registers the routes of one resource.
type Mounter interface {
	Mount(r chi.Router)
}

// Resource exposes a controller under /{Path}.
type Resource[ID comparable, In, Out any] struct {
	Path       string
	Controller Controller[ID, In, Out]
	// ParseID decodes the {id} path segment.
	ParseID func(string) (ID, error)
	// NewPatch returns a pointer to an empty patch document. PATCH is not
	// mounted when nil.
	NewPatch func() any
	Ops      Ops
}

// Mount registers the routes selected by res.Ops.
func (res Resource[ID, In, Out]) Mount(r chi.Router) {
	r.Route("/"+res.Path, func(r chi.Router) {
		if res.Ops.Has(OpCreate) {
			r.Post("/", res.create)
		}
		if res.Ops.Has(OpRead) {
			r.Get("/", res.list)
			r.Get("/{id}", res.get)
			r.Get("/key/{key}", res.getByKey)
			r.Get("/page/{page}", res.page)
			r.Get("/page/{page}/{limit}", res.page)
		}
		if res.Ops.Has(OpUpdate) {
			r.Put("/", res.update)
			if res.NewPatch != nil {
				r.Patch("/key/{key}", res.patch)
			}
		}
		if res.Ops.Has(OpDelete) {
			r.Delete("/key/{key}", res.delete)
		}
	})
}

func (res Resource[ID, In, Out]) create(w http.ResponseWriter, r *http.Request) {
	var in In
	if !decode(w, r, &in) {
		return
	}
	writeOutcome(w, res.Controller.Create(r.Context(), in), false)
}

func (res Resource[ID, In, Out]) list(w http.ResponseWriter, r *http.Request) {
	writeOutcome(w, res.Controller.List(r.Context()), true)
}

func (res Resource[ID, In, Out]) get(w http.ResponseWriter, r *http.Request) {
	id, err := res.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	writeOutcome(w, res.Controller.Get(r.Context(), id), false)
}

func (res Resource[ID, In, Out]) getByKey(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	writeOutcome(w, res.Controller.GetByKey(r.Context(), key), false)
}

func (res Resource[ID, In, Out]) page(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	limit := -1
	if raw := chi.URLParam(r, "limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	writeOutcome(w, res.Controller.Page(r.Context(), page, limit), false)
}

func (res Resource[ID, In, Out]) update(w http.ResponseWriter, r *http.Request) {
	var in In
	if !decode(w, r, &in) {
		return
	}
	writeOutcome(w, res.Controller.Update(r.Context(), in), false)
}

func (res Resource[ID, In, Out]) patch(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	doc := res.NewPatch()
	if !decode(w, r, doc) {
		return
	}
	writeOutcome(w, res.Controller.Patch(r.Context(), key, doc), false)
}

func (res Resource[ID, In, Out]) delete(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}
	writeOutcome(w, res.Controller.Delete(r.Context(), key), false)
}

func pathKey(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	key, err := uuid.Parse(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key")
		return uuid.Nil, false
	}
	return key, true
}

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return false
	case err != nil:
		writeError(w, http.StatusBadRequest, "malformed body")
		return false
	}
	return true
}

// ParseInt64 decodes a decimal identity.
func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// ParseString accepts the segment as is.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseUUID decodes a UUID identity.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
