package mapper

import (
	"reflect"
	"sync"
)

// pairKey identifies a cached plan.
type pairKey struct {
	src, dst reflect.Type
}

// plans caches the field plan of every source/target struct pair seen.
var plans sync.Map // pairKey -> *plan

// field is one exported, non-embedded struct member reachable from a type.
type field struct {
	name  string
	index []int
	typ   reflect.Type
}

// step copies one matched field.
type step struct {
	src, dst []int
	conv     converter
}

// plan lists the steps that copy a source struct type into a target one.
type plan struct {
	steps []step
}

// planFor returns the cached plan for copying src into dst.
func planFor(src, dst reflect.Type) *plan {
	key := pairKey{src: src, dst: dst}
	if p, ok := plans.Load(key); ok {
		return p.(*plan)
	}
	p, _ := plans.LoadOrStore(key, buildPlan(src, dst))
	return p.(*plan)
}

func buildPlan(src, dst reflect.Type) *plan {
	targets := fieldsByName(dst)
	p := &plan{}
	for _, sf := range fields(src) {
		df, ok := targets[sf.name]
		if !ok {
			continue
		}
		conv := converterFor(sf.typ, df.typ)
		if conv == nil {
			continue
		}
		p.steps = append(p.steps, step{src: sf.index, dst: df.index, conv: conv})
	}
	return p
}

// apply runs the plan. Source fields behind nil embedded pointers are
// skipped; target embedded pointers are allocated when written.
func (p *plan) apply(src, dst reflect.Value) {
	for _, s := range p.steps {
		sv, err := src.FieldByIndexErr(s.src)
		if err != nil {
			continue
		}
		dv := settableField(dst, s.dst)
		if !dv.IsValid() || !dv.CanSet() {
			continue
		}
		out, ok := s.conv(sv)
		if !ok {
			continue
		}
		dv.Set(out)
	}
}

// fields lists the exported members of a struct type, including fields
// promoted from embedded structs. Embedded structs themselves are left out
// because their promoted fields cover them.
func fields(t reflect.Type) []field {
	var out []field
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && isStructLike(f.Type) {
			continue
		}
		out = append(out, field{name: f.Name, index: f.Index, typ: f.Type})
	}
	return out
}

func fieldsByName(t reflect.Type) map[string]field {
	fs := fields(t)
	out := make(map[string]field, len(fs))
	for _, f := range fs {
		out[f.name] = f
	}
	return out
}

// overlaps reports whether two struct types share at least one exported
// field name.
func overlaps(a, b reflect.Type) bool {
	names := fieldsByName(b)
	for _, f := range fields(a) {
		if _, ok := names[f.name]; ok {
			return true
		}
	}
	return false
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// settableField walks index from v, allocating nil embedded pointers.
func settableField(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
