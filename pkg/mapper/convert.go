package mapper

import "reflect"

// converter turns a source value into a value assignable to the target
// type. ok is false when the value cannot be represented.
type converter func(src reflect.Value) (out reflect.Value, ok bool)

// converterFor returns a converter from src to dst, or nil when the types
// are incompatible.
func converterFor(src, dst reflect.Type) converter {
	if src.AssignableTo(dst) {
		return func(v reflect.Value) (reflect.Value, bool) {
			return v, true
		}
	}
	switch {
	case isScalar(src.Kind()) && src.Kind() == dst.Kind() && src.ConvertibleTo(dst):
		return func(v reflect.Value) (reflect.Value, bool) {
			return v.Convert(dst), true
		}
	case src.Kind() == reflect.Pointer && dst.Kind() == reflect.Pointer:
		return pointerToPointer(src, dst)
	case src.Kind() == reflect.Pointer:
		elem := converterFor(src.Elem(), dst)
		if elem == nil {
			return nil
		}
		return func(v reflect.Value) (reflect.Value, bool) {
			if v.IsNil() {
				return reflect.Zero(dst), true
			}
			return elem(v.Elem())
		}
	case dst.Kind() == reflect.Pointer:
		elem := converterFor(src, dst.Elem())
		if elem == nil {
			return nil
		}
		return func(v reflect.Value) (reflect.Value, bool) {
			out, ok := elem(v)
			if !ok {
				return reflect.Value{}, false
			}
			p := reflect.New(dst.Elem())
			p.Elem().Set(out)
			return p, true
		}
	case src.Kind() == reflect.Struct && dst.Kind() == reflect.Struct:
		if !overlaps(src, dst) {
			return nil
		}
		return func(v reflect.Value) (reflect.Value, bool) {
			out := reflect.New(dst).Elem()
			planFor(src, dst).apply(v, out)
			return out, true
		}
	case (src.Kind() == reflect.Slice || src.Kind() == reflect.Array) && dst.Kind() == reflect.Slice:
		return sliceToSlice(src, dst)
	case src.Kind() == reflect.Map && dst.Kind() == reflect.Map:
		return mapToMap(src, dst)
	}
	return nil
}

func pointerToPointer(src, dst reflect.Type) converter {
	elem := converterFor(src.Elem(), dst.Elem())
	if elem == nil {
		return nil
	}
	return func(v reflect.Value) (reflect.Value, bool) {
		if v.IsNil() {
			return reflect.Zero(dst), true
		}
		out, ok := elem(v.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		p := reflect.New(dst.Elem())
		p.Elem().Set(out)
		return p, true
	}
}

func sliceToSlice(src, dst reflect.Type) converter {
	elem := converterFor(src.Elem(), dst.Elem())
	if elem == nil {
		return nil
	}
	return func(v reflect.Value) (reflect.Value, bool) {
		if v.Kind() == reflect.Slice && v.IsNil() {
			return reflect.Zero(dst), true
		}
		out := reflect.MakeSlice(dst, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			e, ok := elem(v.Index(i))
			if !ok {
				return reflect.Value{}, false
			}
			out = reflect.Append(out, e)
		}
		return out, true
	}
}

func mapToMap(src, dst reflect.Type) converter {
	key := converterFor(src.Key(), dst.Key())
	elem := converterFor(src.Elem(), dst.Elem())
	if key == nil || elem == nil {
		return nil
	}
	return func(v reflect.Value) (reflect.Value, bool) {
		if v.IsNil() {
			return reflect.Zero(dst), true
		}
		out := reflect.MakeMapWithSize(dst, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, ok := key(iter.Key())
			if !ok {
				return reflect.Value{}, false
			}
			e, ok := elem(iter.Value())
			if !ok {
				return reflect.Value{}, false
			}
			out.SetMapIndex(k, e)
		}
		return out, true
	}
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
