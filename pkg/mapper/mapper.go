package mapper

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Copy copies every exported field of source into the same-named field of
// target when their types are compatible. source is a struct or a non-nil
// pointer to one; target must be a non-nil pointer to a struct. Fields of
// target without a match keep their value.
func Copy(source, target any) (err error) {
	src, err := sourceValue(source)
	if err != nil {
		return err
	}
	dst, err := targetValue(target)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("copy %s to %s: %v", src.Type(), dst.Type(), r)
		}
	}()
	planFor(src.Type(), dst.Type()).apply(src, dst)
	return nil
}

// Parse allocates a new T and copies source into it. When T is a pointer
// type the pointee is allocated and the pointer returned.
func Parse[T any](source any) (T, error) {
	var target T
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		v := reflect.New(t.Elem())
		if err := Copy(source, v.Interface()); err != nil {
			return target, err
		}
		return v.Interface().(T), nil
	}
	if err := Copy(source, &target); err != nil {
		return target, err
	}
	return target, nil
}

// New allocates a zero T, allocating the pointee when T is a pointer type.
func New[T any]() T {
	var target T
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return target
}

// CopyList appends one new T per element of sources to *targets, in source
// order. *targets must be empty on entry.
func CopyList[S, T any](sources []S, targets *[]T) error {
	if targets == nil {
		return fmt.Errorf("%w: target list is nil", types.ErrInvalidArgument)
	}
	if len(*targets) != 0 {
		return fmt.Errorf("%w: target list must be empty", types.ErrInvalidState)
	}
	for i, s := range sources {
		t, err := Parse[T](s)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		*targets = append(*targets, t)
	}
	return nil
}

// ParseList maps sources into a fresh slice of T owned by the caller.
func ParseList[T, S any](sources []S) ([]T, error) {
	targets := make([]T, 0, len(sources))
	if err := CopyList(sources, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// sourceValue dereferences source down to a struct value.
func sourceValue(source any) (reflect.Value, error) {
	if source == nil {
		return reflect.Value{}, fmt.Errorf("%w: source is nil", types.ErrInvalidArgument)
	}
	v := reflect.ValueOf(source)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: source is nil", types.ErrInvalidArgument)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: source %s is not a struct", types.ErrInvalidArgument, v.Type())
	}
	return v, nil
}

// targetValue dereferences target down to a settable struct value,
// allocating nested nil pointers on the way.
func targetValue(target any) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, fmt.Errorf("%w: target is nil", types.ErrInvalidArgument)
	}
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer", types.ErrInvalidArgument)
	}
	v = v.Elem()
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target %s is not a struct", types.ErrInvalidArgument, v.Type())
	}
	return v, nil
}
