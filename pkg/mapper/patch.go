package mapper

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// Option configures ApplyNonZero.
type Option func(*patchOptions)

type patchOptions struct {
	verbose bool
	logger  *slog.Logger
}

// Verbose makes ApplyNonZero return field conversion failures instead of
// skipping them.
func Verbose(on bool) Option {
	return func(o *patchOptions) { o.verbose = on }
}

// WithLogger sets the logger that receives skipped-field diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *patchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// ApplyNonZero copies into target only the fields of patch that hold a
// non-zero value. Nil pointers, nil or empty slices and maps count as
// absent; non-nil pointers are dereferenced when target holds the plain
// type. Fields match by name only: a same-named field with an unconvertible
// type is skipped, or reported when Verbose is set. Target fields without
// a same-named patch field are never touched.
func ApplyNonZero(patch, target any, opts ...Option) (err error) {
	o := patchOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	src, err := sourceValue(patch)
	if err != nil {
		return err
	}
	dst, err := targetValue(target)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("patch %s into %s: %v", src.Type(), dst.Type(), r)
		}
	}()

	targets := fieldsByName(dst.Type())
	var errs []error
	for _, sf := range fields(src.Type()) {
		df, ok := targets[sf.name]
		if !ok {
			continue
		}
		sv, ferr := src.FieldByIndexErr(sf.index)
		if ferr != nil || isAbsent(sv) {
			continue
		}
		dv := settableField(dst, df.index)
		if !dv.IsValid() || !dv.CanSet() {
			continue
		}
		mismatch := fmt.Errorf("field %s: cannot convert %s to %s", sf.name, sf.typ, df.typ)
		conv := converterFor(sf.typ, df.typ)
		if conv == nil {
			errs = append(errs, mismatch)
			o.logger.Debug("patch field skipped", "field", sf.name, "from", sf.typ.String(), "to", df.typ.String())
			continue
		}
		out, ok := conv(sv)
		if !ok {
			errs = append(errs, mismatch)
			o.logger.Debug("patch field skipped", "field", sf.name, "from", sf.typ.String(), "to", df.typ.String())
			continue
		}
		dv.Set(out)
	}
	if o.verbose {
		return errors.Join(errs...)
	}
	return nil
}

// isAbsent reports whether a patch value carries nothing to apply.
func isAbsent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isAbsent(v.Elem())
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Pointer, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
