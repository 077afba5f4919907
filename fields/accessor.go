// Package fields gives outside code (consoles, scripts, tools) read and write
// access to component fields by name. Accessors are registered per type in an
// explicit Table built at startup.
//
// Field names are the Go field name with a lowercase first word, or the value
// of a `field:"name"` struct tag. Nested struct fields are reached with dotted
// paths such as "position.x".
package fields

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

var (
	ErrUnknownType  = errors.New("fields: no accessor registered for type")
	ErrUnknownField = errors.New("fields: unknown field")
	ErrType         = errors.New("fields: value has wrong type")
	ErrNotPointer   = errors.New("fields: target must be a non-nil pointer")
)

// Accessor reads and writes the fields of one struct type.
type Accessor interface {
	Type() reflect.Type
	Fields() []Info
	Get(ptr any, name string) (any, error)
	Set(ptr any, name string, value any) error
}

type structAccessor struct {
	typ reflect.Type
}

// For builds a reflection based accessor for T, which must be a struct.
func For[T any]() Accessor {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic("fields.For() requires a struct type, got " + t.String())
	}
	return &structAccessor{typ: t}
}

func (a *structAccessor) Type() reflect.Type {
	return a.typ
}

func (a *structAccessor) Fields() []Info {
	return shared.get(a.typ)
}

func (a *structAccessor) target(ptr any) (reflect.Value, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %T", ErrNotPointer, ptr)
	}
	if v.Elem().Type() != a.typ {
		return reflect.Value{}, fmt.Errorf("%w: accessor for %s got %T", ErrType, a.typ, ptr)
	}
	return v.Elem(), nil
}

func (a *structAccessor) resolve(ptr any, path string) (reflect.Value, error) {
	v, err := a.target(ptr)
	if err != nil {
		return reflect.Value{}, err
	}
	for part := range strings.SplitSeq(path, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %q in %s", ErrUnknownField, path, a.typ)
		}
		info, ok := shared.lookup(v.Type(), part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %q in %s", ErrUnknownField, path, a.typ)
		}
		v = v.Field(info.Index)
	}
	return v, nil
}

func (a *structAccessor) Get(ptr any, name string) (any, error) {
	v, err := a.resolve(ptr, name)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set assigns value to the named field. Numeric values are converted between
// numeric kinds; anything else must be assignable as is.
func (a *structAccessor) Set(ptr any, name string, value any) error {
	v, err := a.resolve(ptr, name)
	if err != nil {
		return err
	}
	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("%w: nil for %q", ErrType, name)
	}
	switch {
	case val.Type().AssignableTo(v.Type()):
		v.Set(val)
	case isNumeric(val.Kind()) && isNumeric(v.Kind()):
		if !fits(val, v) {
			return fmt.Errorf("%w: %v does not fit %q (%s)", ErrType, value, name, v.Type())
		}
		v.Set(val.Convert(v.Type()))
	default:
		return fmt.Errorf("%w: cannot set %q (%s) from %T", ErrType, name, v.Type(), value)
	}
	return nil
}

// fits reports whether src converts to dst's kind without truncation or overflow.
func fits(src, dst reflect.Value) bool {
	switch {
	case src.CanInt():
		n := src.Int()
		switch {
		case dst.CanInt():
			return !dst.OverflowInt(n)
		case dst.CanUint():
			return n >= 0 && !dst.OverflowUint(uint64(n))
		}
		return true
	case src.CanUint():
		n := src.Uint()
		switch {
		case dst.CanInt():
			return n <= math.MaxInt64 && !dst.OverflowInt(int64(n))
		case dst.CanUint():
			return !dst.OverflowUint(n)
		}
		return true
	}

	f := src.Float()
	if dst.CanFloat() {
		return !math.IsNaN(f) && !math.IsInf(f, 0) && !dst.OverflowFloat(f)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return false
	}
	if dst.CanInt() {
		return f >= math.MinInt64 && f < math.MaxInt64 && !dst.OverflowInt(int64(f))
	}
	return f >= 0 && f < math.MaxUint64 && !dst.OverflowUint(uint64(f))
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
