package wirinj

import (
	"math"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/davidcim/wirinj/internal/errors"
)

// TypeOf returns the [reflect.Type] of T. It is the usual way to write type atoms in
// definition keys:
//
//	wirinj.Define(wirinj.TypeOf[*Cat](), wirinj.Instance())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// These are commonly used types.
var (
	typeError = reflect.TypeFor[error]()
	pkgPath   = reflect.TypeFor[Injector]().PkgPath()
)

// assignValue returns val as a [reflect.Value] that can be assigned to t.
// Numeric values are converted between numeric kinds.
func assignValue(t reflect.Type, val any) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if isNumber(rv.Kind()) && isNumber(t.Kind()) {
		if !convertible(rv, t) {
			return reflect.Value{}, errors.Errorf("cannot use %T %v as %s without loss", val, val, t)
		}
		return rv.Convert(t), nil
	}

	return reflect.Value{}, errors.Errorf("cannot use %T as %s", val, t)
}

// convertible reports whether the number rv fits in t exactly: in range, with the same
// sign, and without a fraction when t is an integer.
func convertible(rv reflect.Value, t reflect.Type) bool {
	zero := reflect.Zero(t)

	switch {
	case rv.CanInt():
		n := rv.Int()
		switch {
		case zero.CanInt():
			return !zero.OverflowInt(n)
		case zero.CanUint():
			return n >= 0 && !zero.OverflowUint(uint64(n))
		default:
			return !zero.OverflowFloat(float64(n))
		}

	case rv.CanUint():
		n := rv.Uint()
		switch {
		case zero.CanInt():
			return n <= math.MaxInt64 && !zero.OverflowInt(int64(n))
		case zero.CanUint():
			return !zero.OverflowUint(n)
		default:
			return !zero.OverflowFloat(float64(n))
		}

	default:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return zero.CanFloat()
		}
		switch {
		case zero.CanInt():
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !zero.OverflowInt(int64(f))
		case zero.CanUint():
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !zero.OverflowUint(uint64(f))
		default:
			return !zero.OverflowFloat(f)
		}
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// allocatable reports whether a zero value of t can be created without a constructor.
func allocatable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	}
	return false
}

// allocate returns a settable zero value of t. t must be allocatable.
func allocate(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem())
	}
	return reflect.New(t).Elem()
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Apply functional options and join any errors together.
func applyOptions[O any](opts []O, f func(O) error) error {
	var errs errors.MultiError

	for _, o := range opts {
		errs = errs.Append(f(o))
	}

	return errs.Join()
}
