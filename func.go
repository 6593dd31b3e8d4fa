package wirinj

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/davidcim/wirinj/internal/errors"
)

// Func is a function together with the descriptors of its parameters.
//
// Go does not keep parameter names at runtime, so they are declared when the Func is
// created. Parameters left unnamed are called arg0, arg1, and so on.
type Func struct {
	fn     reflect.Value
	name   string
	params []Param
}

// NewFunc describes fn so its parameters can be resolved by name and type.
//
// Each spec names the parameter at the same position. A spec is either a string (the
// parameter name) or a [Param] (typically built with [Default]); the parameter type is
// always taken from the function signature.
//
//	f, err := wirinj.NewFunc(NewServer, "addr", wirinj.Default("port", 8080))
func NewFunc(fn any, specs ...any) (*Func, error) {
	if fn == nil {
		return nil, errors.New("new func: fn is nil")
	}
	if f, ok := fn.(*Func); ok {
		if len(specs) > 0 {
			return nil, errors.Errorf("new func %s: already described", f)
		}
		return f, nil
	}

	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return nil, errors.Errorf("new func %T: fn must be a function", fn)
	}

	fnVal := reflect.ValueOf(fn)
	if fnVal.IsNil() {
		return nil, errors.Errorf("new func %T: fn is nil", fn)
	}
	if len(specs) > fnType.NumIn() {
		return nil, errors.Errorf("new func %T: %d parameter specs for %d parameters",
			fn, len(specs), fnType.NumIn())
	}

	params := make([]Param, fnType.NumIn())
	for i := range params {
		p := Param{Name: fmt.Sprintf("arg%d", i)}
		if i < len(specs) {
			switch s := specs[i].(type) {
			case string:
				p.Name = s
			case Param:
				p = s
			default:
				return nil, errors.Errorf("new func %T: parameter %d: unexpected spec %T", fn, i, s)
			}
		}
		p.Type = fnType.In(i)
		p.Private = false

		if p.HasDefault {
			if _, ok := p.Default.(injectedMarker); !ok {
				if _, err := assignValue(p.Type, p.Default); err != nil {
					return nil, errors.Wrapf(err, "new func %T: parameter %s: default", fn, p.Name)
				}
			}
		}
		params[i] = p
	}

	return &Func{
		fn:     fnVal,
		name:   funcName(fnVal),
		params: params,
	}, nil
}

// Fn is like [NewFunc] but panics if fn cannot be described.
// It simplifies writing definitions.
func Fn(fn any, specs ...any) *Func {
	f, err := NewFunc(fn, specs...)
	if err != nil {
		panic(err)
	}
	return f
}

func funcName(fn reflect.Value) string {
	if rf := runtime.FuncForPC(fn.Pointer()); rf != nil {
		return rf.Name()
	}
	return fn.Type().String()
}

// Name returns the fully qualified name of the function.
func (f *Func) Name() string {
	return f.name
}

// Type returns the function type.
func (f *Func) Type() reflect.Type {
	return f.fn.Type()
}

// Out returns the type of the first result, or nil if the function returns nothing.
func (f *Func) Out() reflect.Type {
	t := f.fn.Type()
	if t.NumOut() == 0 {
		return nil
	}
	return t.Out(0)
}

// Params returns the parameter descriptors in declaration order.
func (f *Func) Params() []Param {
	out := make([]Param, len(f.params))
	copy(out, f.params)
	return out
}

func (f *Func) String() string {
	return f.name
}

func (f *Func) hasParam(name string) bool {
	for _, p := range f.params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// in builds the call arguments. Explicit positional arguments come first, then explicit
// named arguments, then resolved values, then declared defaults.
func (f *Func) in(args Args, values Values) ([]reflect.Value, error) {
	if len(args.Positional) > len(f.params) {
		return nil, errors.Errorf("%s: too many arguments: want at most %d, got %d",
			f, len(f.params), len(args.Positional))
	}
	for name := range args.Named {
		if !f.hasParam(name) {
			return nil, errors.Errorf("%s: unexpected argument %q", f, name)
		}
	}

	in := make([]reflect.Value, len(f.params))
	for i, p := range f.params {
		var val any
		found := false

		if i < len(args.Positional) {
			val, found = args.Positional[i], true
		} else if val, found = args.Named[p.Name]; !found {
			if val, found = values[p.Name]; !found && p.HasDefault {
				val, found = p.Default, true
			}
		}
		if !found {
			return nil, errors.Errorf("%s: missing argument %s", f, p)
		}

		rv, err := assignValue(p.Type, val)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: argument %s", f, p.Name)
		}
		in[i] = rv
	}
	return in, nil
}

func (f *Func) call(args Args, values Values) ([]reflect.Value, error) {
	in, err := f.in(args, values)
	if err != nil {
		return nil, err
	}

	if f.fn.Type().IsVariadic() {
		return f.fn.CallSlice(in), nil
	}
	return f.fn.Call(in), nil
}

// build calls the function and returns its first result. A trailing error result is
// returned as the error, as-is.
func (f *Func) build(args Args, values Values) (any, error) {
	out, err := f.call(args, values)
	if err != nil {
		return nil, err
	}

	var val any
	if len(out) > 0 {
		val = out[0].Interface()
	}
	return val, trailingError(f.fn.Type(), out)
}

// trailingError returns the last result if the function's last result type is error.
func trailingError(fnType reflect.Type, out []reflect.Value) error {
	n := fnType.NumOut()
	if n == 0 || fnType.Out(n-1) != typeError {
		return nil
	}
	err, _ := out[n-1].Interface().(error)
	return err
}

// results splits the outputs of a call into values and the trailing error.
func results(fnType reflect.Type, out []reflect.Value) ([]any, error) {
	err := trailingError(fnType, out)
	n := len(out)
	if n > 0 && fnType.Out(n-1) == typeError {
		n--
	}

	vals := make([]any, n)
	for i := range n {
		vals[i] = out[i].Interface()
	}
	return vals, err
}
