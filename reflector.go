package wirinj

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/davidcim/wirinj/internal/errors"
)

// Reflector tells the injector how a type is built: which constructor to call and which
// fields to fill. It is the only place where types are inspected, so it can be replaced by
// an implementation backed by generated tables.
type Reflector interface {
	// Constructor returns the function registered to build t, if any.
	// Types without a constructor are allocated as zero values.
	Constructor(t reflect.Type) (*Func, bool)

	// Fields returns the fields of t filled by the injector, in declaration order.
	Fields(t reflect.Type) ([]Field, error)
}

// Field is a struct field filled by the injector after construction.
// Its Param is always private.
type Field struct {
	Param
	Index []int
}

// PostInjector is implemented by types that need to finish their setup once their injected
// fields are assigned.
type PostInjector interface {
	PostInject() error
}

// Schema is the default [Reflector]. Constructors are registered explicitly; injected fields
// are read from `inject` struct tags:
//
//	type Cat struct {
//		Sound  string  `inject:""`       // resolved as "sound"
//		Weight float64 `inject:"weight"` // resolved as "weight"
//	}
//
// Promoted fields of embedded structs are included.
type Schema struct {
	ctors  *xsync.MapOf[reflect.Type, *Func]
	fields *xsync.MapOf[reflect.Type, []Field]
}

var _ Reflector = (*Schema)(nil)

// NewSchema returns an empty [Schema].
func NewSchema() *Schema {
	return &Schema{
		ctors:  xsync.NewMapOf[reflect.Type, *Func](),
		fields: xsync.NewMapOf[reflect.Type, []Field](),
	}
}

// Register adds a constructor. The constructor builds the type of its first result and must
// return T or (T, error). Specs name its parameters, see [NewFunc].
//
// Registering a second constructor for the same type replaces the first.
func (s *Schema) Register(ctor any, specs ...any) error {
	f, err := NewFunc(ctor, specs...)
	if err != nil {
		return errors.Wrap(err, "register")
	}

	fnType := f.Type()
	switch {
	case fnType.NumOut() == 1 && fnType.Out(0) != typeError:
	case fnType.NumOut() == 2 && fnType.Out(1) == typeError:
	default:
		return errors.Errorf("register %s: constructor must return T or (T, error)", f)
	}

	s.ctors.Store(f.Out(), f)
	return nil
}

// MustRegister is like [Schema.Register] but panics on error.
func (s *Schema) MustRegister(ctor any, specs ...any) *Schema {
	if err := s.Register(ctor, specs...); err != nil {
		panic(err)
	}
	return s
}

// Constructor implements [Reflector].
func (s *Schema) Constructor(t reflect.Type) (*Func, bool) {
	if t == nil {
		return nil, false
	}
	return s.ctors.Load(t)
}

// Fields implements [Reflector].
func (s *Schema) Fields(t reflect.Type) ([]Field, error) {
	if t == nil {
		return nil, nil
	}
	if fields, ok := s.fields.Load(t); ok {
		return fields, nil
	}

	fields, err := taggedFields(t)
	if err != nil {
		return nil, err
	}

	s.fields.Store(t, fields)
	return fields, nil
}

const injectTag = "inject"

func taggedFields(t reflect.Type) ([]Field, error) {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, nil
	}

	var fields []Field
	for _, sf := range reflect.VisibleFields(st) {
		name, ok := sf.Tag.Lookup(injectTag)
		if !ok {
			continue
		}
		if !sf.IsExported() {
			return nil, errors.Errorf("%s.%s: injected field must be exported", st, sf.Name)
		}
		if name == "" {
			name = lowerFirst(sf.Name)
		}

		fields = append(fields, Field{
			Param: Param{Name: name, Type: sf.Type, Private: true},
			Index: sf.Index,
		})
	}
	return fields, nil
}
