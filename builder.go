package wirinj

import (
	"reflect"

	"github.com/davidcim/wirinj/internal/errors"
)

// Builder creates a [Strategy] when a definition is matched. Builders without an explicit
// type infer it from the last element of the construction path.
type Builder interface {
	Build(path Path, inj *Injector) (Strategy, error)
}

// BuilderFunc adapts a function to the [Builder] interface.
type BuilderFunc func(path Path, inj *Injector) (Strategy, error)

// Build implements [Builder].
func (f BuilderFunc) Build(path Path, inj *Injector) (Strategy, error) {
	return f(path, inj)
}

// Value always provides v. Plain values in definitions are wrapped with Value implicitly,
// so it is only needed to define a value that is itself a [Strategy] or a [Builder].
func Value(v any) Builder {
	return BuilderFunc(func(Path, *Injector) (Strategy, error) {
		return NewValueStrategy(v), nil
	})
}

// Instance builds a new value of the requested type every time it is needed.
func Instance() Builder {
	return BuilderFunc(func(path Path, inj *Injector) (Strategy, error) {
		t, err := pathType(path, "instance")
		if err != nil {
			return nil, err
		}
		return newInstanceStrategy(t, inj.reflector)
	})
}

// InstanceOf builds a new T every time it is needed.
//
//	wirinj.Define(wirinj.TypeOf[Pet](), wirinj.InstanceOf[*Dog]())
func InstanceOf[T any]() Builder {
	return BuilderFunc(func(_ Path, inj *Injector) (Strategy, error) {
		return newInstanceStrategy(reflect.TypeFor[T](), inj.reflector)
	})
}

// Singleton builds the requested type once per injector.
func Singleton() Builder {
	return BuilderFunc(func(path Path, inj *Injector) (Strategy, error) {
		t, err := pathType(path, "singleton")
		if err != nil {
			return nil, err
		}

		s, err := newInstanceStrategy(t, inj.reflector)
		if err != nil {
			return nil, err
		}
		return newSingletonStrategy(s), nil
	})
}

// SingletonOf builds T once per injector.
func SingletonOf[T any]() Builder {
	return BuilderFunc(func(_ Path, inj *Injector) (Strategy, error) {
		s, err := newInstanceStrategy(reflect.TypeFor[T](), inj.reflector)
		if err != nil {
			return nil, err
		}
		return newSingletonStrategy(s), nil
	})
}

// Factory provides a [Provider] for the requested Provider[T] type.
// It must be defined for a Provider type or a name requested as one.
func Factory() Builder {
	return BuilderFunc(func(path Path, inj *Injector) (Strategy, error) {
		t, err := pathType(path, "factory")
		if err != nil {
			return nil, err
		}

		target, ok := providerTarget(t)
		if !ok {
			return nil, errors.Errorf("factory: %s is not a Provider", t)
		}
		return newFactoryStrategy(t, target, inj)
	})
}

// FactoryOf provides a Provider that builds T. At a Provider[I] position, T must be
// assignable to I:
//
//	wirinj.Define(wirinj.When(wirinj.TypeOf[*Mike](), "vehicleFactory"), wirinj.FactoryOf[*Van]())
func FactoryOf[T any]() Builder {
	return BuilderFunc(func(path Path, inj *Injector) (Strategy, error) {
		t, err := pathType(path, "factory")
		if err != nil {
			return nil, err
		}
		return newFactoryStrategy(t, reflect.TypeFor[T](), inj)
	})
}

// CustomInstance calls creator every time the value is needed. The creator parameters are
// resolved like constructor parameters; creator can be a function or a [*Func] naming them.
// It must return a value and optionally an error.
func CustomInstance(creator any, opts ...CustomOption) Builder {
	return customBuilder(creator, false, opts)
}

// CustomSingleton calls creator once per injector.
func CustomSingleton(creator any, opts ...CustomOption) Builder {
	return customBuilder(creator, true, opts)
}

func customBuilder(creator any, singleton bool, opts []CustomOption) Builder {
	return BuilderFunc(func(path Path, _ *Injector) (Strategy, error) {
		fn, err := NewFunc(creator)
		if err != nil {
			return nil, errors.Wrap(err, "custom")
		}

		s := &customStrategy{fn: fn}
		for _, o := range opts {
			o.applyCustom(s)
		}
		if s.t == nil {
			s.t = path.Last().Type
		}
		if s.t == nil && !s.nested {
			s.t = fn.Out()
		}

		if singleton {
			return newSingletonStrategy(s), nil
		}
		return s, nil
	})
}

// CustomOption configures [CustomInstance] and [CustomSingleton].
type CustomOption interface {
	applyCustom(*customStrategy)
}

type customOptionFunc func(*customStrategy)

func (f customOptionFunc) applyCustom(s *customStrategy) {
	f(s)
}

// As sets the type produced by the creator. By default it is the type requested.
func As[T any]() CustomOption {
	return customOptionFunc(func(s *customStrategy) {
		s.t = reflect.TypeFor[T]()
	})
}

// Nested makes the creator return a function, which is called with the explicit arguments
// of the caller to produce the value:
//
//	wirinj.CustomInstance(func(db *DB) func(id int) *User {
//		return func(id int) *User { return db.User(id) }
//	}, wirinj.Nested())
func Nested() CustomOption {
	return customOptionFunc(func(s *customStrategy) {
		s.nested = true
	})
}

func pathType(path Path, op string) (reflect.Type, error) {
	t := path.Last().Type
	if t == nil {
		return nil, errors.Errorf("%s: no type to build at %s", op, path)
	}
	return t, nil
}
