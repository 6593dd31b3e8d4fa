package wirinj

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/davidcim/wirinj/internal/errors"
)

// Injector resolves dependencies with its locators and builds them.
//
// An Injector is safe for concurrent use once created, but singletons requested
// concurrently for the first time may have their dependencies resolved more than once.
type Injector struct {
	id        string
	locator   Locator
	reflector Reflector
	base      *slog.Logger
	logger    *slog.Logger
}

// NewInjector creates a new [Injector] with the provided options.
//
// At least one locator is required. [*Definitions], [*Autowiring], [*LocatorChain] and
// [*LocatorCache] are options themselves:
//
//	inj, err := wirinj.NewInjector(
//		wirinj.MustDefinitions(petsModule),
//		wirinj.NewAutowiring(),
//		wirinj.WithLogger(logger),
//	)
//
// Locators are asked in the order given. Unless [WithoutCache] is used, their answers are
// cached by construction path.
func NewInjector(opts ...Option) (*Injector, error) {
	inj, err := newInjector(nil, opts)
	if err != nil {
		return nil, errors.Wrap(err, "wirinj.NewInjector")
	}
	return inj, nil
}

// NewChild creates an [Injector] that asks its own locators first and then the locators of
// inj. The child uses the reflector and logger of inj unless options replace them.
//
// Strategies located by inj keep building against inj: a Provider defined in the parent
// does not see the child's definitions.
func (inj *Injector) NewChild(opts ...Option) (*Injector, error) {
	child, err := newInjector(inj, opts)
	if err != nil {
		return nil, errors.Wrap(err, "wirinj.Injector.NewChild")
	}
	return child, nil
}

func newInjector(parent *Injector, opts []Option) (*Injector, error) {
	var cfg injectorConfig
	if parent != nil {
		cfg.reflector = parent.reflector
		cfg.logger = parent.base
	}

	err := applyOptions(opts, func(o Option) error {
		if o == nil {
			return errors.New("nil option")
		}
		return o.applyInjector(&cfg)
	})
	if err != nil {
		return nil, err
	}

	if cfg.reflector == nil {
		cfg.reflector = NewSchema()
	}
	if len(cfg.ctors) > 0 {
		schema, ok := cfg.reflector.(*Schema)
		if !ok {
			return nil, errors.Errorf("with constructor: reflector %T is not a *wirinj.Schema", cfg.reflector)
		}

		var errs errors.MultiError
		for _, c := range cfg.ctors {
			errs = errs.Append(schema.Register(c.fn, c.specs...))
		}
		if err := errs.Join(); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	locators := cfg.locators
	if parent != nil {
		locators = append(locators, parentLocator{parent: parent})
	}

	var loc Locator
	switch len(locators) {
	case 0:
		return nil, errors.New("at least one locator is required")
	case 1:
		loc = locators[0]
	default:
		loc = NewLocatorChain(locators...)
	}
	if _, ok := loc.(*LocatorCache); !ok && !cfg.noCache {
		loc = NewLocatorCache(loc)
	}

	id := uuid.NewString()
	inj := &Injector{
		id:        id,
		locator:   loc,
		reflector: cfg.reflector,
		base:      cfg.logger,
		logger:    cfg.logger.With("injector", id),
	}
	loc.Initialize(inj)

	return inj, nil
}

// ID returns the identifier logged with every record of the injector.
func (inj *Injector) ID() string {
	return inj.id
}

// Reflector returns the reflector used to inspect types.
func (inj *Injector) Reflector() Reflector {
	return inj.reflector
}

// Get resolves a value of type t. Explicit arguments fill the constructor parameters of the
// value by position, or by name with [Named]; the other dependencies are injected.
//
// A constructor error is returned as is. If some dependencies cannot be found, a
// [*MissingDependenciesError] listing all of them is returned.
func (inj *Injector) Get(t reflect.Type, args ...any) (any, error) {
	if t == nil {
		return nil, errors.New("get: type is nil")
	}

	val, err := inj.resolve(Param{Name: t.String(), Type: t}, nil, newArgs(args), nil)
	if err != nil {
		return nil, entryError(err, "get %s", t)
	}
	return val, nil
}

// build resolves an unnamed dependency of type t, as requested by a [Provider] bound in
// outer.
func (inj *Injector) build(p Param, args Args, outer *frame) (any, error) {
	val, err := inj.resolve(p, nil, args, outer)
	if err != nil {
		return nil, entryError(err, "new %s", p.Type)
	}
	return val, nil
}

// Call calls fn with its parameters injected. Explicit arguments fill the parameters by
// position, or by name with [Named], and take precedence over injected values. fn is a
// function or a [*Func] naming its parameters.
//
// The results of fn are returned, except a trailing error which is returned as the error.
func (inj *Injector) Call(fn any, args ...any) ([]any, error) {
	f, err := NewFunc(fn)
	if err != nil {
		return nil, errors.Wrap(err, "call")
	}
	return inj.call(f, newArgs(args))
}

func (inj *Injector) call(f *Func, args Args) ([]any, error) {
	val, err := inj.resolve(Param{Name: f.Name(), Type: f.Type()}, callStrategy{fn: f}, args, nil)
	if err != nil {
		return nil, entryError(err, "call %s", f)
	}

	res := val.(callResult)
	return res.values, res.err
}

// Wrap returns a function that calls fn like [Injector.Call] each time it is called.
func (inj *Injector) Wrap(fn any) (func(args ...any) ([]any, error), error) {
	f, err := NewFunc(fn)
	if err != nil {
		return nil, errors.Wrap(err, "wrap")
	}

	return func(args ...any) ([]any, error) {
		return inj.call(f, newArgs(args))
	}, nil
}

// Get resolves a T with the injector. See [Injector.Get].
func Get[T any](inj *Injector, args ...any) (T, error) {
	var val T
	t := reflect.TypeFor[T]()

	anyVal, err := inj.Get(t, args...)
	if err != nil {
		return val, err
	}
	if anyVal == nil {
		return val, nil
	}

	val, ok := anyVal.(T)
	if !ok {
		return val, errors.Errorf("get %s: resolved %T", t, anyVal)
	}
	return val, nil
}

// MustGet is like [Get] but panics on error.
func MustGet[T any](inj *Injector, args ...any) T {
	val, err := Get[T](inj, args...)
	if err != nil {
		panic(err)
	}
	return val
}
