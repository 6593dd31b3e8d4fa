package wirinj

import (
	"reflect"
	"sync"

	"github.com/davidcim/wirinj/internal/errors"
)

// Strategy describes how to produce the value of one dependency once a [Locator] found it.
type Strategy interface {
	// Type returns the type produced, or nil if it is not known before instantiation.
	Type() reflect.Type

	// Params returns the dependencies to resolve before Instantiate is called.
	// An empty result marks a leaf.
	Params() []Param

	// Instantiate builds the value from the caller's explicit arguments and the resolved
	// dependencies, keyed by param name. Errors are returned as-is.
	Instantiate(args Args, values Values) (any, error)
}

// Values maps param names to resolved dependency values.
type Values map[string]any

// NewValueStrategy returns a [Strategy] that always produces val.
func NewValueStrategy(val any) Strategy {
	return &valueStrategy{val: val}
}

type valueStrategy struct {
	val any
}

func (s *valueStrategy) Type() reflect.Type {
	if s.val == nil {
		return nil
	}
	return reflect.TypeOf(s.val)
}

func (*valueStrategy) Params() []Param { return nil }

func (s *valueStrategy) Instantiate(Args, Values) (any, error) {
	return s.val, nil
}

// NewInstanceStrategy returns a [Strategy] that builds a new t on every call, using the
// constructor and injected fields reported by r.
func NewInstanceStrategy(t reflect.Type, r Reflector) (Strategy, error) {
	return newInstanceStrategy(t, r)
}

type instanceStrategy struct {
	t      reflect.Type
	ctor   *Func
	fields []Field
	params []Param
}

func newInstanceStrategy(t reflect.Type, r Reflector) (*instanceStrategy, error) {
	if t == nil {
		return nil, errors.New("instance: type is nil")
	}

	ctor, _ := r.Constructor(t)
	if ctor == nil && !allocatable(t) {
		return nil, errors.Errorf("instance %s: no constructor registered and type is not a struct", t)
	}

	fields, err := r.Fields(t)
	if err != nil {
		return nil, errors.Wrapf(err, "instance %s", t)
	}

	// Private dependencies first, then constructor parameters.
	params := make([]Param, 0, len(fields))
	for _, f := range fields {
		params = append(params, f.Param)
	}
	if ctor != nil {
		params = append(params, ctor.Params()...)
	}

	return &instanceStrategy{
		t:      t,
		ctor:   ctor,
		fields: fields,
		params: params,
	}, nil
}

func (s *instanceStrategy) Type() reflect.Type {
	return s.t
}

func (s *instanceStrategy) Params() []Param {
	return s.params
}

func (s *instanceStrategy) Instantiate(args Args, values Values) (any, error) {
	var v reflect.Value
	if s.ctor != nil {
		val, err := s.ctor.build(args, values)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, nil
		}
		v = reflect.ValueOf(val)
	} else {
		if !args.Empty() {
			return nil, errors.Errorf("instance %s: explicit arguments given but no constructor registered", s.t)
		}
		v = allocate(s.t)
	}

	v, err := s.inject(v, values)
	if err != nil {
		return nil, err
	}

	val := v.Interface()
	if pi, ok := val.(PostInjector); ok {
		if err := pi.PostInject(); err != nil {
			return nil, err
		}
	}
	return val, nil
}

// inject assigns the injected fields of v. A struct that is not addressable is copied first.
func (s *instanceStrategy) inject(v reflect.Value, values Values) (reflect.Value, error) {
	if len(s.fields) == 0 {
		return v, nil
	}

	target := v
	for target.Kind() == reflect.Interface {
		target = target.Elem()
	}
	if target.Kind() == reflect.Pointer {
		if target.IsNil() {
			return v, errors.Errorf("instance %s: constructor returned nil", s.t)
		}
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return v, errors.Errorf("instance %s: cannot inject fields into %s", s.t, target.Type())
	}
	if !target.CanSet() {
		cp := reflect.New(target.Type()).Elem()
		cp.Set(target)
		target, v = cp, cp
	}

	for _, f := range s.fields {
		val, ok := values[f.Name]
		if !ok {
			continue
		}

		fv, err := target.FieldByIndexErr(f.Index)
		if err != nil {
			return v, errors.Wrapf(err, "instance %s: field %s", s.t, f.Name)
		}
		rv, err := assignValue(fv.Type(), val)
		if err != nil {
			return v, errors.Wrapf(err, "instance %s: field %s", s.t, f.Name)
		}
		fv.Set(rv)
	}
	return v, nil
}

// NewSingletonStrategy wraps s so it is instantiated once. Later calls return the same
// value and report no params, so already satisfied dependencies are not resolved again.
func NewSingletonStrategy(s Strategy) Strategy {
	return newSingletonStrategy(s)
}

type singletonStrategy struct {
	inner Strategy

	mu    sync.Mutex
	built bool
	val   any

	// building is closed once the value in progress is built or has failed.
	building chan struct{}
}

func newSingletonStrategy(s Strategy) *singletonStrategy {
	return &singletonStrategy{inner: s}
}

func (s *singletonStrategy) Type() reflect.Type {
	return s.inner.Type()
}

func (s *singletonStrategy) Params() []Param {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.built {
		return nil
	}
	return s.inner.Params()
}

// Instantiate builds the value once. The lock is not held while the inner strategy runs,
// so a constructor reaching the singleton again is caught as a cycle by the resolution
// instead of blocking. Concurrent first callers wait for the build in progress.
func (s *singletonStrategy) Instantiate(args Args, values Values) (any, error) {
	s.mu.Lock()
	for !s.built && s.building != nil {
		wait := s.building
		s.mu.Unlock()
		<-wait
		s.mu.Lock()
	}

	if s.built {
		defer s.mu.Unlock()
		if !args.Empty() {
			return nil, errors.Errorf("singleton %s: already built, explicit arguments not allowed", s.Type())
		}
		return s.val, nil
	}

	done := make(chan struct{})
	s.building = done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.building = nil
		s.mu.Unlock()
		close(done)
	}()

	val, err := s.inner.Instantiate(args, values)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.val, s.built = val, true
	s.mu.Unlock()
	return val, nil
}

// factoryStrategy produces a bound Provider. Each call of the provider resolves target
// again through the injector.
type factoryStrategy struct {
	provider reflect.Type
	target   reflect.Type
	inj      *Injector
}

func newFactoryStrategy(provider, target reflect.Type, inj *Injector) (*factoryStrategy, error) {
	want, ok := providerTarget(provider)
	if !ok {
		return nil, errors.Errorf("factory: %s is not a Provider", provider)
	}
	if !target.AssignableTo(want) {
		return nil, errors.Errorf("factory %s: %s is not assignable to %s", provider, target, want)
	}
	if inj == nil {
		return nil, errors.Wrapf(ErrNotInitialized, "factory %s", provider)
	}

	return &factoryStrategy{
		provider: provider,
		target:   target,
		inj:      inj,
	}, nil
}

func (s *factoryStrategy) Type() reflect.Type {
	return s.provider
}

func (*factoryStrategy) Params() []Param { return nil }

func (s *factoryStrategy) Instantiate(Args, Values) (any, error) {
	return s.bind(nil), nil
}

// bind returns a Provider whose builds start inside outer.
func (s *factoryStrategy) bind(outer *frame) any {
	p, _ := zeroProvider(s.provider)
	target, inj := s.target, s.inj

	return p.bind(func(args []any) (any, error) {
		return inj.build(Param{Type: target}, newArgs(args), outer)
	})
}

// customStrategy builds values with a user supplied creator function.
type customStrategy struct {
	fn     *Func
	t      reflect.Type
	nested bool
}

func (s *customStrategy) Type() reflect.Type {
	if s.t != nil {
		return s.t
	}
	return s.fn.Out()
}

// Params returns the creator parameters. In nested mode explicit arguments go to the
// returned function, so the creator parameters are private.
func (s *customStrategy) Params() []Param {
	params := s.fn.Params()
	if s.nested {
		for i := range params {
			params[i].Private = true
		}
	}
	return params
}

func (s *customStrategy) Instantiate(args Args, values Values) (any, error) {
	if !s.nested {
		return s.fn.build(args, values)
	}

	made, err := s.fn.build(Args{}, values)
	if err != nil {
		return nil, err
	}

	inner, err := NewFunc(made)
	if err != nil {
		return nil, errors.Wrapf(err, "custom %s: nested creator", s.fn)
	}
	return inner.build(args, nil)
}
