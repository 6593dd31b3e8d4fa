package wirinj

import (
	"reflect"

	"github.com/davidcim/wirinj/internal/errors"
)

// Provider builds a new T each time New is called. Depend on a Provider[T] to get a
// constructor for T rather than a T:
//
//	type PetPicker struct {
//		PetStore wirinj.Provider[Pet] `inject:""`
//	}
//
//	pet, err := picker.PetStore.New(giftWrapped)
//
// Every call resolves the dependencies of T again against the injector, so each call
// returns a new value unless T is bound as a singleton.
type Provider[T any] struct {
	build func(args []any) (any, error)
}

// New builds a T. Explicit arguments fill the constructor parameters of T by position, or
// by name when wrapped with [Named]; the remaining parameters are injected.
func (p Provider[T]) New(args ...any) (T, error) {
	var val T
	if p.build == nil {
		return val, errors.Errorf("provider %s: not bound to an injector", reflect.TypeFor[T]())
	}

	anyVal, err := p.build(args)
	if err != nil {
		return val, err
	}
	if anyVal == nil {
		return val, nil
	}

	val, ok := anyVal.(T)
	if !ok {
		return val, errors.Errorf("provider %s: built %T", reflect.TypeFor[T](), anyVal)
	}
	return val, nil
}

// MustNew is like New but panics on error.
func (p Provider[T]) MustNew(args ...any) T {
	val, err := p.New(args...)
	if err != nil {
		panic(err)
	}
	return val
}

func (Provider[T]) providedType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (Provider[T]) bind(build func(args []any) (any, error)) any {
	return Provider[T]{build: build}
}

// provider is implemented by every Provider[T].
type provider interface {
	providedType() reflect.Type
	bind(build func(args []any) (any, error)) any
}

var typeProvider = reflect.TypeFor[provider]()

// providerTarget returns T when t is a Provider[T].
func providerTarget(t reflect.Type) (reflect.Type, bool) {
	p, ok := zeroProvider(t)
	if !ok {
		return nil, false
	}
	return p.providedType(), true
}

func zeroProvider(t reflect.Type) (provider, bool) {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(typeProvider) {
		return nil, false
	}
	p, ok := reflect.Zero(t).Interface().(provider)
	return p, ok
}
