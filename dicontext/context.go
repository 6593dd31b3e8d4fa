// Package dicontext carries a [wirinj.Injector] on a [context.Context].
package dicontext

import (
	"context"
	"reflect"

	"github.com/davidcim/wirinj"
	"github.com/davidcim/wirinj/internal/errors"
)

type injectorContextKey struct{}

// WithInjector returns a new [context.Context] that carries the provided [wirinj.Injector].
func WithInjector(ctx context.Context, inj *wirinj.Injector) context.Context {
	return context.WithValue(ctx, injectorContextKey{}, inj)
}

// Injector returns the [wirinj.Injector] stored on the [context.Context], if present.
func Injector(ctx context.Context) *wirinj.Injector {
	if inj, ok := ctx.Value(injectorContextKey{}).(*wirinj.Injector); ok {
		return inj
	}
	return nil
}

// Get resolves a T with the [wirinj.Injector] stored on the [context.Context].
func Get[T any](ctx context.Context, args ...any) (T, error) {
	var val T

	inj := Injector(ctx)
	if inj == nil {
		return val, errors.Errorf("get %s from context: injector not found on context", reflect.TypeFor[T]())
	}

	return wirinj.Get[T](inj, args...)
}

// MustGet is like [Get] but panics on error.
func MustGet[T any](ctx context.Context, args ...any) T {
	val, err := Get[T](ctx, args...)
	if err != nil {
		panic(err)
	}
	return val
}

// Call calls fn with the [wirinj.Injector] stored on the [context.Context].
// See [wirinj.Injector.Call].
func Call(ctx context.Context, fn any, args ...any) ([]any, error) {
	inj := Injector(ctx)
	if inj == nil {
		return nil, errors.New("call from context: injector not found on context")
	}

	return inj.Call(fn, args...)
}
