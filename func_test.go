package wirinj

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewFunc(t *testing.T) {
	t.Run("names and defaults", func(t *testing.T) {
		f, err := NewFunc(func(name string, weight float64, giftWrapped bool) string { return name },
			"name", Default("weight", 3))
		require.NoError(t, err)

		params := f.Params()
		require.Len(t, params, 3)
		assert.Equal(t, "name:string", params[0].String())
		assert.Equal(t, "weight:float64=3", params[1].String())
		assert.Equal(t, "arg2:bool", params[2].String())
		assert.Equal(t, reflect.TypeFor[string](), f.Out())
		assert.Contains(t, f.Name(), "Test_NewFunc")
	})

	t.Run("params are copied", func(t *testing.T) {
		f := Fn(func(a int) {}, "a")
		f.Params()[0].Name = "b"
		assert.Equal(t, "a", f.Params()[0].Name)
		assert.Nil(t, f.Out())
	})

	t.Run("func passthrough", func(t *testing.T) {
		f := Fn(func(a int) {}, "a")
		got, err := NewFunc(f)
		assert.NoError(t, err)
		assert.Same(t, f, got)

		_, err = NewFunc(f, "b")
		assert.ErrorContains(t, err, "already described")
	})

	t.Run("not a function", func(t *testing.T) {
		_, err := NewFunc(1)
		assert.EqualError(t, err, "new func int: fn must be a function")
	})

	t.Run("nil", func(t *testing.T) {
		_, err := NewFunc(nil)
		assert.EqualError(t, err, "new func: fn is nil")

		var fn func()
		_, err = NewFunc(fn)
		assert.EqualError(t, err, "new func func(): fn is nil")
	})

	t.Run("too many specs", func(t *testing.T) {
		_, err := NewFunc(func(a int) {}, "a", "b")
		assert.EqualError(t, err, "new func func(int): 2 parameter specs for 1 parameters")
	})

	t.Run("bad spec", func(t *testing.T) {
		_, err := NewFunc(func(a int) {}, 1)
		assert.EqualError(t, err, "new func func(int): parameter 0: unexpected spec int")
	})

	t.Run("bad default", func(t *testing.T) {
		_, err := NewFunc(func(a int) {}, Default("a", "x"))
		assert.EqualError(t, err, "new func func(int): parameter a: default: cannot use string as int")
	})

	t.Run("lossy default", func(t *testing.T) {
		_, err := NewFunc(func(size uint8) {}, Default("size", 300))
		assert.EqualError(t, err, "new func func(uint8): parameter size: default: cannot use int 300 as uint8 without loss")
	})

	t.Run("injected default", func(t *testing.T) {
		f, err := NewFunc(func(a int) {}, Default("a", Injected))
		require.NoError(t, err)
		assert.False(t, f.Params()[0].hasUsableDefault())
	})

	t.Run("Fn panics", func(t *testing.T) {
		assert.Panics(t, func() { Fn("not a func") })
	})
}

func Test_Func_build(t *testing.T) {
	f := Fn(func(a, b, c int) int { return a*100 + b*10 + c }, "a", "b", Default("c", 3))

	tests := []struct {
		name   string
		args   Args
		values Values
		want   int
	}{
		{
			name:   "values and default",
			values: Values{"a": 1, "b": 2},
			want:   123,
		},
		{
			name:   "positional wins",
			args:   newArgs([]any{4}),
			values: Values{"a": 1, "b": 2},
			want:   423,
		},
		{
			name:   "named wins",
			args:   newArgs([]any{Named("b", 5)}),
			values: Values{"a": 1, "b": 2},
			want:   153,
		},
		{
			name:   "value wins over default",
			values: Values{"a": 1, "b": 2, "c": 9},
			want:   129,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.build(tt.args, tt.values)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := f.build(Args{}, Values{"a": 1})
		assert.ErrorContains(t, err, "missing argument b:int")
	})

	t.Run("too many", func(t *testing.T) {
		_, err := f.build(newArgs([]any{1, 2, 3, 4}), nil)
		assert.ErrorContains(t, err, "too many arguments: want at most 3, got 4")
	})

	t.Run("unexpected named", func(t *testing.T) {
		_, err := f.build(newArgs([]any{Named("d", 1)}), nil)
		assert.ErrorContains(t, err, `unexpected argument "d"`)
	})
}

func Test_Func_build_error(t *testing.T) {
	errBoom := errors.New("boom")

	f := Fn(func() (string, error) { return "", errBoom })
	_, err := f.build(Args{}, nil)
	assert.Same(t, errBoom, err)

	f = Fn(func() (string, error) { return "ok", nil })
	got, err := f.build(Args{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func Test_Func_variadic(t *testing.T) {
	f := Fn(func(sep string, parts ...string) string { return strings.Join(parts, sep) }, "sep", "parts")

	got, err := f.build(newArgs([]any{"-", []string{"a", "b"}}), nil)
	assert.NoError(t, err)
	assert.Equal(t, "a-b", got)
}

func Test_results(t *testing.T) {
	errBoom := errors.New("boom")
	fn := func() (int, string, error) { return 1, "a", errBoom }

	f := Fn(fn)
	out, err := f.call(Args{}, nil)
	require.NoError(t, err)

	vals, err := results(f.Type(), out)
	assert.Equal(t, []any{1, "a"}, vals)
	assert.Same(t, errBoom, err)
}
