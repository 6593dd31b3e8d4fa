package wirinj

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Param_String(t *testing.T) {
	tests := []struct {
		name  string
		param Param
		want  string
	}{
		{
			name:  "name only",
			param: Param{Name: "sound"},
			want:  "sound",
		},
		{
			name:  "name and type",
			param: Param{Name: "sound", Type: reflect.TypeFor[string]()},
			want:  "sound:string",
		},
		{
			name:  "with default",
			param: Param{Name: "weight", Type: reflect.TypeFor[float64](), Default: 5, HasDefault: true},
			want:  "weight:float64=5",
		},
		{
			name:  "type only",
			param: Param{Type: reflect.TypeFor[*Injector]()},
			want:  ":*wirinj.Injector",
		},
		{
			name:  "injected default",
			param: Param{Name: "db", Default: Injected, HasDefault: true},
			want:  "db=Injected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.param.String())
		})
	}
}

func Test_Param_Equal(t *testing.T) {
	a := Param{Name: "sound", Type: reflect.TypeFor[string](), Default: "?", HasDefault: true}

	b := a
	b.Private = true
	assert.True(t, a.Equal(b), "private is not part of the identity")
	assert.Equal(t, a.key(), b.key())

	c := a
	c.Default = "!"
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.key(), c.key())

	d := a
	d.Type = reflect.TypeFor[int]()
	assert.False(t, a.Equal(d))
}

func Test_Param_hasUsableDefault(t *testing.T) {
	typ := reflect.TypeFor[string]()

	assert.False(t, Param{Name: "a", Type: typ}.hasUsableDefault())
	assert.True(t, Param{Name: "a", Type: typ, HasDefault: true}.hasUsableDefault(), "nil default")
	assert.True(t, Param{Name: "a", Type: typ, Default: "x", HasDefault: true}.hasUsableDefault())
	assert.False(t, Param{Name: "a", Type: typ, Default: Injected, HasDefault: true}.hasUsableDefault())
	assert.True(t, Param{Name: "a", Default: Injected, HasDefault: true}.hasUsableDefault(), "untyped")
}

func Test_Path(t *testing.T) {
	root := Param{Name: "dog", Type: reflect.TypeFor[string]()}
	p := Path{root}

	q := p.With(Param{Name: "sound"})
	assert.Len(t, p, 1, "With must not modify the receiver")
	assert.Equal(t, "dog:string -> sound", q.String())
	assert.Equal(t, "sound", q.Last().Name)
	assert.Equal(t, Param{}, Path{}.Last())

	assert.NotEqual(t, p.key(), q.key())
	assert.Equal(t, q.key(), Path{root, {Name: "sound"}}.key())
}

func Test_newArgs(t *testing.T) {
	args := newArgs([]any{1, Named("name", "Tom"), "x"})

	assert.Equal(t, []any{1, "x"}, args.Positional)
	assert.Equal(t, map[string]any{"name": "Tom"}, args.Named)
	assert.False(t, args.Empty())
	assert.True(t, newArgs(nil).Empty())
}

func Test_filterExplicit(t *testing.T) {
	params := []Param{
		{Name: "sound", Private: true},
		{Name: "name"},
		{Name: "age"},
		{Name: "giftWrapped"},
	}

	t.Run("no args", func(t *testing.T) {
		assert.Equal(t, params, filterExplicit(params, Args{}))
	})

	t.Run("positional and named", func(t *testing.T) {
		got := filterExplicit(params, newArgs([]any{"Tom", Named("giftWrapped", true)}))
		assert.Equal(t, []Param{params[0], params[2]}, got)
	})

	t.Run("private never filtered", func(t *testing.T) {
		got := filterExplicit(params, newArgs([]any{Named("sound", "Meow")}))
		assert.Equal(t, params, got)
	})
}

func Test_Key_match(t *testing.T) {
	dog := reflect.TypeFor[*Injector]()
	path := Path{
		{Name: "owner"},
		{Name: "dog", Type: dog},
		{Name: "sound", Type: reflect.TypeFor[string]()},
	}

	tests := []struct {
		name string
		key  Key
		want bool
	}{
		{name: "name", key: When("sound"), want: true},
		{name: "type", key: When(reflect.TypeFor[string]()), want: true},
		{name: "ancestor type", key: When(dog, "sound"), want: true},
		{name: "ancestor name", key: When("dog", "sound"), want: true},
		{name: "full path", key: When("owner", dog, "sound"), want: true},
		{name: "not a suffix", key: When("owner", "sound"), want: false},
		{name: "other name", key: When("weight"), want: false},
		{name: "too long", key: When("house", "owner", dog, "sound"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.match(path))
		})
	}
}

func Test_Key_validate(t *testing.T) {
	assert.EqualError(t, When().validate(), "key has no atoms")
	assert.EqualError(t, When("").validate(), "key atom 0: empty name")
	assert.EqualError(t, When("a", 1).validate(), "key atom 1: unsupported int, want string or reflect.Type")
	assert.NoError(t, When("a", reflect.TypeFor[int]()).validate())
}

func Test_assignValue(t *testing.T) {
	t.Run("assignable", func(t *testing.T) {
		v, err := assignValue(reflect.TypeFor[any](), "x")
		assert.NoError(t, err)
		assert.Equal(t, "x", v.Interface())
	})

	t.Run("numeric conversion", func(t *testing.T) {
		v, err := assignValue(reflect.TypeFor[float64](), 5)
		assert.NoError(t, err)
		assert.Equal(t, 5.0, v.Interface())
	})

	t.Run("exact numeric conversions", func(t *testing.T) {
		tests := []struct {
			t    reflect.Type
			val  any
			want any
		}{
			{reflect.TypeFor[uint8](), 255, uint8(255)},
			{reflect.TypeFor[int8](), -128, int8(-128)},
			{reflect.TypeFor[int](), 3.0, 3},
			{reflect.TypeFor[uint](), int64(7), uint(7)},
			{reflect.TypeFor[int16](), uint32(300), int16(300)},
			{reflect.TypeFor[float32](), 0.5, float32(0.5)},
		}
		for _, tt := range tests {
			v, err := assignValue(tt.t, tt.val)
			if assert.NoError(t, err, "%T %v as %s", tt.val, tt.val, tt.t) {
				assert.Equal(t, tt.want, v.Interface())
			}
		}
	})

	t.Run("lossy numeric conversions", func(t *testing.T) {
		tests := []struct {
			name string
			t    reflect.Type
			val  any
		}{
			{"overflow", reflect.TypeFor[uint8](), 300},
			{"signed overflow", reflect.TypeFor[int8](), 128},
			{"negative to unsigned", reflect.TypeFor[uint](), -1},
			{"fraction to integer", reflect.TypeFor[int](), 2.9},
			{"float overflow", reflect.TypeFor[int32](), 1e12},
			{"unsigned to signed overflow", reflect.TypeFor[int64](), uint64(math.MaxUint64)},
			{"float32 overflow", reflect.TypeFor[float32](), 1e300},
			{"NaN to integer", reflect.TypeFor[int](), math.NaN()},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := assignValue(tt.t, tt.val)
				assert.ErrorContains(t, err, "without loss")
			})
		}
	})

	t.Run("lossy value in definitions", func(t *testing.T) {
		type sized struct {
			Size  uint8 `inject:""`
			Count int   `inject:""`
		}

		inj, err := NewInjector(WithModules(Module{
			Define(TypeOf[*sized](), Instance()),
			Define("size", 300),
			Define("count", 2.9),
		}))
		require.NoError(t, err)

		_, err = Get[*sized](inj)
		assert.ErrorContains(t, err, "cannot use int 300 as uint8 without loss")
	})

	t.Run("nil", func(t *testing.T) {
		v, err := assignValue(reflect.TypeFor[*Injector](), nil)
		assert.NoError(t, err)
		assert.True(t, v.IsNil())
	})

	t.Run("not assignable", func(t *testing.T) {
		_, err := assignValue(reflect.TypeFor[int](), "x")
		assert.EqualError(t, err, "cannot use string as int")
	})
}
