package wirinj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidcim/wirinj"
	"github.com/davidcim/wirinj/internal/testtypes"
)

func newAutowiredInjector(t *testing.T, opts ...wirinj.AutowiringOption) *wirinj.Injector {
	t.Helper()

	inj, err := wirinj.NewInjector(
		wirinj.WithReflector(testtypes.NewSchema()),
		wirinj.WithModules(wirinj.Module{
			wirinj.Define("sound", "Tweet"),
			wirinj.Define("weight", 0.1),
			wirinj.Define("name", "Tom"),
		}),
		wirinj.NewAutowiring(opts...),
	)
	require.NoError(t, err)

	return inj
}

func Test_Autowiring(t *testing.T) {
	t.Run("named request is a singleton", func(t *testing.T) {
		inj := newAutowiredInjector(t)

		bird := wirinj.MustGet[*testtypes.Bird](inj)
		assert.Same(t, bird, wirinj.MustGet[*testtypes.Bird](inj))
		assert.Equal(t, "Tweet", bird.Sound)
	})

	t.Run("provider builds new instances", func(t *testing.T) {
		inj := newAutowiredInjector(t)
		picker := wirinj.MustGet[*testtypes.PetPicker](inj)

		b1, err := picker.Birds.New()
		require.NoError(t, err)
		b2, err := picker.Birds.New()
		require.NoError(t, err)

		assert.NotSame(t, b1, b2)
		assert.Equal(t, "Tweet", b2.Sound)
	})

	t.Run("provider with explicit arguments", func(t *testing.T) {
		inj := newAutowiredInjector(t)
		picker := wirinj.MustGet[*testtypes.PetPicker](inj)

		tom := picker.Cats.MustNew()
		felix := picker.Cats.MustNew("Felix", true)

		assert.Equal(t, "Tom", tom.Name)
		assert.Equal(t, "Felix", felix.Name)
		assert.True(t, felix.GiftWrapped)
	})

	t.Run("singleton cached before provider", func(t *testing.T) {
		inj := newAutowiredInjector(t)
		bird := wirinj.MustGet[*testtypes.Bird](inj)
		picker := wirinj.MustGet[*testtypes.PetPicker](inj)

		assert.Same(t, bird, picker.Birds.MustNew())
	})

	t.Run("without singletons", func(t *testing.T) {
		inj := newAutowiredInjector(t, wirinj.WithoutSingletons())

		assert.NotSame(t,
			wirinj.MustGet[*testtypes.Bird](inj),
			wirinj.MustGet[*testtypes.Bird](inj),
		)
	})

	t.Run("interfaces are not autowired", func(t *testing.T) {
		inj := newAutowiredInjector(t)

		_, err := wirinj.Get[testtypes.Pet](inj)
		assert.ErrorIs(t, err, wirinj.ErrMissingDependencies)

		_, err = wirinj.Get[wirinj.Provider[testtypes.Pet]](inj)
		assert.ErrorIs(t, err, wirinj.ErrMissingDependencies)
	})

	t.Run("own types are not autowired", func(t *testing.T) {
		inj := newAutowiredInjector(t)

		_, err := wirinj.Get[*wirinj.Schema](inj)
		assert.ErrorIs(t, err, wirinj.ErrMissingDependencies)
	})

	t.Run("not initialized", func(t *testing.T) {
		a := wirinj.NewAutowiring()

		_, err := a.Lookup(wirinj.Path{{Name: "bird", Type: testtypes.TypeBird}})
		assert.ErrorIs(t, err, wirinj.ErrNotInitialized)
	})
}

func Test_AutowiringReport(t *testing.T) {
	report := wirinj.NewAutowiringReport()
	inj := newAutowiredInjector(t, wirinj.WithReport(report))

	picker := wirinj.MustGet[*testtypes.PetPicker](inj)
	_ = picker.Cats.MustNew()
	_ = picker.Cats.MustNew()

	lines := report.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, "wirinj.Define(wirinj.TypeOf[*testtypes.PetPicker](), wirinj.Singleton())", lines[0])
	for _, l := range lines[1:4] {
		assert.Contains(t, l, "wirinj.Provider[")
		assert.Contains(t, l, "wirinj.Factory())")
	}
	assert.Equal(t, "wirinj.Define(wirinj.TypeOf[*testtypes.Cat](), wirinj.Instance())", lines[4])

	out := report.String()
	assert.Contains(t, out, "--------------- wirinj ---------------\nAutowiring report:\n\nwirinj.Module{\n")
	assert.Contains(t, out, "\twirinj.Define(wirinj.TypeOf[*testtypes.Cat](), wirinj.Instance()),\n}\n")
	assert.Contains(t, out, "--------------------------------------")

	t.Run("nil report", func(t *testing.T) {
		var r *wirinj.AutowiringReport
		r.Add("ignored")
		assert.Nil(t, r.Lines())
		assert.Empty(t, r.String())
	})

	t.Run("empty report", func(t *testing.T) {
		assert.Empty(t, wirinj.NewAutowiringReport().String())
	})
}
