package wirinj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidcim/wirinj"
)

// countingLocator answers every lookup with the same strategy and counts the lookups.
type countingLocator struct {
	strategy    wirinj.Strategy
	lookups     int
	initialized *wirinj.Injector
}

func (l *countingLocator) Initialize(inj *wirinj.Injector) {
	l.initialized = inj
}

func (l *countingLocator) Lookup(wirinj.Path) (wirinj.Strategy, error) {
	l.lookups++
	return l.strategy, nil
}

func Test_LocatorChain(t *testing.T) {
	empty := &countingLocator{}
	first := &countingLocator{strategy: wirinj.NewValueStrategy("first")}
	second := &countingLocator{strategy: wirinj.NewValueStrategy("second")}

	chain := wirinj.NewLocatorChain(empty, first, second)
	inj, err := wirinj.NewInjector(chain, wirinj.WithoutCache())
	require.NoError(t, err)

	assert.Same(t, inj, empty.initialized)
	assert.Same(t, inj, second.initialized)

	got, err := wirinj.Get[string](inj)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
	assert.Equal(t, 1, empty.lookups)
	assert.Equal(t, 1, first.lookups)
	assert.Equal(t, 0, second.lookups)
}

func Test_LocatorCache(t *testing.T) {
	t.Run("caches answers", func(t *testing.T) {
		l := &countingLocator{strategy: wirinj.NewValueStrategy("x")}
		inj, err := wirinj.NewInjector(wirinj.WithLocator(l))
		require.NoError(t, err)

		for range 3 {
			assert.Equal(t, "x", wirinj.MustGet[string](inj))
		}
		assert.Equal(t, 1, l.lookups)
	})

	t.Run("caches misses", func(t *testing.T) {
		l := &countingLocator{}
		c := wirinj.NewLocatorCache(l)
		c.Initialize(nil)

		path := wirinj.Path{{Name: "sound"}}
		for range 3 {
			s, err := c.Lookup(path)
			assert.NoError(t, err)
			assert.Nil(t, s)
		}
		assert.Equal(t, 1, l.lookups)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("keyed by path", func(t *testing.T) {
		l := &countingLocator{}
		c := wirinj.NewLocatorCache(l)

		_, _ = c.Lookup(wirinj.Path{{Name: "sound"}})
		_, _ = c.Lookup(wirinj.Path{{Name: "dog"}, {Name: "sound"}})
		_, _ = c.Lookup(wirinj.Path{{Name: "sound", Default: "?", HasDefault: true}})
		_, _ = c.Lookup(wirinj.Path{{Name: "sound", Private: true}})
		assert.Equal(t, 3, l.lookups)
	})

	t.Run("without cache", func(t *testing.T) {
		l := &countingLocator{strategy: wirinj.NewValueStrategy("x")}
		inj, err := wirinj.NewInjector(wirinj.WithLocator(l), wirinj.WithoutCache())
		require.NoError(t, err)

		for range 3 {
			assert.Equal(t, "x", wirinj.MustGet[string](inj))
		}
		assert.Equal(t, 3, l.lookups)
	})

	t.Run("initialize clears", func(t *testing.T) {
		l := &countingLocator{}
		c := wirinj.NewLocatorCache(l)

		_, _ = c.Lookup(wirinj.Path{{Name: "sound"}})
		c.Initialize(nil)
		assert.Equal(t, 0, c.Len())
	})
}
