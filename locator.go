package wirinj

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Locator finds the [Strategy] for a dependency, given its construction path.
// Lookup returns a nil Strategy and a nil error when the locator has no answer.
type Locator interface {
	// Initialize binds the locator to the injector using it. It is called once by
	// [NewInjector], before the first Lookup.
	Initialize(inj *Injector)

	Lookup(path Path) (Strategy, error)
}

// LocatorChain asks its locators in order and returns the first answer.
type LocatorChain struct {
	locators []Locator
}

var _ Locator = (*LocatorChain)(nil)

// NewLocatorChain returns a chain of locators. Earlier locators take precedence.
func NewLocatorChain(locators ...Locator) *LocatorChain {
	return &LocatorChain{locators: locators}
}

// Initialize implements [Locator].
func (c *LocatorChain) Initialize(inj *Injector) {
	for _, l := range c.locators {
		l.Initialize(inj)
	}
}

// Lookup implements [Locator].
func (c *LocatorChain) Lookup(path Path) (Strategy, error) {
	for _, l := range c.locators {
		s, err := l.Lookup(path)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, nil
}

func (c *LocatorChain) applyInjector(cfg *injectorConfig) error {
	cfg.locators = append(cfg.locators, c)
	return nil
}

// LocatorCache remembers the answers of a locator by construction path, including the
// paths it has no answer for. Errors are not cached.
type LocatorCache struct {
	locator Locator
	cache   *xsync.MapOf[string, Strategy]
}

var _ Locator = (*LocatorCache)(nil)

// NewLocatorCache wraps locator with a cache.
func NewLocatorCache(locator Locator) *LocatorCache {
	return &LocatorCache{
		locator: locator,
		cache:   xsync.NewMapOf[string, Strategy](),
	}
}

// Initialize implements [Locator].
func (c *LocatorCache) Initialize(inj *Injector) {
	c.cache.Clear()
	c.locator.Initialize(inj)
}

// Lookup implements [Locator].
func (c *LocatorCache) Lookup(path Path) (Strategy, error) {
	key := path.key()
	if s, ok := c.cache.Load(key); ok {
		return s, nil
	}

	s, err := c.locator.Lookup(path)
	if err != nil {
		return nil, err
	}

	s, _ = c.cache.LoadOrStore(key, s)
	return s, nil
}

// Len returns the number of cached paths.
func (c *LocatorCache) Len() int {
	return c.cache.Size()
}

func (c *LocatorCache) applyInjector(cfg *injectorConfig) error {
	cfg.locators = append(cfg.locators, c)
	return nil
}

// parentLocator delegates to the locator of a parent injector, which is already initialized.
type parentLocator struct {
	parent *Injector
}

func (parentLocator) Initialize(*Injector) {}

func (l parentLocator) Lookup(path Path) (Strategy, error) {
	return l.parent.locator.Lookup(path)
}
