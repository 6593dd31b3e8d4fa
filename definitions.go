package wirinj

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/davidcim/wirinj/internal/errors"
)

// Key is a contextual definition key: a sequence of atoms matched against the end of the
// construction path. A string atom matches a param name, a [reflect.Type] atom matches a
// param type.
type Key struct {
	atoms []any
}

// When returns a contextual key. The last atom is the dependency being defined, the
// preceding atoms are its ancestors, nearest last:
//
//	// "sound" is "Woof" only while building a *Dog.
//	wirinj.Define(wirinj.When(wirinj.TypeOf[*Dog](), "sound"), "Woof")
func When(atoms ...any) Key {
	return Key{atoms: atoms}
}

// Len returns the number of atoms.
func (k Key) Len() int {
	return len(k.atoms)
}

func (k Key) String() string {
	parts := make([]string, len(k.atoms))
	for i, a := range k.atoms {
		switch a := a.(type) {
		case string:
			parts[i] = fmt.Sprintf("%q", a)
		default:
			parts[i] = fmt.Sprint(a)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (k Key) validate() error {
	if len(k.atoms) == 0 {
		return errors.New("key has no atoms")
	}
	for i, a := range k.atoms {
		switch a := a.(type) {
		case string:
			if a == "" {
				return errors.Errorf("key atom %d: empty name", i)
			}
		case reflect.Type:
			if a == nil {
				return errors.Errorf("key atom %d: nil type", i)
			}
		default:
			return errors.Errorf("key atom %d: unsupported %T, want string or reflect.Type", i, a)
		}
	}
	return nil
}

func (k Key) equal(o Key) bool {
	if len(k.atoms) != len(o.atoms) {
		return false
	}
	for i := range k.atoms {
		if k.atoms[i] != o.atoms[i] {
			return false
		}
	}
	return true
}

// match reports whether the key matches the end of path.
func (k Key) match(path Path) bool {
	if len(k.atoms) > len(path) {
		return false
	}

	offset := len(path) - len(k.atoms)
	for i, a := range k.atoms {
		p := path[offset+i]
		switch a := a.(type) {
		case string:
			if p.Name != a {
				return false
			}
		case reflect.Type:
			if p.Type != a {
				return false
			}
		}
	}
	return true
}

func toKey(key any) (Key, error) {
	var k Key
	switch key := key.(type) {
	case Key:
		k = key
	case string, reflect.Type:
		k = Key{atoms: []any{key}}
	default:
		return k, errors.Errorf("unsupported key %T, want string, reflect.Type or wirinj.Key", key)
	}
	return k, k.validate()
}

// Definitions is a [Locator] backed by explicit definitions.
//
// The definition matching the longest suffix of the construction path wins. Between matches
// of the same length, the one registered last wins.
//
// A Definitions table belongs to the injector it is first used with: the strategies built
// from its builders, singletons included, are kept for the lifetime of that injector.
type Definitions struct {
	entries []*definitionEntry

	mu   sync.RWMutex
	inj  *Injector
	memo *xsync.MapOf[memoKey, Strategy]
}

type definitionEntry struct {
	key   Key
	value any
}

type memoKey struct {
	entry *definitionEntry
	t     reflect.Type
}

var _ Locator = (*Definitions)(nil)

// NewDefinitions merges modules from left to right. A key defined again replaces the
// earlier definition and becomes the most recently registered.
func NewDefinitions(modules ...Module) (*Definitions, error) {
	d := &Definitions{
		memo: xsync.NewMapOf[memoKey, Strategy](),
	}

	var errs errors.MultiError
	for _, m := range modules {
		for _, def := range m {
			k, err := toKey(def.Key)
			if err != nil {
				errs = errs.Append(errors.Wrapf(err, "define %v", def.Key))
				continue
			}
			d.add(k, def.Value)
		}
	}

	if err := errs.Wrap("new definitions"); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDefinitions is like [NewDefinitions] but panics on error.
func MustDefinitions(modules ...Module) *Definitions {
	d, err := NewDefinitions(modules...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definitions) add(k Key, value any) {
	for i, e := range d.entries {
		if e.key.equal(k) {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			break
		}
	}
	d.entries = append(d.entries, &definitionEntry{key: k, value: value})
}

// Len returns the number of definitions.
func (d *Definitions) Len() int {
	return len(d.entries)
}

// Initialize implements [Locator].
func (d *Definitions) Initialize(inj *Injector) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inj != inj {
		d.inj = inj
		d.memo.Clear()
	}
}

// Lookup implements [Locator].
func (d *Definitions) Lookup(path Path) (Strategy, error) {
	d.mu.RLock()
	inj := d.inj
	d.mu.RUnlock()

	if inj == nil {
		return nil, errors.Wrap(ErrNotInitialized, "definitions")
	}

	e := d.find(path)
	if e == nil {
		return nil, nil
	}

	switch v := e.value.(type) {
	case Strategy:
		return v, nil
	case Builder:
		s, err := d.build(e, v, path, inj)
		if err != nil {
			return nil, errors.Wrapf(err, "definition %s", e.key)
		}
		return s, nil
	default:
		return NewValueStrategy(v), nil
	}
}

func (d *Definitions) find(path Path) *definitionEntry {
	var best *definitionEntry
	bestLen := 0

	for _, e := range d.entries {
		n := e.key.Len()
		if n >= bestLen && e.key.match(path) {
			best, bestLen = e, n
		}
	}
	return best
}

// build runs the builder once per entry and requested type.
func (d *Definitions) build(e *definitionEntry, b Builder, path Path, inj *Injector) (Strategy, error) {
	k := memoKey{entry: e, t: path.Last().Type}
	if s, ok := d.memo.Load(k); ok {
		return s, nil
	}

	s, err := b.Build(path, inj)
	if err != nil {
		return nil, err
	}

	s, _ = d.memo.LoadOrStore(k, s)
	return s, nil
}

func (d *Definitions) applyInjector(c *injectorConfig) error {
	c.locators = append(c.locators, d)
	return nil
}
