package wirinj

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/davidcim/wirinj/internal/errors"
)

// Autowiring is a [Locator] that builds dependencies nobody defined, from their type.
// It is usually the last locator of an injector.
//
// For a Provider[T], it provides a factory of T. For a struct, or a pointer to a struct, it
// provides a singleton when the dependency is named (a constructor param, an injected field
// or an [Injector.Get] call) and a new instance otherwise (a [Provider.New] call).
//
// Types from the reflect package and from this package are never autowired.
type Autowiring struct {
	report     *AutowiringReport
	singletons bool
	table      *xsync.MapOf[reflect.Type, Strategy]

	mu  sync.RWMutex
	inj *Injector
}

var _ Locator = (*Autowiring)(nil)

// AutowiringOption configures an [Autowiring] locator.
type AutowiringOption interface {
	applyAutowiring(*Autowiring)
}

type autowiringOptionFunc func(*Autowiring)

func (f autowiringOptionFunc) applyAutowiring(a *Autowiring) {
	f(a)
}

// WithReport records every autowiring decision as a definition in r.
// The report can be pasted into a [Module] to make the wiring explicit.
func WithReport(r *AutowiringReport) AutowiringOption {
	return autowiringOptionFunc(func(a *Autowiring) {
		a.report = r
	})
}

// WithoutSingletons makes named dependencies new instances too.
func WithoutSingletons() AutowiringOption {
	return autowiringOptionFunc(func(a *Autowiring) {
		a.singletons = false
	})
}

// NewAutowiring returns an [Autowiring] locator.
func NewAutowiring(opts ...AutowiringOption) *Autowiring {
	a := &Autowiring{
		singletons: true,
		table:      xsync.NewMapOf[reflect.Type, Strategy](),
	}
	for _, o := range opts {
		o.applyAutowiring(a)
	}
	return a
}

// Initialize implements [Locator].
func (a *Autowiring) Initialize(inj *Injector) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inj != inj {
		a.inj = inj
		a.table.Clear()
	}
}

// Lookup implements [Locator].
func (a *Autowiring) Lookup(path Path) (Strategy, error) {
	a.mu.RLock()
	inj := a.inj
	a.mu.RUnlock()

	if inj == nil {
		return nil, errors.Wrap(ErrNotInitialized, "autowiring")
	}

	p := path.Last()
	t := p.Type
	if t == nil {
		return nil, nil
	}
	if s, ok := a.table.Load(t); ok {
		return s, nil
	}

	if target, ok := providerTarget(t); ok {
		if !a.autowireable(inj, target) {
			return nil, nil
		}

		s, err := newFactoryStrategy(t, target, inj)
		if err != nil {
			return nil, errors.Wrapf(err, "autowiring %s", t)
		}

		actual, loaded := a.table.LoadOrStore(t, s)
		if !loaded {
			a.report.add(t, "Factory")
		}
		return actual, nil
	}

	if !a.autowireable(inj, t) {
		return nil, nil
	}

	s, err := newInstanceStrategy(t, inj.reflector)
	if err != nil {
		return nil, errors.Wrapf(err, "autowiring %s", t)
	}

	if p.Name == "" || !a.singletons {
		a.report.add(t, "Instance")
		return s, nil
	}

	actual, loaded := a.table.LoadOrStore(t, newSingletonStrategy(s))
	if !loaded {
		a.report.add(t, "Singleton")
	}
	return actual, nil
}

// autowireable reports whether t has a registered constructor, or is a named struct type
// or a pointer to one.
func (a *Autowiring) autowireable(inj *Injector, t reflect.Type) bool {
	if _, ok := inj.reflector.Constructor(t); ok {
		return true
	}

	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct || st.Name() == "" {
		return false
	}

	switch st.PkgPath() {
	case "reflect", pkgPath:
		return false
	}
	return true
}

func (a *Autowiring) applyInjector(c *injectorConfig) error {
	c.locators = append(c.locators, a)
	return nil
}

// These frame the blocks written to logs and reports.
const (
	separatorStart = "--------------- wirinj ---------------"
	separatorEnd   = "--------------------------------------"
)

func framed(lines []string) string {
	var b strings.Builder
	b.WriteString(separatorStart)
	b.WriteByte('\n')
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(separatorEnd)
	return b.String()
}

// AutowiringReport collects the definitions an [Autowiring] locator made up.
// A nil report discards them. The zero value is ready to use.
type AutowiringReport struct {
	mu    sync.Mutex
	lines []string
	seen  map[string]struct{}
}

// NewAutowiringReport returns an empty report.
func NewAutowiringReport() *AutowiringReport {
	return &AutowiringReport{}
}

// Add appends line unless it was already added.
func (r *AutowiringReport) Add(line string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[line]; ok {
		return
	}
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	r.seen[line] = struct{}{}
	r.lines = append(r.lines, line)
}

func (r *AutowiringReport) add(t reflect.Type, builder string) {
	r.Add(fmt.Sprintf("wirinj.Define(wirinj.TypeOf[%s](), wirinj.%s())", t, builder))
}

// Lines returns the lines added so far, in order.
func (r *AutowiringReport) Lines() []string {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// String returns the report as a [Module] literal framed by separator lines, or an empty
// string if nothing was autowired.
func (r *AutowiringReport) String() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}

	block := make([]string, 0, len(lines)+4)
	block = append(block, "Autowiring report:", "", "wirinj.Module{")
	for _, l := range lines {
		block = append(block, "\t"+l+",")
	}
	block = append(block, "}")
	return framed(block)
}
