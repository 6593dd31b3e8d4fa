package wirinj

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/davidcim/wirinj/internal/errors"
)

// node is one dependency of a creation tree.
type node struct {
	path     Path
	strategy Strategy
	children []*node
	value    any

	// notFound is set when no strategy was located, missing when the node or any of its
	// descendants is not found.
	notFound bool
	missing  bool
}

// resolution builds one creation tree. Nodes are instantiated as soon as their children
// are, so a singleton reached twice is only built once.
type resolution struct {
	inj     *Injector
	logger  *slog.Logger
	top     *frame
	missing []Path
}

// frame marks a value under construction. Providers bound while it is in progress keep
// their frame, so a constructor calling back into the value it is building is a cycle
// even though the provider starts a new resolution.
type frame struct {
	key    any
	parent *frame
	done   atomic.Bool
}

// building reports whether key is still under construction in f or its parents.
func (f *frame) building(key any) bool {
	for ; f != nil; f = f.parent {
		if f.key == key && !f.done.Load() {
			return true
		}
	}
	return false
}

// instantiationFailure carries an error returned by a strategy up to the entry point,
// where it is returned unwrapped.
type instantiationFailure struct {
	err error
}

func (f *instantiationFailure) Error() string {
	return f.err.Error()
}

func (f *instantiationFailure) Unwrap() error {
	return f.err
}

// resolve builds the value of root. A nil strategy means the root is looked up like any
// other dependency. outer is the frame a provider was bound in, if any.
func (inj *Injector) resolve(root Param, s Strategy, args Args, outer *frame) (any, error) {
	r := &resolution{
		inj:    inj,
		logger: inj.logger.With("resolution", uuid.NewString()),
		top:    outer,
	}

	n, err := r.createNode(nil, root, s, args)
	if err != nil {
		return nil, err
	}

	if n.missing {
		tree := formatTree(n)
		r.logger.Error("missing dependencies", "tree", tree)
		return nil, &MissingDependenciesError{Missing: r.missing, Tree: tree}
	}

	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug("creation tree", "tree", formatTree(n))
	}
	return n.value, nil
}

func (r *resolution) createNode(parent Path, p Param, s Strategy, args Args) (*node, error) {
	path := parent.With(p)
	n := &node{path: path}

	if s == nil {
		var err error
		s, err = r.inj.locator.Lookup(path)
		if err != nil {
			return nil, errors.Wrapf(err, "lookup %s", path)
		}
	}

	if s == nil {
		if !p.hasUsableDefault() {
			n.notFound, n.missing = true, true
			r.missing = append(r.missing, path)
			return n, nil
		}
		s = NewValueStrategy(p.Default)
	}
	n.strategy = s

	if params := s.Params(); len(params) > 0 {
		t := s.Type()
		if t != nil && t != p.Type {
			path[len(path)-1] = p.withType(t)
		}

		if k, ok := cycleKey(s); ok {
			if r.top.building(k) {
				return nil, errors.Wrapf(ErrDependencyCycle, "%s", path)
			}

			f := &frame{key: k, parent: r.top}
			r.top = f
			defer func() {
				f.done.Store(true)
				r.top = f.parent
			}()
		}

		for _, cp := range filterExplicit(params, args) {
			child, err := r.createNode(path, cp, nil, Args{})
			if err != nil {
				return nil, err
			}

			n.children = append(n.children, child)
			if child.missing {
				n.missing = true
			}
		}
	}

	if n.missing {
		return n, nil
	}

	values := make(Values, len(n.children))
	for _, c := range n.children {
		values[c.path.Last().Name] = c.value
	}

	val, err := r.instantiate(n, args, values)
	if err != nil {
		return nil, err
	}

	n.value = val
	return n, nil
}

// cycleKey identifies what a strategy builds: the type for instances, the strategy itself
// otherwise.
func cycleKey(s Strategy) (any, bool) {
	inner := s
	if ss, ok := s.(*singletonStrategy); ok {
		inner = ss.inner
	}
	if is, ok := inner.(*instanceStrategy); ok {
		return is.t, true
	}
	if reflect.TypeOf(s).Comparable() {
		return s, true
	}
	return nil, false
}

func (r *resolution) instantiate(n *node, args Args, values Values) (any, error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("instantiation panic", "path", n.path.String(), "panic", p)
			panic(p)
		}
	}()

	var val any
	var err error
	if fs, ok := n.strategy.(*factoryStrategy); ok {
		val = fs.bind(r.top)
	} else {
		val, err = n.strategy.Instantiate(args, values)
	}
	if err != nil {
		var f *instantiationFailure
		if !errors.As(err, &f) {
			r.logger.Error("instantiation error",
				"path", fmt.Sprintf("%s [%T]", n.path, err),
				"error", err,
			)
			err = &instantiationFailure{err: err}
		}
		return nil, err
	}
	return val, nil
}

// entryError shapes an error for the caller of an entry point. Errors of constructors and
// missing dependencies are returned as they are; configuration errors are wrapped.
func entryError(err error, format string, args ...any) error {
	var f *instantiationFailure
	if errors.As(err, &f) {
		return f.err
	}

	var missing *MissingDependenciesError
	if errors.As(err, &missing) {
		return missing
	}

	return errors.Wrapf(err, format, args...)
}

// formatTree renders the tree pre-order, indented by depth.
func formatTree(root *node) string {
	var lines []string

	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		line := strings.Repeat("    ", depth) + n.path.Last().String()
		if n.notFound {
			line += " *** not found ***"
		}
		lines = append(lines, line)

		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)

	return framed(lines)
}

// callStrategy calls a function as the root of a resolution. The results, error included,
// are the value of the root.
type callStrategy struct {
	fn *Func
}

type callResult struct {
	values []any
	err    error
}

func (s callStrategy) Type() reflect.Type {
	return s.fn.Type()
}

func (s callStrategy) Params() []Param {
	return s.fn.Params()
}

func (s callStrategy) Instantiate(args Args, values Values) (any, error) {
	out, err := s.fn.call(args, values)
	if err != nil {
		return nil, err
	}

	vals, err := results(s.fn.Type(), out)
	return callResult{values: vals, err: err}, nil
}
