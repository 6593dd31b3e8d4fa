package wirinj

import (
	"fmt"
	"reflect"
	"strings"
)

// Param describes one dependency requested while building an object graph: a constructor
// or function parameter, an injected field, or the root of a [Injector.Get] call.
//
// Params are values. Two Params are equal when their name, type and default are equal;
// Private is not part of the identity.
type Param struct {
	// Name is matched by string atoms of definition keys. It may be empty.
	Name string

	// Type is matched by type atoms of definition keys. It may be nil.
	Type reflect.Type

	// Default is used when no Locator finds the dependency and HasDefault is true.
	Default    any
	HasDefault bool

	// Private params are filled by the injector only.
	// Explicit arguments never satisfy them.
	Private bool
}

// Default returns a named Param with a default value, for use with [Fn] and [NewFunc].
func Default(name string, value any) Param {
	return Param{Name: name, Default: value, HasDefault: true}
}

// Injected is a default value that means "this parameter must be injected". A typed
// parameter whose default is Injected behaves as if it had no default.
var Injected any = injectedMarker{}

type injectedMarker struct{}

func (injectedMarker) String() string { return "Injected" }

// String renders the param as name[:type][=default].
func (p Param) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Type != nil {
		b.WriteString(":")
		b.WriteString(p.Type.String())
	}
	if p.HasDefault {
		fmt.Fprintf(&b, "=%v", p.Default)
	}
	return b.String()
}

// Equal reports whether p and o have the same name, type and default.
func (p Param) Equal(o Param) bool {
	if p.Name != o.Name || p.Type != o.Type || p.HasDefault != o.HasDefault {
		return false
	}
	return !p.HasDefault || reflect.DeepEqual(p.Default, o.Default)
}

func (p Param) hasUsableDefault() bool {
	if !p.HasDefault {
		return false
	}
	if _, ok := p.Default.(injectedMarker); ok && p.Type != nil {
		return false
	}
	return true
}

// key identifies the param structurally. Types are identified by their runtime pointer so
// equally named types from different packages do not collide.
func (p Param) key() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte(0)
	if p.Type != nil {
		fmt.Fprintf(&b, "%p", p.Type)
	}
	b.WriteByte(0)
	if p.HasDefault {
		fmt.Fprintf(&b, "%#v", p.Default)
	}
	return b.String()
}

func (p Param) withType(t reflect.Type) Param {
	p.Type = t
	return p
}

// Path is the construction path from the resolution root to the node being built.
// Contextual definitions are matched against its suffix.
type Path []Param

// Last returns the param being resolved, or a zero Param for an empty path.
func (p Path) Last() Param {
	if len(p) == 0 {
		return Param{}
	}
	return p[len(p)-1]
}

// With returns a new path extended with param. p is not modified.
func (p Path) With(param Param) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, param)
}

// String renders the path as "a -> b -> c".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, param := range p {
		parts[i] = param.String()
	}
	return strings.Join(parts, " -> ")
}

func (p Path) key() string {
	var b strings.Builder
	for _, param := range p {
		b.WriteString(param.key())
		b.WriteByte(0x1e)
	}
	return b.String()
}

// NamedArg is an explicit argument matched to a parameter by name rather than position.
type NamedArg struct {
	Name  string
	Value any
}

// Named returns an explicit argument for the parameter called name.
//
//	cat, err := wirinj.Get[*Cat](inj, wirinj.Named("name", "Tom"))
func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// Args holds the explicit arguments passed by a caller for a single build.
// Explicit arguments take precedence over injected values.
type Args struct {
	Positional []any
	Named      map[string]any
}

func newArgs(args []any) Args {
	var a Args
	for _, arg := range args {
		if named, ok := arg.(NamedArg); ok {
			if a.Named == nil {
				a.Named = make(map[string]any)
			}
			a.Named[named.Name] = named.Value
			continue
		}
		a.Positional = append(a.Positional, arg)
	}
	return a
}

// Empty reports whether no explicit arguments were given.
func (a Args) Empty() bool {
	return len(a.Positional) == 0 && len(a.Named) == 0
}

// filterExplicit drops the public params already satisfied by position or by name.
func filterExplicit(params []Param, args Args) []Param {
	if args.Empty() {
		return params
	}

	var out []Param
	pos := 0
	for _, p := range params {
		if !p.Private {
			i := pos
			pos++

			if i < len(args.Positional) {
				continue
			}
			if _, ok := args.Named[p.Name]; ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
