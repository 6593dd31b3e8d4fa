// Package wirinj is a dependency injection library driven by declarative definitions.
//
// Definitions map keys to the way a dependency is built. A key is a param name, a type, or
// a contextual path ending with the dependency, so the same name can be bound differently
// depending on what is being built:
//
//	var world = wirinj.Module{
//		wirinj.Define(wirinj.TypeOf[*Cat](), wirinj.Instance()),
//		wirinj.Define(wirinj.TypeOf[*Dog](), wirinj.Singleton()),
//		wirinj.Define("sound", "?"),
//		wirinj.Define(wirinj.When(wirinj.TypeOf[*Dog](), "sound"), "Woof"),
//	}
//
// The longest matching definition wins. An [Autowiring] locator can build whatever is not
// defined, from types alone.
//
// Dependencies are constructor params, registered with [WithConstructor] or
// [Schema.Register], and struct fields tagged `inject`:
//
//	type Dog struct {
//		Sound string `inject:""`
//	}
//
// Depend on a [Provider] to build values on demand rather than once.
package wirinj
