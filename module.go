package wirinj

import (
	"github.com/davidcim/wirinj/internal/errors"
)

// Definition binds a key to a value. The value is a [Strategy], a [Builder], or any other
// value, which is provided as is.
type Definition struct {
	Key   any
	Value any
}

// Define returns a [Definition]. The key is a name, a [reflect.Type] (see [TypeOf]) or a
// contextual [Key] (see [When]).
func Define(key any, value any) Definition {
	return Definition{Key: key, Value: value}
}

// A Module is a collection of definitions.
// It can be used to export a re-usable group of related dependencies.
//
// Example:
//
//	var PetsModule = wirinj.Module{
//		wirinj.Define(wirinj.TypeOf[*Cat](), wirinj.Instance()),
//		wirinj.Define("sound", "Meow"),
//	}
type Module []Definition

// WithModules adds a [Definitions] locator built from modules, merged from left to right.
//
// Example:
//
//	inj, err := wirinj.NewInjector(
//		wirinj.WithModules(PetsModule, OverridesModule),
//		wirinj.NewAutowiring(),
//	)
func WithModules(modules ...Module) Option {
	return optionFunc(func(c *injectorConfig) error {
		d, err := NewDefinitions(modules...)
		if err != nil {
			return errors.Wrap(err, "with modules")
		}

		c.locators = append(c.locators, d)
		return nil
	})
}
