package wirinj

import (
	"log/slog"

	"github.com/davidcim/wirinj/internal/errors"
)

// Option configures an [Injector] when calling [NewInjector] or [Injector.NewChild].
type Option interface {
	applyInjector(*injectorConfig) error
}

type injectorConfig struct {
	locators  []Locator
	reflector Reflector
	ctors     []constructorSpec
	logger    *slog.Logger
	noCache   bool
}

type constructorSpec struct {
	fn    any
	specs []any
}

type optionFunc func(*injectorConfig) error

func (f optionFunc) applyInjector(c *injectorConfig) error {
	return f(c)
}

// WithLocator adds a locator. Locators are asked in the order they are added.
func WithLocator(l Locator) Option {
	return optionFunc(func(c *injectorConfig) error {
		if l == nil {
			return errors.New("with locator: locator is nil")
		}

		c.locators = append(c.locators, l)
		return nil
	})
}

// WithReflector sets how types are inspected. The default is a new [*Schema].
func WithReflector(r Reflector) Option {
	return optionFunc(func(c *injectorConfig) error {
		if r == nil {
			return errors.New("with reflector: reflector is nil")
		}

		c.reflector = r
		return nil
	})
}

// WithConstructor registers a constructor with the reflector, which must be a [*Schema].
// See [Schema.Register].
//
//	wirinj.WithConstructor(NewCat, "name", wirinj.Default("giftWrapped", false))
func WithConstructor(ctor any, specs ...any) Option {
	return optionFunc(func(c *injectorConfig) error {
		c.ctors = append(c.ctors, constructorSpec{fn: ctor, specs: specs})
		return nil
	})
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *injectorConfig) error {
		if l == nil {
			return errors.New("with logger: logger is nil")
		}

		c.logger = l
		return nil
	})
}

// WithoutCache disables caching of the locators' answers.
func WithoutCache() Option {
	return optionFunc(func(c *injectorConfig) error {
		c.noCache = true
		return nil
	})
}
