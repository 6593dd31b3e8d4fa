package wirinj

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDependencies is matched by a [*MissingDependenciesError].
	ErrMissingDependencies = errors.New("missing dependencies")
	// ErrDependencyCycle is returned when a type is needed to build itself.
	ErrDependencyCycle = errors.New("dependency cycle detected")
	// ErrNotInitialized is returned when a locator is used before it is bound to an injector.
	ErrNotInitialized = errors.New("locator not initialized")
)

// MissingDependenciesError is returned when some dependencies could not be located and had
// no default value. Every missing dependency of the resolution is reported.
type MissingDependenciesError struct {
	// Missing holds the construction path of each missing dependency, in tree order.
	Missing []Path
	// Tree is the creation tree, with missing dependencies marked.
	Tree string
}

func (e *MissingDependenciesError) Error() string {
	paths := make([]string, len(e.Missing))
	for i, p := range e.Missing {
		paths[i] = p.String()
	}
	return fmt.Sprintf("missing dependencies: %s", strings.Join(paths, "; "))
}

// Is reports whether target is [ErrMissingDependencies].
func (e *MissingDependenciesError) Is(target error) bool {
	return target == ErrMissingDependencies
}
