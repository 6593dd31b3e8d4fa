package errors

import (
	stderrors "errors"
)

// MultiError collects errors from independent steps, such as the definitions of a module,
// so every problem is reported at once.
type MultiError []error

// Append adds err to the collection. Nil errors are ignored.
func (e MultiError) Append(err error) MultiError {
	if err != nil {
		e = append(e, err)
	}
	return e
}

// Join returns nil when nothing was collected, the only error when there is one, and the
// joined errors otherwise.
func (e MultiError) Join() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	}
	return stderrors.Join(e...)
}

// Wrap is Join prefixed with msg.
func (e MultiError) Wrap(msg string) error {
	return Wrap(e.Join(), msg)
}
