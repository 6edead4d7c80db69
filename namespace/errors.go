package namespace

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound indicates a path with neither a value nor descendants.
	ErrKeyNotFound = errors.New("namespace: key not found")

	// ErrInvalidPath indicates a path that cannot hold a value.
	ErrInvalidPath = errors.New("namespace: invalid path")

	// ErrWrongType indicates a value that does not have the requested type.
	ErrWrongType = errors.New("namespace: value has the wrong type")
)

// KeyError reports the path that could not be found.
type KeyError struct {
	Path string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%v: %s", ErrKeyNotFound, e.Path)
}

func (e *KeyError) Unwrap() error {
	return ErrKeyNotFound
}
