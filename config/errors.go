package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration indicates a malformed or inconsistent configuration.
var ErrConfiguration = errors.New("config: invalid configuration")

func fieldError(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, fmt.Sprintf(format, args...))
}
