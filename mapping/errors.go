package mapping

import "errors"

var (
	// ErrIncompatibleGrid indicates a mapper that cannot map between the
	// given grids.
	ErrIncompatibleGrid = errors.New("mapping: incompatible grids")

	// ErrRegridBuild indicates a failure while building a mapping operator.
	ErrRegridBuild = errors.New("mapping: cannot build regrid operator")

	// ErrUnmapped indicates destination locations no source location covers.
	ErrUnmapped = errors.New("mapping: unmapped destination locations")

	// ErrSizeMismatch indicates a value array that does not match its grid.
	ErrSizeMismatch = errors.New("mapping: value array size mismatch")

	// ErrNotInitialized indicates a Run before Initialize.
	ErrNotInitialized = errors.New("mapping: mapper not initialized")

	// ErrUnknownMethod indicates a method name no mapper implements.
	ErrUnknownMethod = errors.New("mapping: unknown method")

	// ErrInvalidOptions indicates options that contradict the method.
	ErrInvalidOptions = errors.New("mapping: invalid options")
)
