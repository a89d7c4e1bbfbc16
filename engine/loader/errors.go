package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailure matches every error delivered in a failed Result.
	ErrLoadFailure = errors.New("asset load failed")

	// ErrUnsupportedFormat is returned for model files no backend can decode.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrLoaderClosed is returned for loads requested after Close.
	ErrLoaderClosed = errors.New("loader is closed")
)

// LoadError describes a failed load. It matches ErrLoadFailure with errors.Is and unwraps to the cause.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrLoadFailure.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}
