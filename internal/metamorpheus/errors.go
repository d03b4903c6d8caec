package metamorpheus

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfiguration marks digestion settings the engine cannot
	// express, e.g. more than one enzyme.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	// ErrUnsupportedModificationType marks a modification whose type has no
	// position literal.
	ErrUnsupportedModificationType = errors.New("unsupported modification type")
	// ErrIO marks failures creating, writing or closing an output file.
	ErrIO = errors.New("i/o failure")
)

func ioFailure(what, path string, err error) error {
	return fmt.Errorf("metamorpheus: could not create %s %s: %w: %w", what, path, ErrIO, err)
}

// FailureKind classifies err for metrics and exit reporting.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedConfiguration):
		return "unsupported_configuration"
	case errors.Is(err, ErrUnsupportedModificationType):
		return "unsupported_modification_type"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "other"
	}
}
