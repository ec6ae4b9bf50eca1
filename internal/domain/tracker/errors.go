package tracker

import "errors"

var (
	// ErrInvalidInput indicates an empty or malformed argument to a caller-facing operation.
	ErrInvalidInput = errors.New("invalid tracker input")
	// ErrCorruptSnapshot indicates persisted or imported data that fails validation.
	ErrCorruptSnapshot = errors.New("corrupt tracker snapshot")
	// ErrNoSnapshot indicates nothing has been persisted yet.
	ErrNoSnapshot = errors.New("no persisted snapshot")
)
