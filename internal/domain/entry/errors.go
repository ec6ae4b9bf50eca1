package entry

import "errors"

var (
	// ErrUnknownCategory indicates a category outside the known set.
	ErrUnknownCategory = errors.New("unknown entry category")
	// ErrPayloadMismatch indicates the populated payload does not match the category.
	ErrPayloadMismatch = errors.New("entry payload does not match category")
	// ErrInvalidEntry indicates a structurally invalid entry.
	ErrInvalidEntry = errors.New("invalid log entry")
)
