package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/watchlog/internal/domain/entry"
	"github.com/rpggio/watchlog/internal/domain/tracker"
	"github.com/rpggio/watchlog/internal/names"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "subject id is required", RecoveryHint: "Pass a non-empty subject_id"}
	case errors.Is(err, names.ErrInvalidName):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid name", RecoveryHint: "Kind must be channel, guild or subject; id and name must be non-empty"}
	case errors.Is(err, tracker.ErrCorruptSnapshot),
		errors.Is(err, entry.ErrUnknownCategory),
		errors.Is(err, entry.ErrPayloadMismatch),
		errors.Is(err, entry.ErrInvalidEntry):
		return &APIError{Code: "CORRUPT_SNAPSHOT", Message: "snapshot is not valid", Details: err.Error(), RecoveryHint: "Import a document produced by export_json"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
