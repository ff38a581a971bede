package command

import (
	"errors"
	"fmt"
)

// SyncError represents a configuration failure of the pre-save sync
// hook. Propagation failures from the engine are wrapped as plain
// errors; SyncError is reserved for problems the user has to fix
// before the save can be trusted.
type SyncError struct {
	// Code identifies the error category.
	Code SyncErrorCode

	// Message is a human-readable description.
	Message string
}

// SyncErrorCode categorizes sync hook errors.
type SyncErrorCode string

const (
	// ErrCodeNoSurface indicates no keyframe editor surface was
	// available to drive copy/paste at save time.
	ErrCodeNoSurface SyncErrorCode = "NO_EDITOR_SURFACE"
)

// Error implements the error interface.
func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNoSurface returns true if the error reports a missing editor
// surface. Uses errors.As to handle wrapped errors.
func IsNoSurface(err error) bool {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNoSurface
	}
	return false
}

// NewNoSurfaceError creates a SyncError for a missing editor surface.
func NewNoSurfaceError() *SyncError {
	return &SyncError{
		Code:    ErrCodeNoSurface,
		Message: "no keyframe editor available to resolve linked frames",
	}
}
