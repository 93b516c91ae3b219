package domain

import (
	"errors"
	"fmt"
)

// ValidationKind names the rule a ValidationError broke.
type ValidationKind string

const (
	KindInvalidCoordinate ValidationKind = "invalid_coordinate"
	KindDuplicateID       ValidationKind = "duplicate_id"
	KindNegativeDuration  ValidationKind = "negative_duration"
	KindLockConflict      ValidationKind = "lock_conflict"
	KindInvalidOption     ValidationKind = "invalid_option"
	KindInvalidCategory   ValidationKind = "invalid_category"
	KindMissingID         ValidationKind = "missing_id"
	KindMissingTimeSlot   ValidationKind = "missing_time_slot"
)

// ValidationError is returned in strict mode when input breaks a rule.
type ValidationError struct {
	Kind       ValidationKind `json:"kind"`
	ActivityID string         `json:"activity_id,omitempty"`
	Message    string         `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.ActivityID != "" {
		return fmt.Sprintf("%s: activity %s: %s", e.Kind, e.ActivityID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when an optional backend is not configured.
var ErrUnavailable = errors.New("service unavailable")
