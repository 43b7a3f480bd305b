package scheduling

import (
	"errors"
	"fmt"

	"github.com/careops/hospital-console/internal/availability"
)

var (
	// ErrDraftNotFound is returned when a draft id is unknown or expired.
	ErrDraftNotFound = errors.New("scheduling: draft not found")

	// ErrStaleSlotList is returned when a slot pick references a date other
	// than the draft's current one. Slot ids are scoped to the date that
	// produced them, so a stale pick is never accepted.
	ErrStaleSlotList = errors.New("scheduling: slot list is stale for the draft's current date")
)

// ValidationError is a locally caught required-field failure. It never
// reaches the HIS; handlers surface it inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scheduling: %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError is the HIS rejecting a submit because the slot was taken
// between resolution and submission. Slots carries the freshly re-resolved
// availability so the caller can offer a retry without resubmitting a stale
// list.
type ConflictError struct {
	Message string
	Slots   []availability.Slot
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return "scheduling: slot conflict: " + e.Message
	}
	return "scheduling: slot conflict"
}

// IsConflict reports whether err is a slot conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
