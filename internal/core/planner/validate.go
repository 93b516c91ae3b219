package planner

import (
	"fmt"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/pkg/geospatial"
)

// Validate checks activities against the strict-mode rules and returns the
// first violation as a *domain.ValidationError.
func Validate(acts []domain.Activity) error {
	seen := make(map[string]struct{}, len(acts))
	for i, a := range acts {
		if a.ID == "" {
			return &domain.ValidationError{
				Kind:    domain.KindMissingID,
				Message: fmt.Sprintf("activity at position %d has no id", i),
			}
		}
		if _, dup := seen[a.ID]; dup {
			return &domain.ValidationError{
				Kind:       domain.KindDuplicateID,
				ActivityID: a.ID,
				Message:    "id is used more than once",
			}
		}
		seen[a.ID] = struct{}{}

		if !geospatial.ValidCoordinate(a.Location.Lat, a.Location.Lon) {
			return &domain.ValidationError{
				Kind:       domain.KindInvalidCoordinate,
				ActivityID: a.ID,
				Message:    fmt.Sprintf("location (%g, %g) is outside ±90/±180", a.Location.Lat, a.Location.Lon),
			}
		}
		if !a.Category.Valid() {
			return &domain.ValidationError{
				Kind:       domain.KindInvalidCategory,
				ActivityID: a.ID,
				Message:    "category is missing or unknown",
			}
		}
		if a.TimeSlot.Duration() < 0 {
			return &domain.ValidationError{
				Kind:       domain.KindNegativeDuration,
				ActivityID: a.ID,
				Message:    "time slot ends before it starts",
			}
		}
		if a.IsLocked && a.TimeSlot.Start.IsZero() {
			return &domain.ValidationError{
				Kind:       domain.KindMissingTimeSlot,
				ActivityID: a.ID,
				Message:    "locked activity has no start time",
			}
		}
	}
	return nil
}

func lockConflictError(c domain.LockConflict) error {
	return &domain.ValidationError{
		Kind:       domain.KindLockConflict,
		ActivityID: c.ActivityID,
		Message: fmt.Sprintf("cannot be reached from %s before %s (%d min short)",
			c.PreviousID, c.LockedStart.Format("15:04"), c.OverlapMinutes),
	}
}
