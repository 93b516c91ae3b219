package planner

import (
	"math"
	"slices"
	"time"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// TransitionBuffer is added after every activity before the next one starts.
const TransitionBuffer = 30 * time.Minute

// DefaultDayStartHour is the hour the clock starts at when nothing else
// anchors the day.
const DefaultDayStartHour = 9

// Reconcile assigns time slots along the sequence. Locked activities keep
// their slot and move the clock to their own start. Unlocked activities are
// placed at the clock, keeping their duration. The input is not mutated.
func Reconcile(acts []domain.Activity, mode domain.TravelMode, dayStart time.Time) []domain.Activity {
	out := slices.Clone(acts)
	clock := dayStart

	for i := range out {
		dur := max(out[i].TimeSlot.Duration(), 0)

		if out[i].IsLocked {
			// A locked activity without a start cannot anchor the clock.
			if !out[i].TimeSlot.Start.IsZero() {
				clock = out[i].TimeSlot.Start
			}
			clock = clock.Add(dur + TransitionBuffer)
			continue
		}

		out[i].TimeSlot = domain.TimeSlot{Start: clock, End: clock.Add(dur)}
		clock = out[i].TimeSlot.End.Add(TransitionBuffer)
		if i+1 < len(out) {
			clock = clock.Add(travelDuration(out[i], out[i+1], mode))
		}
	}
	return out
}

// DetectLockConflicts reports locked activities whose start comes before
// the previous activity's end plus travel and buffer.
func DetectLockConflicts(acts []domain.Activity, mode domain.TravelMode) []domain.LockConflict {
	var conflicts []domain.LockConflict
	for i := 1; i < len(acts); i++ {
		cur, prev := acts[i], acts[i-1]
		if !cur.IsLocked || cur.TimeSlot.Start.IsZero() || prev.TimeSlot.End.IsZero() {
			continue
		}
		required := prev.TimeSlot.End.Add(travelDuration(prev, cur, mode) + TransitionBuffer)
		if !cur.TimeSlot.Start.Before(required) {
			continue
		}
		conflicts = append(conflicts, domain.LockConflict{
			ActivityID:     cur.ID,
			PreviousID:     prev.ID,
			RequiredStart:  required,
			LockedStart:    cur.TimeSlot.Start,
			OverlapMinutes: int(math.Ceil(required.Sub(cur.TimeSlot.Start).Minutes())),
		})
	}
	return conflicts
}

// dayStartFor picks the reconciler clock origin: the explicit option, else
// 09:00 on the day of the first scheduled activity, else 09:00 UTC of the
// zero date.
func dayStartFor(acts []domain.Activity, explicit time.Time) time.Time {
	if !explicit.IsZero() {
		return explicit
	}
	for _, a := range acts {
		if s := a.TimeSlot.Start; !s.IsZero() {
			return time.Date(s.Year(), s.Month(), s.Day(), DefaultDayStartHour, 0, 0, 0, s.Location())
		}
	}
	return time.Date(1, time.January, 1, DefaultDayStartHour, 0, 0, 0, time.UTC)
}
