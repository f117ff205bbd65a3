// Package schedule holds the weekly time-slot overlap rules used by the
// enrollment gate. It has no side effects and no dependencies beyond the
// domain types.
package schedule

import (
	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
)

// Overlaps reports whether two slots collide: same day and intersecting
// half-open [start, end) ranges. Adjacent slots (a.end == b.start) do not
// collide.
func Overlaps(a, b domain.Slot) bool {
	if a.Day != b.Day {
		return false
	}
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// Conflicts reports whether any candidate slot collides with any existing
// slot. It returns on the first conflicting pair.
func Conflicts(candidate, existing []domain.Slot) bool {
	for _, c := range candidate {
		for _, e := range existing {
			if Overlaps(c, e) {
				return true
			}
		}
	}
	return false
}

// SelfConflicts reports whether any two slots within one schedule collide
// with each other. Used when validating a new course's weekly schedule.
func SelfConflicts(slots []domain.Slot) bool {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if Overlaps(slots[i], slots[j]) {
				return true
			}
		}
	}
	return false
}
