package scheduling

import "github.com/careops/hospital-console/internal/timeutil"

// ShouldSkipReschedule reports whether a reschedule draft would write back
// the appointment's existing date and slot. Such updates are elided
// entirely: the HIS would release and re-claim the same slot for nothing,
// and a race in that window could lose it.
func ShouldSkipReschedule(existingDate string, existingSlotID int, d *Draft) bool {
	if d == nil || !d.IsReschedule() {
		return false
	}
	return d.ChosenSlotID == existingSlotID &&
		timeutil.CanonicalDate(d.Date) == timeutil.CanonicalDate(existingDate)
}
