package booking

import "time"

// Overlaps reports whether the half-open ranges [s1, e1) and [s2, e2)
// share at least one instant. Back-to-back ranges, where one ends exactly
// when the other starts, do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FindConflict returns the first live booking among the candidates whose
// range overlaps [startDate, endDate), or nil if none does. Bookings in a
// terminal or declined state never conflict.
func FindConflict(candidates []*Booking, startDate, endDate time.Time) *Booking {
	for _, b := range candidates {
		if !b.IsLive() {
			continue
		}
		if Overlaps(b.StartDate(), b.EndDate(), startDate, endDate) {
			return b
		}
	}
	return nil
}
