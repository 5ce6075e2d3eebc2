package scheduling

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch (one ends exactly
// where the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// Annotate marks each candidate slot against the day's bookings. Bookings
// in a released status (cancelled, no_show) are ignored. A booking that
// spans several slots occupies all of them, but its ID is attached only to
// the first slot it overlaps; a slot already carrying one booking's ID is
// not relabeled by a later booking.
//
// For grid-aligned bookings the first overlapped slot is the one whose
// start equals the booking's start. Attaching by first overlap rather than
// equal start keeps the reference visible for back-filled bookings that
// start between grid lines, which would otherwise occupy slots anonymously.
func Annotate(slots []CandidateSlot, bookings []*Booking) []AvailabilitySlot {
	out := make([]AvailabilitySlot, len(slots))
	for i, s := range slots {
		out[i] = AvailabilitySlot{Start: s.Start, End: s.End}
	}
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		linked := false
		for i := range out {
			if !Overlaps(out[i].Start, out[i].End, b.Start, b.End) {
				continue
			}
			out[i].Occupied = true
			if !linked && out[i].BookingID == nil {
				id := b.ID
				out[i].BookingID = &id
				linked = true
			}
		}
	}
	return out
}

// ValidateBooking checks a proposed [start, end) interval against the
// day's working ranges and existing bookings. The interval must fit
// entirely inside a single working range (it need not align to the slot
// grid) and must not overlap any occupying booking. Containment is checked
// first, so an interval that is both outside the schedule and colliding
// reports ErrOutsideSchedule.
func ValidateBooking(start, end TimeOfDay, ranges []TimeRange, bookings []*Booking) error {
	if end <= start {
		return ErrInvalidBooking
	}
	inside := false
	for _, r := range ranges {
		if r.Contains(start, end) {
			inside = true
			break
		}
	}
	if !inside {
		return ErrOutsideSchedule
	}
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			return ErrSlotConflict
		}
	}
	return nil
}
