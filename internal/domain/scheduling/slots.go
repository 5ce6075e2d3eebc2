package scheduling

import (
	"sort"
	"time"
)

// GenerateSlots expands normalized working ranges into fixed-duration
// candidate slots.
//
// Within each range, slots are laid back to back from the range start; a
// trailing remainder shorter than the slot duration is dropped, never
// shortened. A slot ending exactly on the range end is kept. When ranges
// overlap, the first range (in the order produced by ResolveForDate) wins
// for any duplicated start time. The result is sorted by start time.
func GenerateSlots(ranges []TimeRange) []CandidateSlot {
	var out []CandidateSlot
	seen := make(map[TimeOfDay]bool)
	for _, r := range ranges {
		if r.SlotMinutes <= 0 {
			continue
		}
		for t := r.Start; !t.Add(r.SlotMinutes).After(r.End); t = t.Add(r.SlotMinutes) {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, CandidateSlot{Start: t, End: t.Add(r.SlotMinutes)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// After reports whether t is strictly after u. It exists so the generator
// loop reads the same for TimeOfDay as it would for time.Time.
func (t TimeOfDay) After(u TimeOfDay) bool { return t > u }

// DropElapsed removes free slots whose start time is not in the future,
// assuming date is today in now's location. Occupied slots are kept even
// when elapsed, so the agenda still shows the morning's appointments in
// the afternoon. Dates other than today are returned unchanged; callers
// are expected not to serve booking pages for past dates.
func DropElapsed(slots []AvailabilitySlot, date time.Time, now time.Time) []AvailabilitySlot {
	if !SameDay(date, now) {
		return slots
	}
	cutoff := TimeOfDay(now.Hour()*60 + now.Minute())
	out := make([]AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		if s.Occupied || s.Start > cutoff {
			out = append(out, s)
		}
	}
	return out
}
