package scheduling

import "time"

// ResolveForDate normalizes a professional's schedule configuration into
// the concrete working ranges for one calendar date.
//
// Date-ranged blocks take precedence over the legacy weekly rows: if any
// block applies on the date, the weekly row for that weekday is ignored
// entirely, even when the block covers fewer hours. Only when no block
// applies does the weekday's legacy row contribute, and only if it is
// enabled.
//
// Blocks are emitted latest-defined first, so that when two blocks produce
// the same slot start time the downstream generator (which keeps the first
// occurrence) resolves the tie in favor of the block defined last.
//
// Entries whose window is empty or inverted are skipped rather than
// rejected: a misconfigured range silently yields no slots, matching how
// the rest of the config is treated as data, not input to validate here.
func ResolveForDate(cfg *ScheduleConfig, date time.Time) []TimeRange {
	if cfg == nil {
		return nil
	}

	var out []TimeRange
	blockApplies := false
	for i := len(cfg.Blocks) - 1; i >= 0; i-- {
		b := cfg.Blocks[i]
		if !b.AppliesOn(date) {
			continue
		}
		blockApplies = true
		if !b.Window.Valid() {
			continue
		}
		dur := cfg.DefaultSlotMinutes
		if b.SlotMinutes != nil && *b.SlotMinutes > 0 {
			dur = *b.SlotMinutes
		}
		if dur <= 0 {
			continue
		}
		out = append(out, TimeRange{Start: b.Window.Start, End: b.Window.End, SlotMinutes: dur})
	}
	if blockApplies {
		// A block covering this date supersedes the weekly row even when
		// it yields no usable ranges.
		return out
	}

	// No block applies; fall back to the legacy weekly row.
	wh, ok := cfg.Weekly[date.Weekday()]
	if !ok || !wh.Enabled || cfg.DefaultSlotMinutes <= 0 {
		return nil
	}
	for _, w := range wh.Ranges {
		if !w.Valid() {
			continue
		}
		out = append(out, TimeRange{Start: w.Start, End: w.End, SlotMinutes: cfg.DefaultSlotMinutes})
	}
	return out
}
