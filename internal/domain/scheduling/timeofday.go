package scheduling

import (
	"encoding/json"
	"fmt"
)

// TimeOfDay is a clock time within a single day, stored as minutes since
// midnight. Comparisons are plain integer comparisons, so two TimeOfDay
// values on the same date never suffer from timezone or DST drift.
type TimeOfDay int

// MinutesPerDay bounds valid TimeOfDay values (00:00 inclusive to 24:00 exclusive).
const MinutesPerDay = 24 * 60

// ParseTimeOfDay parses an "HH:MM" string (24-hour clock). All four clock
// characters must be digits; strconv-style sign or space tolerance is not
// wanted here.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: hour must be 00-23 and minute 00-59", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MinutesOfDay builds a TimeOfDay from a minute count, for callers that
// already hold minutes since midnight (e.g. database rows).
func MinutesOfDay(min int) (TimeOfDay, error) {
	if min < 0 || min >= MinutesPerDay {
		return 0, fmt.Errorf("invalid time of day: %d minutes", min)
	}
	return TimeOfDay(min), nil
}

// Minutes returns the value as minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// Add returns the time advanced by the given number of minutes. The result
// may exceed 24:00; callers that generate slots rely on that to detect
// ranges the last slot would not fit in.
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

// Valid reports whether the value falls within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < MinutesPerDay }

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes the time as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window is a half-open [Start, End) interval within a day. It is the unit
// in which working hours are stored, both for weekly defaults and for
// date-ranged schedule blocks.
type Window struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Valid reports whether the window has positive length and stays inside a
// single day. Windows that straddle midnight are not supported.
func (w Window) Valid() bool {
	return w.Start.Valid() && w.End > w.Start && w.End <= MinutesPerDay
}
