package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses. A booking holds its slot for as long as it is in one of
// the occupying statuses; cancellations and no-shows release the slot.
const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusArrived    = "arrived"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

// Booking sources. Public and mobile are the two self-service surfaces;
// they share the unauthenticated endpoints and the same booking rules.
const (
	SourceDashboard = "dashboard"
	SourcePublic    = "public"
	SourceMobile    = "mobile"
)

var validBookingStatuses = map[string]bool{
	StatusScheduled:  true,
	StatusConfirmed:  true,
	StatusArrived:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
	StatusNoShow:     true,
}

var occupyingStatuses = map[string]bool{
	StatusScheduled:  true,
	StatusConfirmed:  true,
	StatusArrived:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool { return validBookingStatuses[s] }

// Booking is a patient appointment with a professional. Date carries only
// the calendar day; Start and End are clock times within that day.
type Booking struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ProfessionalID uuid.UUID `json:"professional_id" db:"professional_id"`
	PatientName    string    `json:"patient_name" db:"patient_name"`
	PatientPhone   string    `json:"patient_phone" db:"patient_phone"`
	Date           time.Time `json:"date" db:"date"`
	Start          TimeOfDay `json:"start_time" db:"start_min"`
	End            TimeOfDay `json:"end_time" db:"end_min"`
	Status         string    `json:"status" db:"status"`
	Source         string    `json:"source" db:"source"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Occupies reports whether the booking still holds its time slot.
func (b *Booking) Occupies() bool { return occupyingStatuses[b.Status] }

// WeeklyHours is the legacy per-weekday schedule shape: one row per weekday
// with an enabled flag and a set of working windows.
type WeeklyHours struct {
	Enabled bool
	Ranges  []Window
}

// Block is a date-ranged schedule entry. It applies on the listed weekdays
// between ValidFrom and ValidTo (both inclusive, nil means unbounded) and
// may override the professional's default slot duration.
type Block struct {
	ID          uuid.UUID
	Days        []time.Weekday
	Window      Window
	SlotMinutes *int
	ValidFrom   *time.Time
	ValidTo     *time.Time
}

// AppliesOn reports whether the block covers the given date.
func (b Block) AppliesOn(date time.Time) bool {
	wd := date.Weekday()
	match := false
	for _, d := range b.Days {
		if d == wd {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	if b.ValidFrom != nil && BeforeDay(date, *b.ValidFrom) {
		return false
	}
	if b.ValidTo != nil && BeforeDay(*b.ValidTo, date) {
		return false
	}
	return true
}

// DateOnly strips the clock component, keeping the calendar day in the
// value's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day. Days are
// compared by their date components, never as instants: a request date
// parsed at UTC midnight and a wall clock in the server's zone must agree
// on what "today" means.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BeforeDay reports whether a's calendar day is before b's, ignoring the
// clock and location of both values.
func BeforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// ScheduleConfig is everything the availability engine needs to know about
// one professional's working hours: the default slot duration, the legacy
// weekly rows, and the date-ranged blocks. Blocks are kept in the order
// they were defined.
type ScheduleConfig struct {
	ProfessionalID     uuid.UUID
	DefaultSlotMinutes int
	Weekly             map[time.Weekday]WeeklyHours
	Blocks             []Block
}

// TimeRange is one normalized span of working time on a concrete date,
// carrying the slot duration that applies inside it.
type TimeRange struct {
	Start       TimeOfDay
	End         TimeOfDay
	SlotMinutes int
}

// Contains reports whether [start, end) lies entirely inside the range.
func (r TimeRange) Contains(start, end TimeOfDay) bool {
	return start >= r.Start && end <= r.End
}

// CandidateSlot is a bookable interval proposed by the slot generator,
// before bookings are taken into account.
type CandidateSlot struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// AvailabilitySlot is a candidate slot annotated against the day's
// bookings. BookingID is set on the first slot a booking overlaps, so UIs
// can link the occupied slot to the appointment without repeating the
// reference across every slot a long appointment covers.
type AvailabilitySlot struct {
	Start     TimeOfDay  `json:"start_time"`
	End       TimeOfDay  `json:"end_time"`
	Occupied  bool       `json:"occupied"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}
