package scheduling

import "errors"

// Sentinel errors returned by the availability service. Handlers map these
// to HTTP statuses with errors.Is, so wrapping is fine but replacing is not.
var (
	// ErrSlotConflict means the requested interval overlaps a booking that
	// still occupies its slot. Also returned when the store's uniqueness
	// check rejects a concurrent double-booking.
	ErrSlotConflict = errors.New("time slot conflicts with an existing booking")

	// ErrOutsideSchedule means the requested interval does not fit inside
	// any working range of the professional on that date.
	ErrOutsideSchedule = errors.New("time is outside the professional's working hours")

	// ErrProfessionalNotFound means the professional does not exist in the
	// current tenant.
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrBookingNotFound means the booking does not exist in the current
	// tenant.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidBooking means the request itself is malformed: missing
	// patient data, zero-length interval, unknown status.
	ErrInvalidBooking = errors.New("invalid booking request")
)
