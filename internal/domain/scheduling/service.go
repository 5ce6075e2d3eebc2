package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is the availability engine: it turns schedule configuration and
// existing bookings into day views, and guards new bookings against the
// schedule and against conflicts. The store remains the final arbiter for
// concurrent writers.
type Service struct {
	schedules ScheduleRepository
	bookings  BookingRepository
	now       func() time.Time
}

func NewService(schedules ScheduleRepository, bookings BookingRepository) *Service {
	return &Service{
		schedules: schedules,
		bookings:  bookings,
		now:       time.Now,
	}
}

// SetClock overrides the service's notion of "now". Tests use it to pin
// the elapsed-slot cutoff.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetDaySlots returns the annotated slot sequence for one professional and
// date. A date with no working ranges yields an empty slice, not an error.
// For today, free slots whose start time has already passed are omitted;
// occupied ones stay so the agenda keeps showing earlier appointments.
func (s *Service) GetDaySlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]AvailabilitySlot, error) {
	cfg, err := s.schedules.ConfigForDate(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	ranges := ResolveForDate(cfg, date)
	if len(ranges) == 0 {
		return []AvailabilitySlot{}, nil
	}

	bookings, err := s.bookings.ListForDay(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	slots := Annotate(GenerateSlots(ranges), bookings)
	return DropElapsed(slots, date, s.now()), nil
}

// BookingRequest carries everything needed to create a booking. Start and
// End are free-form within the schedule: they must fit inside a working
// range but need not align to the generated slot grid, so the dashboard
// can place longer or offset appointments.
type BookingRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id"`
	PatientName    string    `json:"patient_name"`
	PatientPhone   string    `json:"patient_phone"`
	Date           time.Time `json:"date"`
	Start          TimeOfDay `json:"start_time"`
	End            TimeOfDay `json:"end_time"`
	Source         string    `json:"source"`
	Notes          *string   `json:"notes,omitempty"`
}

// BookSlot validates the request against the professional's schedule and
// the day's bookings, then writes through CreateChecked so a concurrent
// winner still surfaces as ErrSlotConflict.
func (s *Service) BookSlot(ctx context.Context, req BookingRequest) (*Booking, error) {
	if req.ProfessionalID == uuid.Nil {
		return nil, fmt.Errorf("%w: professional_id is required", ErrInvalidBooking)
	}
	req.PatientName = strings.TrimSpace(req.PatientName)
	if req.PatientName == "" {
		return nil, fmt.Errorf("%w: patient_name is required", ErrInvalidBooking)
	}
	if !req.Start.Valid() || req.End <= req.Start || req.End > MinutesPerDay {
		return nil, fmt.Errorf("%w: end_time must be after start_time within the day", ErrInvalidBooking)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidBooking)
	}
	source := req.Source
	if source == "" {
		source = SourceDashboard
	}
	if source != SourceDashboard && source != SourcePublic && source != SourceMobile {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidBooking, req.Source)
	}

	// Self-service bookings cannot target a time that has already passed.
	// Dashboard users may back-fill, e.g. to record a walk-in.
	if source != SourceDashboard {
		now := s.now()
		if BeforeDay(req.Date, now) {
			return nil, fmt.Errorf("%w: date is in the past", ErrInvalidBooking)
		}
		if SameDay(req.Date, now) && req.Start.Minutes() <= now.Hour()*60+now.Minute() {
			return nil, fmt.Errorf("%w: start_time is in the past", ErrInvalidBooking)
		}
	}

	cfg, err := s.schedules.ConfigForDate(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListForDay(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		return nil, err
	}
	if err := ValidateBooking(req.Start, req.End, ResolveForDate(cfg, req.Date), bookings); err != nil {
		return nil, err
	}

	b := &Booking{
		ProfessionalID: req.ProfessionalID,
		PatientName:    req.PatientName,
		PatientPhone:   strings.TrimSpace(req.PatientPhone),
		Date:           DateOnly(req.Date),
		Start:          req.Start,
		End:            req.End,
		Status:         StatusScheduled,
		Source:         source,
		Notes:          req.Notes,
	}
	if err := s.bookings.CreateChecked(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBooking returns one booking by ID.
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// ListBookings returns a professional's bookings in [from, to] with the
// total count for pagination.
func (s *Service) ListBookings(ctx context.Context, professionalID uuid.UUID, from, to time.Time, limit, offset int) ([]*Booking, int, error) {
	if to.Before(from) {
		return nil, 0, fmt.Errorf("%w: to is before from", ErrInvalidBooking)
	}
	return s.bookings.ListRange(ctx, professionalID, from, to, limit, offset)
}

// UpdateBookingStatus moves a booking to a new status. Releasing statuses
// (cancelled, no_show) free the slot for new bookings.
func (s *Service) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	if !ValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, status)
	}
	return s.bookings.UpdateStatus(ctx, id, status)
}

// CancelBooking is the public-surface cancellation: it only verifies the
// phone number on record before releasing the slot, since patients have no
// authenticated identity.
func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID, phone string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(phone) == "" || b.PatientPhone != strings.TrimSpace(phone) {
		return nil, ErrBookingNotFound
	}
	return s.bookings.UpdateStatus(ctx, id, StatusCancelled)
}
