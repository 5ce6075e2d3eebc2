package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleRepository loads schedule configuration for the availability
// engine.
type ScheduleRepository interface {
	// ConfigForDate returns the professional's default slot duration, the
	// weekly row for the date's weekday, and every block valid on the
	// date, in definition order. Returns ErrProfessionalNotFound when the
	// professional does not exist in the tenant.
	ConfigForDate(ctx context.Context, professionalID uuid.UUID, date time.Time) (*ScheduleConfig, error)
}

// BookingRepository persists bookings. The store, not the service, is the
// final arbiter against double-booking: CreateChecked must fail with
// ErrSlotConflict when a concurrent writer got the slot first.
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListForDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]*Booking, error)
	ListRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time, limit, offset int) ([]*Booking, int, error)
	CreateChecked(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error)
}
