package professional

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means the professional does not exist in the tenant.
	ErrNotFound = errors.New("professional not found")

	// ErrBlockNotFound means the schedule block does not exist.
	ErrBlockNotFound = errors.New("schedule block not found")
)

// Repository persists professionals and their schedule configuration.
type Repository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id uuid.UUID) (*Professional, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Professional, int, error)
	Update(ctx context.Context, p *Professional) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	ListWeeklySlots(ctx context.Context, professionalID uuid.UUID) ([]*WeeklySlot, error)
	ReplaceWeeklySlots(ctx context.Context, professionalID uuid.UUID, slots []*WeeklySlot) error

	ListBlocks(ctx context.Context, professionalID uuid.UUID, on *time.Time) ([]*ScheduleBlock, error)
	CreateBlock(ctx context.Context, b *ScheduleBlock) error
	UpdateBlock(ctx context.Context, b *ScheduleBlock) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}
