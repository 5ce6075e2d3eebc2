package professional

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agendia/agendia/internal/domain/scheduling"
	"github.com/google/uuid"
)

// ErrValidation wraps all configuration validation failures.
var ErrValidation = errors.New("invalid schedule configuration")

// Service manages professionals and their schedule configuration. All the
// shape rules are enforced here, at write time; the availability engine
// treats stored configuration as data and skips anything unusable rather
// than failing a read.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Professional) error {
	if err := validateProfessional(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Professional, int, error) {
	return s.repo.List(ctx, activeOnly, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Professional) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := validateProfessional(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Deactivate takes the professional off every booking surface without
// touching their history.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) ListWeeklySlots(ctx context.Context, professionalID uuid.UUID) ([]*WeeklySlot, error) {
	if _, err := s.repo.GetByID(ctx, professionalID); err != nil {
		return nil, err
	}
	return s.repo.ListWeeklySlots(ctx, professionalID)
}

// ReplaceWeeklySlots swaps the whole legacy weekly configuration at once.
func (s *Service) ReplaceWeeklySlots(ctx context.Context, professionalID uuid.UUID, slots []*WeeklySlot) error {
	if _, err := s.repo.GetByID(ctx, professionalID); err != nil {
		return err
	}
	seen := make(map[time.Weekday]bool)
	for _, slot := range slots {
		if slot.Weekday < time.Sunday || slot.Weekday > time.Saturday {
			return fmt.Errorf("%w: weekday out of range", ErrValidation)
		}
		if seen[slot.Weekday] {
			return fmt.Errorf("%w: duplicate weekday %s", ErrValidation, slot.Weekday)
		}
		seen[slot.Weekday] = true
		for _, w := range slot.Ranges {
			if !w.Valid() {
				return fmt.Errorf("%w: range %s-%s must start before it ends", ErrValidation, w.Start, w.End)
			}
		}
	}
	return s.repo.ReplaceWeeklySlots(ctx, professionalID, slots)
}

func (s *Service) ListBlocks(ctx context.Context, professionalID uuid.UUID, on *time.Time) ([]*ScheduleBlock, error) {
	if _, err := s.repo.GetByID(ctx, professionalID); err != nil {
		return nil, err
	}
	return s.repo.ListBlocks(ctx, professionalID, on)
}

func (s *Service) CreateBlock(ctx context.Context, b *ScheduleBlock) error {
	if _, err := s.repo.GetByID(ctx, b.ProfessionalID); err != nil {
		return err
	}
	if err := validateBlock(b); err != nil {
		return err
	}
	return s.repo.CreateBlock(ctx, b)
}

func (s *Service) UpdateBlock(ctx context.Context, b *ScheduleBlock) error {
	if err := validateBlock(b); err != nil {
		return err
	}
	return s.repo.UpdateBlock(ctx, b)
}

func (s *Service) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBlock(ctx, id)
}

func validateProfessional(p *Professional) error {
	p.FullName = strings.TrimSpace(p.FullName)
	if p.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if p.DefaultSlotMinutes <= 0 {
		return fmt.Errorf("%w: default_slot_minutes must be positive", ErrValidation)
	}
	return nil
}

func validateBlock(b *ScheduleBlock) error {
	if len(b.Days) == 0 {
		return fmt.Errorf("%w: block needs at least one weekday", ErrValidation)
	}
	seen := make(map[time.Weekday]bool)
	for _, d := range b.Days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday out of range", ErrValidation)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicate weekday %s", ErrValidation, d)
		}
		seen[d] = true
	}
	w := scheduling.Window{Start: b.Start, End: b.End}
	if !w.Valid() {
		return fmt.Errorf("%w: block must start before it ends within one day", ErrValidation)
	}
	if b.SlotMinutes != nil && *b.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot_minutes must be positive", ErrValidation)
	}
	if b.ValidFrom != nil && b.ValidTo != nil && b.ValidTo.Before(*b.ValidFrom) {
		return fmt.Errorf("%w: valid_to is before valid_from", ErrValidation)
	}
	return nil
}
