package professional

import (
	"time"

	"github.com/agendia/agendia/internal/domain/scheduling"
	"github.com/google/uuid"
)

// Professional is a clinic member who takes appointments. The default slot
// duration applies wherever a schedule block does not override it.
type Professional struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	FullName           string    `json:"full_name" db:"full_name"`
	Specialty          *string   `json:"specialty,omitempty" db:"specialty"`
	Registry           *string   `json:"registry,omitempty" db:"registry"`
	DefaultSlotMinutes int       `json:"default_slot_minutes" db:"default_slot_minutes"`
	Active             bool      `json:"active" db:"active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// WeeklySlot is the legacy schedule shape: one row per weekday holding the
// working windows for that day. At most one row exists per professional
// and weekday.
type WeeklySlot struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	ProfessionalID uuid.UUID           `json:"professional_id" db:"professional_id"`
	Weekday        time.Weekday        `json:"weekday" db:"weekday"`
	Enabled        bool                `json:"enabled" db:"enabled"`
	Ranges         []scheduling.Window `json:"ranges" db:"ranges"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

// ScheduleBlock is the current schedule shape: a working window that
// applies on a set of weekdays within an optional validity period, with an
// optional slot duration override. Blocks supersede weekly slots on any
// date they cover.
type ScheduleBlock struct {
	ID             uuid.UUID            `json:"id" db:"id"`
	ProfessionalID uuid.UUID            `json:"professional_id" db:"professional_id"`
	Days           []time.Weekday       `json:"days" db:"days"`
	Start          scheduling.TimeOfDay `json:"start_time" db:"start_min"`
	End            scheduling.TimeOfDay `json:"end_time" db:"end_min"`
	SlotMinutes    *int                 `json:"slot_minutes,omitempty" db:"slot_minutes"`
	ValidFrom      *time.Time           `json:"valid_from,omitempty" db:"valid_from"`
	ValidTo        *time.Time           `json:"valid_to,omitempty" db:"valid_to"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
}
