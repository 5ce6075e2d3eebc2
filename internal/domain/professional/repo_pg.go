package professional

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agendia/agendia/internal/domain/scheduling"
	"github.com/agendia/agendia/internal/platform/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by the tenant's Postgres schema.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const profCols = `id, full_name, specialty, registry, default_slot_minutes, active, created_at, updated_at`

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.FullName, &p.Specialty, &p.Registry,
		&p.DefaultSlotMinutes, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Professional) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO professional (id, full_name, specialty, registry, default_slot_minutes, active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		p.ID, p.FullName, p.Specialty, p.Registry, p.DefaultSlotMinutes, p.Active).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert professional: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+profCols+` FROM professional WHERE id = $1`, id)
	p, err := scanProfessional(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Professional, int, error) {
	where := ""
	if activeOnly {
		where = " WHERE active = true"
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM professional`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count professionals: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+profCols+` FROM professional`+where+`
		ORDER BY full_name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	var out []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan professional: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Professional) error {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE professional
		SET full_name = $2, specialty = $3, registry = $4,
			default_slot_minutes = $5, active = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.FullName, p.Specialty, p.Registry, p.DefaultSlotMinutes, p.Active)
	err := row.Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE professional SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate professional: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListWeeklySlots(ctx context.Context, professionalID uuid.UUID) ([]*WeeklySlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, professional_id, weekday, enabled, ranges, created_at, updated_at
		FROM weekly_slot
		WHERE professional_id = $1
		ORDER BY weekday`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}
	defer rows.Close()

	var out []*WeeklySlot
	for rows.Next() {
		var (
			s         WeeklySlot
			weekday   int
			rangesRaw []byte
		)
		if err := rows.Scan(&s.ID, &s.ProfessionalID, &weekday, &s.Enabled, &rangesRaw, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan weekly slot: %w", err)
		}
		s.Weekday = time.Weekday(weekday)
		if len(rangesRaw) > 0 {
			if err := json.Unmarshal(rangesRaw, &s.Ranges); err != nil {
				return nil, fmt.Errorf("decode weekly ranges: %w", err)
			}
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// ReplaceWeeklySlots swaps the professional's full weekly configuration in
// one transaction, so the booking page never observes a half-written week.
func (r *repoPG) ReplaceWeeklySlots(ctx context.Context, professionalID uuid.UUID, slots []*WeeklySlot) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return fmt.Errorf("begin weekly slot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM weekly_slot WHERE professional_id = $1`, professionalID); err != nil {
		return fmt.Errorf("clear weekly slots: %w", err)
	}
	for _, s := range slots {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.ProfessionalID = professionalID
		ranges, err := json.Marshal(s.Ranges)
		if err != nil {
			return fmt.Errorf("encode weekly ranges: %w", err)
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO weekly_slot (id, professional_id, weekday, enabled, ranges)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING created_at, updated_at`,
			s.ID, professionalID, int(s.Weekday), s.Enabled, ranges).
			Scan(&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert weekly slot: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *repoPG) begin(ctx context.Context) (pgx.Tx, error) {
	if c := db.ConnFromContext(ctx); c != nil {
		return c.Begin(ctx)
	}
	return r.pool.Begin(ctx)
}

const blockCols = `id, professional_id, days, start_min, end_min, slot_minutes, valid_from, valid_to, created_at, updated_at`

func scanBlock(row pgx.Row) (*ScheduleBlock, error) {
	var (
		b        ScheduleBlock
		days     []int16
		startMin int
		endMin   int
	)
	err := row.Scan(&b.ID, &b.ProfessionalID, &days, &startMin, &endMin,
		&b.SlotMinutes, &b.ValidFrom, &b.ValidTo, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		b.Days = append(b.Days, time.Weekday(d))
	}
	b.Start = scheduling.TimeOfDay(startMin)
	b.End = scheduling.TimeOfDay(endMin)
	return &b, nil
}

func weekdaysToInts(days []time.Weekday) []int16 {
	out := make([]int16, len(days))
	for i, d := range days {
		out[i] = int16(d)
	}
	return out
}

func (r *repoPG) ListBlocks(ctx context.Context, professionalID uuid.UUID, on *time.Time) ([]*ScheduleBlock, error) {
	query := `SELECT ` + blockCols + ` FROM schedule_block WHERE professional_id = $1`
	args := []interface{}{professionalID}
	if on != nil {
		query += ` AND (valid_from IS NULL OR valid_from <= $2) AND (valid_to IS NULL OR valid_to >= $2)`
		args = append(args, scheduling.DateOnly(*on))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedule blocks: %w", err)
	}
	defer rows.Close()

	var out []*ScheduleBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule block: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repoPG) CreateBlock(ctx context.Context, b *ScheduleBlock) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO schedule_block (id, professional_id, days, start_min, end_min, slot_minutes, valid_from, valid_to)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		b.ID, b.ProfessionalID, weekdaysToInts(b.Days), b.Start.Minutes(), b.End.Minutes(),
		b.SlotMinutes, b.ValidFrom, b.ValidTo).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert schedule block: %w", err)
	}
	return nil
}

func (r *repoPG) UpdateBlock(ctx context.Context, b *ScheduleBlock) error {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE schedule_block
		SET days = $2, start_min = $3, end_min = $4, slot_minutes = $5,
			valid_from = $6, valid_to = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		b.ID, weekdaysToInts(b.Days), b.Start.Minutes(), b.End.Minutes(),
		b.SlotMinutes, b.ValidFrom, b.ValidTo)
	err := row.Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBlockNotFound
	}
	return err
}

func (r *repoPG) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM schedule_block WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}
