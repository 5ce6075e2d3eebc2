package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

type scheduleRepoPG struct{ pool *pgxpool.Pool }

// NewScheduleRepoPG returns a ScheduleRepository backed by the tenant's
// Postgres schema.
func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepoPG{pool: pool}
}

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *scheduleRepoPG) ConfigForDate(ctx context.Context, professionalID uuid.UUID, date time.Time) (*ScheduleConfig, error) {
	cfg := &ScheduleConfig{ProfessionalID: professionalID}

	err := r.conn(ctx).QueryRow(ctx, `
		SELECT default_slot_minutes FROM professional
		WHERE id = $1 AND active = true`, professionalID).Scan(&cfg.DefaultSlotMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("load professional: %w", err)
	}

	var (
		enabled   bool
		rangesRaw []byte
	)
	err = r.conn(ctx).QueryRow(ctx, `
		SELECT enabled, ranges FROM weekly_slot
		WHERE professional_id = $1 AND weekday = $2`,
		professionalID, int(date.Weekday())).Scan(&enabled, &rangesRaw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// No weekly row for this weekday; blocks may still apply.
	case err != nil:
		return nil, fmt.Errorf("load weekly slot: %w", err)
	default:
		var ranges []Window
		if len(rangesRaw) > 0 {
			if err := json.Unmarshal(rangesRaw, &ranges); err != nil {
				return nil, fmt.Errorf("decode weekly ranges: %w", err)
			}
		}
		cfg.Weekly = map[time.Weekday]WeeklyHours{
			date.Weekday(): {Enabled: enabled, Ranges: ranges},
		}
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, days, start_min, end_min, slot_minutes, valid_from, valid_to
		FROM schedule_block
		WHERE professional_id = $1
		  AND $2 = ANY(days)
		  AND (valid_from IS NULL OR valid_from <= $3)
		  AND (valid_to IS NULL OR valid_to >= $3)
		ORDER BY created_at, id`,
		professionalID, int(date.Weekday()), DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("load schedule blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b        Block
			days     []int16
			startMin int
			endMin   int
		)
		if err := rows.Scan(&b.ID, &days, &startMin, &endMin, &b.SlotMinutes, &b.ValidFrom, &b.ValidTo); err != nil {
			return nil, fmt.Errorf("scan schedule block: %w", err)
		}
		for _, d := range days {
			b.Days = append(b.Days, time.Weekday(d))
		}
		b.Window = Window{Start: TimeOfDay(startMin), End: TimeOfDay(endMin)}
		cfg.Blocks = append(cfg.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schedule blocks: %w", err)
	}
	return cfg, nil
}

type bookingRepoPG struct{ pool *pgxpool.Pool }

// NewBookingRepoPG returns a BookingRepository backed by the tenant's
// Postgres schema.
func NewBookingRepoPG(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepoPG{pool: pool}
}

func (r *bookingRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *bookingRepoPG) begin(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if c := db.ConnFromContext(ctx); c != nil {
		return c.BeginTx(ctx, opts)
	}
	return r.pool.BeginTx(ctx, opts)
}

const bookingCols = `id, professional_id, patient_name, patient_phone, date, start_min, end_min,
	status, source, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b        Booking
		startMin int
		endMin   int
	)
	err := row.Scan(&b.ID, &b.ProfessionalID, &b.PatientName, &b.PatientPhone, &b.Date,
		&startMin, &endMin, &b.Status, &b.Source, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Start = TimeOfDay(startMin)
	b.End = TimeOfDay(endMin)
	return &b, nil
}

func (r *bookingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+bookingCols+` FROM booking WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

func (r *bookingRepoPG) ListForDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]*Booking, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+bookingCols+` FROM booking
		WHERE professional_id = $1 AND date = $2
		ORDER BY start_min, created_at`,
		professionalID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepoPG) ListRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time, limit, offset int) ([]*Booking, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM booking
		WHERE professional_id = $1 AND date BETWEEN $2 AND $3`,
		professionalID, DateOnly(from), DateOnly(to)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+bookingCols+` FROM booking
		WHERE professional_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, start_min
		LIMIT $4 OFFSET $5`,
		professionalID, DateOnly(from), DateOnly(to), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	list, err := collectBookings(rows)
	return list, total, err
}

// CreateChecked inserts the booking inside a serializable transaction. The
// day's occupying bookings are re-read with FOR UPDATE and checked for
// overlap, and the partial unique index on (professional_id, date,
// start_min) backstops writers with identical start times. Either guard
// failing surfaces as ErrSlotConflict.
func (r *bookingRepoPG) CreateChecked(ctx context.Context, b *Booking) error {
	tx, err := r.begin(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT start_min, end_min FROM booking
		WHERE professional_id = $1 AND date = $2
		  AND status NOT IN ($3, $4)
		FOR UPDATE`,
		b.ProfessionalID, DateOnly(b.Date), StatusCancelled, StatusNoShow)
	if err != nil {
		return fmt.Errorf("lock day bookings: %w", err)
	}
	for rows.Next() {
		var startMin, endMin int
		if err := rows.Scan(&startMin, &endMin); err != nil {
			rows.Close()
			return fmt.Errorf("scan day booking: %w", err)
		}
		if Overlaps(b.Start, b.End, TimeOfDay(startMin), TimeOfDay(endMin)) {
			rows.Close()
			return ErrSlotConflict
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read day bookings: %w", err)
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO booking (id, professional_id, patient_name, patient_phone, date,
			start_min, end_min, status, source, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		b.ID, b.ProfessionalID, b.PatientName, b.PatientPhone, DateOnly(b.Date),
		b.Start.Minutes(), b.End.Minutes(), b.Status, b.Source, b.Notes).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isSlotTaken(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isSlotTaken(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

func (r *bookingRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE booking SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+bookingCols, id, status)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil && isSlotTaken(err) {
		// Reviving a cancelled booking can collide with a slot booked in
		// the meantime.
		return nil, ErrSlotConflict
	}
	return b, err
}

func collectBookings(rows pgx.Rows) ([]*Booking, error) {
	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read bookings: %w", err)
	}
	return out, nil
}

// isSlotTaken recognizes the store-level double-booking failures: the
// partial unique index (23505) and serializable conflicts (40001).
func isSlotTaken(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" || pgErr.Code == "40001"
}
