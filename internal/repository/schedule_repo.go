package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"detailing/internal/db"
	"detailing/internal/entities"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the schedule reads can be
// reused inside the booking transaction.
type dbtx interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type ScheduleRepository struct {
	DB *sql.DB
}

func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) ActiveBusinessHours(dayOfWeek int) (*db.BusinessHours, error) {
	return activeBusinessHours(r.DB, dayOfWeek)
}

func (r *ScheduleRepository) TimeBlocksForDate(date string) ([]db.TimeBlock, error) {
	return timeBlocksForDate(r.DB, date)
}

func (r *ScheduleRepository) ActiveAppointmentsForDate(date string) ([]db.Appointment, error) {
	return activeAppointmentsForDate(r.DB, date)
}

func activeBusinessHours(q dbtx, dayOfWeek int) (*db.BusinessHours, error) {
	var bh db.BusinessHours
	err := q.QueryRow(`
		SELECT id, day_of_week, start_time, end_time, is_active
		FROM business_hours
		WHERE day_of_week = $1 AND is_active = TRUE`, dayOfWeek).
		Scan(&bh.ID, &bh.DayOfWeek, &bh.StartTime, &bh.EndTime, &bh.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &bh, nil
}

func timeBlocksForDate(q dbtx, date string) ([]db.TimeBlock, error) {
	rows, err := q.Query(`
		SELECT id, date, start_time, end_time, reason, type, created_by, created_at
		FROM time_blocks
		WHERE date = $1
		ORDER BY start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []db.TimeBlock
	for rows.Next() {
		var b db.TimeBlock
		if err := rows.Scan(&b.ID, &b.Date, &b.StartTime, &b.EndTime, &b.Reason, &b.Type, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func activeAppointmentsForDate(q dbtx, date string) ([]db.Appointment, error) {
	rows, err := q.Query(`
		SELECT id, customer_id, scheduled_date, scheduled_time, duration, status, total_price
		FROM appointments
		WHERE scheduled_date = $1 AND status <> 'cancelled'
		ORDER BY scheduled_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.ScheduledDate, &a.ScheduledTime, &a.Duration, &a.Status, &a.TotalPrice); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// ReplaceBusinessHours applies the submitted weekly schedule as per-weekday
// upserts inside one transaction. Unlike a delete-all/insert-all replace there
// is no moment where the schedule is empty.
func (r *ScheduleRepository) ReplaceBusinessHours(schedule []entities.BusinessHoursEntry) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range schedule {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
			return fmt.Errorf("invalid day_of_week %d", e.DayOfWeek)
		}
		_, err := tx.Exec(`
			INSERT INTO business_hours (day_of_week, start_time, end_time, is_active)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (day_of_week)
			DO UPDATE SET start_time = $2, end_time = $3, is_active = $4`,
			e.DayOfWeek, e.StartTime, e.EndTime, e.IsActive)
		if err != nil {
			return fmt.Errorf("error upserting business hours for day %d: %w", e.DayOfWeek, err)
		}
	}

	return tx.Commit()
}

func (r *ScheduleRepository) ListBusinessHours() ([]db.BusinessHours, error) {
	rows, err := r.DB.Query(`
		SELECT id, day_of_week, start_time, end_time, is_active
		FROM business_hours
		ORDER BY day_of_week`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []db.BusinessHours
	for rows.Next() {
		var bh db.BusinessHours
		if err := rows.Scan(&bh.ID, &bh.DayOfWeek, &bh.StartTime, &bh.EndTime, &bh.IsActive); err != nil {
			return nil, err
		}
		hours = append(hours, bh)
	}
	return hours, rows.Err()
}

func (r *ScheduleRepository) CreateTimeBlock(block *db.TimeBlock) error {
	return r.DB.QueryRow(`
		INSERT INTO time_blocks (date, start_time, end_time, reason, type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		block.Date, block.StartTime, block.EndTime, block.Reason, block.Type, block.CreatedBy).
		Scan(&block.ID, &block.CreatedAt)
}

func (r *ScheduleRepository) TimeBlocksBetween(startDate, endDate string) ([]db.TimeBlock, error) {
	rows, err := r.DB.Query(`
		SELECT id, date, start_time, end_time, reason, type, created_by, created_at
		FROM time_blocks
		WHERE date >= $1 AND date <= $2
		ORDER BY date, start_time`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []db.TimeBlock
	for rows.Next() {
		var b db.TimeBlock
		if err := rows.Scan(&b.ID, &b.Date, &b.StartTime, &b.EndTime, &b.Reason, &b.Type, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *ScheduleRepository) DeleteTimeBlock(id int) error {
	result, err := r.DB.Exec(`DELETE FROM time_blocks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
