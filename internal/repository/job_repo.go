package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetConfirmedAppointmentIDsPastEnd finds confirmed or in-progress
// appointments whose slot has fully passed. The end instant is computed from
// scheduled_date + scheduled_time + duration, all stored as text/minutes.
func (r *JobRepository) GetConfirmedAppointmentIDsPastEnd() ([]int, error) {
	query := `
		SELECT id FROM appointments
		WHERE status IN ('confirmed', 'in_progress', 'rescheduled')
		  AND (scheduled_date || ' ' || scheduled_time)::timestamp + (duration || ' minutes')::interval < NOW()`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateAppointmentStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d appointments to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// MarkOverdueInvoices flips sent invoices past their due date to overdue and
// returns how many were changed.
func (r *JobRepository) MarkOverdueInvoices() (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE invoices SET status = 'overdue', updated_at = NOW()
		WHERE status = 'sent' AND due_date < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error marking overdue invoices: %w", err)
	}
	return result.RowsAffected()
}

// DeleteStalePendingAppointments removes pending appointments created before
// the given time that never got confirmed.
func (r *JobRepository) DeleteStalePendingAppointments(before time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM appointments WHERE status = 'pending' AND created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
