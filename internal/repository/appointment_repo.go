package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
	"detailing/internal/schedule"

	"github.com/lib/pq"
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

// txScheduleStore runs the schedule reads against an open transaction so the
// availability re-check sees the same snapshot the insert will commit into.
// excludeApptID removes the appointment being rescheduled from the conflict
// scan; zero excludes nothing.
type txScheduleStore struct {
	tx            *sql.Tx
	excludeApptID int
}

func (s txScheduleStore) ActiveBusinessHours(dayOfWeek int) (*db.BusinessHours, error) {
	return activeBusinessHours(s.tx, dayOfWeek)
}

func (s txScheduleStore) TimeBlocksForDate(date string) ([]db.TimeBlock, error) {
	return timeBlocksForDate(s.tx, date)
}

func (s txScheduleStore) ActiveAppointmentsForDate(date string) ([]db.Appointment, error) {
	appts, err := activeAppointmentsForDate(s.tx, date)
	if err != nil || s.excludeApptID == 0 {
		return appts, err
	}
	filtered := appts[:0]
	for _, a := range appts {
		if a.ID != s.excludeApptID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// lockDaySchedule serializes concurrent bookings for the same weekday by
// locking its business_hours row. Two requests for the same day cannot both
// pass the availability re-check before either insert commits.
func lockDaySchedule(tx *sql.Tx, date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	var id int
	err = tx.QueryRow(`SELECT id FROM business_hours WHERE day_of_week = $1 FOR UPDATE`, int(day.Weekday())).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	// No row means the business is closed that weekday; the checker reports
	// that without needing the lock.
	return nil
}

// CreateAppointment re-validates availability and inserts the appointment in
// one transaction. When the slot is not available the transaction is rolled
// back and the negative result is returned with appt untouched.
func (r *AppointmentRepository) CreateAppointment(appt *db.Appointment) (*entities.AvailabilityResult, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockDaySchedule(tx, appt.ScheduledDate); err != nil {
		return nil, err
	}

	checker := schedule.NewChecker(txScheduleStore{tx: tx})
	result, err := checker.CheckAvailability(appt.ScheduledDate, appt.ScheduledTime, appt.Duration)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return result, nil
	}

	err = tx.QueryRow(`
		INSERT INTO appointments
		(customer_id, scheduled_date, scheduled_time, duration, status, total_price, address, city, zip, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		appt.CustomerID, appt.ScheduledDate, appt.ScheduledTime, appt.Duration,
		appt.Status, appt.TotalPrice, appt.Address, appt.City, appt.Zip, appt.Notes).
		Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting appointment: %w", err)
	}

	for _, vid := range appt.VehicleIDs {
		if _, err := tx.Exec(`INSERT INTO appointment_vehicles (appointment_id, vehicle_id) VALUES ($1, $2)`, appt.ID, vid); err != nil {
			return nil, fmt.Errorf("error linking vehicle %d: %w", vid, err)
		}
	}
	for _, sid := range appt.ServiceIDs {
		if _, err := tx.Exec(`INSERT INTO appointment_services (appointment_id, service_id) VALUES ($1, $2)`, appt.ID, sid); err != nil {
			return nil, fmt.Errorf("error linking service %d: %w", sid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// RescheduleAppointment moves an existing appointment to a new slot with the
// same transactional re-validation, excluding the appointment itself from the
// conflict scan.
func (r *AppointmentRepository) RescheduleAppointment(id int, date, startTime string, duration int) (*entities.AvailabilityResult, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockDaySchedule(tx, date); err != nil {
		return nil, err
	}

	checker := schedule.NewChecker(txScheduleStore{tx: tx, excludeApptID: id})
	result, err := checker.CheckAvailability(date, startTime, duration)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return result, nil
	}

	res, err := tx.Exec(`
		UPDATE appointments
		SET scheduled_date = $2, scheduled_time = $3, duration = $4, status = 'rescheduled', updated_at = NOW()
		WHERE id = $1 AND status <> 'cancelled'`,
		id, date, startTime, duration)
	if err != nil {
		return nil, fmt.Errorf("error rescheduling appointment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return nil, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *AppointmentRepository) GetByID(id int) (*db.Appointment, error) {
	var a db.Appointment
	err := r.DB.QueryRow(`
		SELECT id, customer_id, scheduled_date, scheduled_time, duration, status,
		       total_price, address, city, zip, notes, created_at, updated_at
		FROM appointments WHERE id = $1`, id).
		Scan(&a.ID, &a.CustomerID, &a.ScheduledDate, &a.ScheduledTime, &a.Duration, &a.Status,
			&a.TotalPrice, &a.Address, &a.City, &a.Zip, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying appointment: %w", err)
	}

	a.VehicleIDs, err = r.linkedIDs(`SELECT vehicle_id FROM appointment_vehicles WHERE appointment_id = $1`, id)
	if err != nil {
		return nil, err
	}
	a.ServiceIDs, err = r.linkedIDs(`SELECT service_id FROM appointment_services WHERE appointment_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) linkedIDs(query string, apptID int) ([]int, error) {
	rows, err := r.DB.Query(query, apptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AppointmentRepository) ListAppointments(date, status string) ([]db.Appointment, error) {
	query := `
		SELECT id, customer_id, scheduled_date, scheduled_time, duration, status,
		       total_price, address, city, zip, notes, created_at, updated_at
		FROM appointments WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += fmt.Sprintf(" AND scheduled_date = $%d", idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY scheduled_date DESC, scheduled_time"

	return r.scanAppointments(query, args...)
}

func (r *AppointmentRepository) ListByCustomer(customerID int) ([]db.Appointment, error) {
	return r.scanAppointments(`
		SELECT id, customer_id, scheduled_date, scheduled_time, duration, status,
		       total_price, address, city, zip, notes, created_at, updated_at
		FROM appointments
		WHERE customer_id = $1
		ORDER BY scheduled_date DESC, scheduled_time`, customerID)
}

func (r *AppointmentRepository) scanAppointments(query string, args ...interface{}) ([]db.Appointment, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []db.Appointment
	for rows.Next() {
		var a db.Appointment
		err := rows.Scan(&a.ID, &a.CustomerID, &a.ScheduledDate, &a.ScheduledTime, &a.Duration, &a.Status,
			&a.TotalPrice, &a.Address, &a.City, &a.Zip, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *AppointmentRepository) UpdateStatus(id int, status string) error {
	result, err := r.DB.Exec(`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		log.Printf("Error updating appointment %d status: %v", id, err)
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *AppointmentRepository) UpdateStatuses(ids []int, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`, status, pq.Array(ids))
	return err
}

// AppointmentsBetween returns all appointments scheduled in the inclusive
// date range; the analytics rollups reduce over these in memory.
func (r *AppointmentRepository) AppointmentsBetween(startDate, endDate string) ([]db.Appointment, error) {
	return r.scanAppointments(`
		SELECT id, customer_id, scheduled_date, scheduled_time, duration, status,
		       total_price, address, city, zip, notes, created_at, updated_at
		FROM appointments
		WHERE scheduled_date >= $1 AND scheduled_date <= $2
		ORDER BY scheduled_date`, startDate, endDate)
}

// ServiceBookingCounts returns per-service booking counts for non-cancelled
// appointments in the range, keyed by service id.
func (r *AppointmentRepository) ServiceBookingCounts(startDate, endDate string) (map[int]int, error) {
	rows, err := r.DB.Query(`
		SELECT aps.service_id, COUNT(*)
		FROM appointment_services aps
		JOIN appointments a ON a.id = aps.appointment_id
		WHERE a.scheduled_date >= $1 AND a.scheduled_date <= $2 AND a.status <> 'cancelled'
		GROUP BY aps.service_id`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var id, n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
