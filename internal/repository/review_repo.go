package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"detailing/internal/db"
)

type ReviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(database *sql.DB) *ReviewRepository {
	return &ReviewRepository{DB: database}
}

func (r *ReviewRepository) CreateReview(rev *db.Review) error {
	return r.DB.QueryRow(`
		INSERT INTO reviews (customer_id, appointment_id, rating, comment, is_public, review_date)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, review_date`,
		rev.CustomerID, rev.AppointmentID, rev.Rating, rev.Comment, rev.IsPublic).
		Scan(&rev.ID, &rev.ReviewDate)
}

func (r *ReviewRepository) GetByAppointment(appointmentID int) (*db.Review, error) {
	var rev db.Review
	err := r.DB.QueryRow(`
		SELECT id, customer_id, appointment_id, rating, comment, is_public, review_date
		FROM reviews WHERE appointment_id = $1`, appointmentID).
		Scan(&rev.ID, &rev.CustomerID, &rev.AppointmentID, &rev.Rating, &rev.Comment, &rev.IsPublic, &rev.ReviewDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) ListPublicReviews(limit int) ([]db.Review, error) {
	rows, err := r.DB.Query(`
		SELECT id, customer_id, appointment_id, rating, comment, is_public, review_date
		FROM reviews WHERE is_public = TRUE
		ORDER BY review_date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *ReviewRepository) ListByCustomer(customerID int) ([]db.Review, error) {
	rows, err := r.DB.Query(`
		SELECT id, customer_id, appointment_id, rating, comment, is_public, review_date
		FROM reviews WHERE customer_id = $1
		ORDER BY review_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

// PendingReviewAppointments returns the customer's completed appointments
// that have no review yet. One review per completed appointment is enforced
// here by filtering, not by a database constraint.
func (r *ReviewRepository) PendingReviewAppointments(customerID int) ([]int, error) {
	rows, err := r.DB.Query(`
		SELECT a.id
		FROM appointments a
		LEFT JOIN reviews rv ON rv.appointment_id = a.id
		WHERE a.customer_id = $1 AND a.status = 'completed' AND rv.id IS NULL
		ORDER BY a.scheduled_date DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("error querying pending reviews: %w", err)
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

func scanReviews(rows *sql.Rows) ([]db.Review, error) {
	var reviews []db.Review
	for rows.Next() {
		var rev db.Review
		if err := rows.Scan(&rev.ID, &rev.CustomerID, &rev.AppointmentID, &rev.Rating, &rev.Comment, &rev.IsPublic, &rev.ReviewDate); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
