package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"detailing/internal/db"
)

type ServiceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(database *sql.DB) *ServiceRepository {
	return &ServiceRepository{DB: database}
}

func (r *ServiceRepository) ListServices(activeOnly bool) ([]db.Service, error) {
	query := `SELECT id, name, description, price, duration_minutes, active FROM services`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []db.Service
	for rows.Next() {
		var s db.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Active); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) GetByID(id int) (*db.Service, error) {
	var s db.Service
	err := r.DB.QueryRow(`
		SELECT id, name, description, price, duration_minutes, active
		FROM services WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service %d not found: %w", id, err)
		}
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) CreateService(s *db.Service) error {
	return r.DB.QueryRow(`
		INSERT INTO services (name, description, price, duration_minutes, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		s.Name, s.Description, s.Price, s.DurationMinutes, s.Active).
		Scan(&s.ID)
}

func (r *ServiceRepository) UpdateService(s *db.Service) error {
	result, err := r.DB.Exec(`
		UPDATE services SET name = $2, description = $3, price = $4, duration_minutes = $5, active = $6
		WHERE id = $1`,
		s.ID, s.Name, s.Description, s.Price, s.DurationMinutes, s.Active)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
