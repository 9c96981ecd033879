package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"detailing/internal/db"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(database *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: database}
}

func (r *CustomerRepository) CreateCustomer(c *db.Customer) error {
	return r.DB.QueryRow(`
		INSERT INTO customers (name, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.Status).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) GetByID(id int) (*db.Customer, error) {
	var c db.Customer
	err := r.DB.QueryRow(`
		SELECT id, name, email, phone, status, created_at, updated_at
		FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) GetByEmail(email string) (*db.Customer, error) {
	var c db.Customer
	err := r.DB.QueryRow(`
		SELECT id, name, email, phone, status, created_at, updated_at
		FROM customers WHERE email = $1`, email).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ListCustomers(status string) ([]db.Customer, error) {
	query := `SELECT id, name, email, phone, status, created_at, updated_at FROM customers`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []db.Customer
	for rows.Next() {
		var c db.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) CountByStatus(status string) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *CustomerRepository) UpdateCustomer(c *db.Customer) error {
	result, err := r.DB.Exec(`
		UPDATE customers SET name = $2, email = $3, phone = $4, status = $5, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Phone, c.Status)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *CustomerRepository) CreateVehicle(v *db.Vehicle) error {
	return r.DB.QueryRow(`
		INSERT INTO vehicles (customer_id, make, model, year, color, license_plate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		v.CustomerID, v.Make, v.Model, v.Year, v.Color, v.LicensePlate).
		Scan(&v.ID, &v.CreatedAt)
}

func (r *CustomerRepository) ListVehicles(customerID int) ([]db.Vehicle, error) {
	rows, err := r.DB.Query(`
		SELECT id, customer_id, make, model, year, color, license_plate, created_at
		FROM vehicles WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.Color, &v.LicensePlate, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *CustomerRepository) DeleteVehicle(id, customerID int) error {
	result, err := r.DB.Exec(`DELETE FROM vehicles WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
