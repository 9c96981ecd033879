package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"detailing/internal/db"
)

type InvoiceRepository struct {
	DB *sql.DB
}

func NewInvoiceRepository(database *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{DB: database}
}

// NextInvoiceNumber draws from a single-row atomic counter, so concurrent
// invoice creation cannot produce duplicate numbers the way a count-derived
// scheme can.
func NextInvoiceNumber(q dbtx) (string, error) {
	var n int
	err := q.QueryRow(`
		INSERT INTO invoice_counters (id, value) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET value = invoice_counters.value + 1
		RETURNING value`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("error allocating invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

// CreateInvoice allocates the invoice number and inserts the invoice with its
// line items in one transaction.
func (r *InvoiceRepository) CreateInvoice(inv *db.Invoice) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	inv.InvoiceNumber, err = NextInvoiceNumber(tx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(`
		INSERT INTO invoices
		(appointment_id, customer_id, invoice_number, subtotal, tax, total, status,
		 due_date, deposit_paid, deposit_amount, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		inv.AppointmentID, inv.CustomerID, inv.InvoiceNumber, inv.Subtotal, inv.Tax, inv.Total,
		inv.Status, inv.DueDate, inv.DepositPaid, inv.DepositAmount, inv.StripeSessionID).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting invoice: %w", err)
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		err := tx.QueryRow(`
			INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total).
			Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("error inserting invoice item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *InvoiceRepository) GetByID(id int) (*db.Invoice, error) {
	var inv db.Invoice
	err := r.DB.QueryRow(`
		SELECT id, appointment_id, customer_id, invoice_number, subtotal, tax, total, status,
		       due_date, paid_date, deposit_paid, deposit_amount, stripe_session_id, created_at, updated_at
		FROM invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.AppointmentID, &inv.CustomerID, &inv.InvoiceNumber, &inv.Subtotal, &inv.Tax,
			&inv.Total, &inv.Status, &inv.DueDate, &inv.PaidDate, &inv.DepositPaid, &inv.DepositAmount,
			&inv.StripeSessionID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying invoice: %w", err)
	}

	inv.Items, err = r.itemsForInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByAppointment returns the invoice for the appointment, or nil when none
// has been issued yet.
func (r *InvoiceRepository) GetByAppointment(appointmentID int) (*db.Invoice, error) {
	var id int
	err := r.DB.QueryRow(`SELECT id FROM invoices WHERE appointment_id = $1`, appointmentID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetByID(id)
}

func (r *InvoiceRepository) GetByStripeSessionID(sessionID string) (*db.Invoice, error) {
	var id int
	err := r.DB.QueryRow(`SELECT id FROM invoices WHERE stripe_session_id = $1`, sessionID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice with session '%s' not found: %w", sessionID, err)
		}
		return nil, err
	}
	return r.GetByID(id)
}

func (r *InvoiceRepository) itemsForInvoice(invoiceID int) ([]db.InvoiceItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, invoice_id, description, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []db.InvoiceItem
	for rows.Next() {
		var it db.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *InvoiceRepository) ListByCustomer(customerID int) ([]db.Invoice, error) {
	return r.scanInvoices(`
		SELECT id, appointment_id, customer_id, invoice_number, subtotal, tax, total, status,
		       due_date, paid_date, deposit_paid, deposit_amount, stripe_session_id, created_at, updated_at
		FROM invoices WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *InvoiceRepository) ListInvoices(status string) ([]db.Invoice, error) {
	query := `
		SELECT id, appointment_id, customer_id, invoice_number, subtotal, tax, total, status,
		       due_date, paid_date, deposit_paid, deposit_amount, stripe_session_id, created_at, updated_at
		FROM invoices`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.scanInvoices(query, args...)
}

// InvoicesCreatedBetween returns invoices by creation time; the deposit
// rollups filter these in memory.
func (r *InvoiceRepository) InvoicesCreatedBetween(start, end time.Time) ([]db.Invoice, error) {
	return r.scanInvoices(`
		SELECT id, appointment_id, customer_id, invoice_number, subtotal, tax, total, status,
		       due_date, paid_date, deposit_paid, deposit_amount, stripe_session_id, created_at, updated_at
		FROM invoices WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, start, end)
}

func (r *InvoiceRepository) scanInvoices(query string, args ...interface{}) ([]db.Invoice, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []db.Invoice
	for rows.Next() {
		var inv db.Invoice
		err := rows.Scan(&inv.ID, &inv.AppointmentID, &inv.CustomerID, &inv.InvoiceNumber, &inv.Subtotal,
			&inv.Tax, &inv.Total, &inv.Status, &inv.DueDate, &inv.PaidDate, &inv.DepositPaid,
			&inv.DepositAmount, &inv.StripeSessionID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(id int, status string) error {
	result, err := r.DB.Exec(`UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *InvoiceRepository) MarkPaid(id int, paidAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE invoices SET status = 'paid', paid_date = $2, updated_at = NOW() WHERE id = $1`,
		id, paidAt)
	return err
}

func (r *InvoiceRepository) MarkDepositPaid(id int) error {
	_, err := r.DB.Exec(`
		UPDATE invoices SET deposit_paid = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// MarkRefunded reverts the payment markers after Stripe reports a refund; the
// invoice goes back to awaiting payment.
func (r *InvoiceRepository) MarkRefunded(id int) error {
	_, err := r.DB.Exec(`
		UPDATE invoices SET status = 'sent', deposit_paid = FALSE, paid_date = NULL, updated_at = NOW()
		WHERE id = $1`, id)
	return err
}

func (r *InvoiceRepository) SetStripeSessionID(id int, sessionID string) error {
	_, err := r.DB.Exec(`
		UPDATE invoices SET stripe_session_id = $2, updated_at = NOW() WHERE id = $1`, id, sessionID)
	return err
}
