package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
	httperrors "detailing/internal/errors"
	"detailing/internal/repository"
)

const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

type InvoiceService struct {
	Repo            *repository.InvoiceRepository
	AppointmentRepo *repository.AppointmentRepository
	CustomerRepo    *repository.CustomerRepository
	ServiceRepo     *repository.ServiceRepository
	stripeService   *StripeService
	senderService   *SenderService
}

func NewInvoiceService(repo *repository.InvoiceRepository, appointmentRepo *repository.AppointmentRepository,
	customerRepo *repository.CustomerRepository, serviceRepo *repository.ServiceRepository,
	stripeService *StripeService, senderService *SenderService) *InvoiceService {
	return &InvoiceService{
		Repo:            repo,
		AppointmentRepo: appointmentRepo,
		CustomerRepo:    customerRepo,
		ServiceRepo:     serviceRepo,
		stripeService:   stripeService,
		senderService:   senderService,
	}
}

// CreateInvoiceForAppointment drafts an invoice with one line item per booked
// service. The invoice number comes from the atomic counter, so concurrent
// creation cannot produce duplicates.
func (s *InvoiceService) CreateInvoiceForAppointment(appointmentID int, taxRate, depositAmount float64, dueInDays int) (*db.Invoice, error) {
	appt, err := s.AppointmentRepo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.Repo.GetByAppointment(appointmentID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("appointment %d already has invoice %s", appointmentID, existing.InvoiceNumber)
	}

	var items []db.InvoiceItem
	subtotal := 0.0
	for _, sid := range appt.ServiceIDs {
		svc, err := s.ServiceRepo.GetByID(sid)
		if err != nil {
			return nil, err
		}
		items = append(items, db.InvoiceItem{
			Description: svc.Name,
			Quantity:    1,
			UnitPrice:   svc.Price,
			Total:       svc.Price,
		})
		subtotal += svc.Price
	}
	if len(items) == 0 {
		items = append(items, db.InvoiceItem{
			Description: "Mobile detailing service",
			Quantity:    1,
			UnitPrice:   appt.TotalPrice,
			Total:       appt.TotalPrice,
		})
		subtotal = appt.TotalPrice
	}

	tax := math.Round(subtotal*taxRate*100) / 100
	if dueInDays <= 0 {
		dueInDays = 14
	}

	inv := &db.Invoice{
		AppointmentID: appointmentID,
		CustomerID:    appt.CustomerID,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		Status:        InvoiceDraft,
		DueDate:       time.Now().UTC().AddDate(0, 0, dueInDays),
		DepositAmount: depositAmount,
	}
	if err := s.Repo.CreateInvoice(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice returns the invoice; non-admin callers may only read their own.
func (s *InvoiceService) GetInvoice(id, callerID int, isAdmin bool) (*db.Invoice, error) {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && inv.CustomerID != callerID {
		return nil, httperrors.ErrAccessDenied("Access denied")
	}
	return inv, nil
}

func (s *InvoiceService) ListInvoices(status string) ([]db.Invoice, error) {
	return s.Repo.ListInvoices(status)
}

func (s *InvoiceService) ListCustomerInvoices(customerID int) ([]db.Invoice, error) {
	return s.Repo.ListByCustomer(customerID)
}

// SendInvoice opens a checkout session for the full amount, emails the
// customer a payment link and marks the invoice sent.
func (s *InvoiceService) SendInvoice(id int) error {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv.Status == InvoicePaid {
		return fmt.Errorf("invoice %s is already paid", inv.InvoiceNumber)
	}
	customer, err := s.CustomerRepo.GetByID(inv.CustomerID)
	if err != nil {
		return err
	}

	sessionResp, err := s.checkoutSession(inv, customer, false)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateStatus(inv.ID, InvoiceSent); err != nil {
		return err
	}

	s.senderService.SendInvoiceEmail(*customer, *inv, sessionResp.URL)
	return nil
}

// CreateCheckoutSession returns a Stripe redirect URL for the invoice, either
// the deposit or the full amount. Owner-only for non-admin callers.
func (s *InvoiceService) CreateCheckoutSession(id, callerID int, isAdmin, payDeposit bool) (*entities.StripeSessionResponse, error) {
	inv, err := s.GetInvoice(id, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	if inv.Status == InvoicePaid {
		return nil, fmt.Errorf("invoice %s is already paid", inv.InvoiceNumber)
	}
	if payDeposit && (inv.DepositAmount <= 0 || inv.DepositPaid) {
		return nil, fmt.Errorf("invoice %s has no deposit to collect", inv.InvoiceNumber)
	}
	customer, err := s.CustomerRepo.GetByID(inv.CustomerID)
	if err != nil {
		return nil, err
	}
	return s.checkoutSession(inv, customer, payDeposit)
}

func (s *InvoiceService) checkoutSession(inv *db.Invoice, customer *db.Customer, payDeposit bool) (*entities.StripeSessionResponse, error) {
	amount := inv.Total
	description := fmt.Sprintf("ShineWorks invoice %s", inv.InvoiceNumber)
	if payDeposit {
		amount = inv.DepositAmount
		description = fmt.Sprintf("Deposit for ShineWorks invoice %s", inv.InvoiceNumber)
	}

	url, sessionID, err := s.stripeService.CreateCheckoutSession(int64(math.Round(amount*100)), "usd", description, customer.Email)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetStripeSessionID(inv.ID, sessionID); err != nil {
		return nil, err
	}
	return &entities.StripeSessionResponse{
		InvoiceNumber: inv.InvoiceNumber,
		URL:           url,
		SessionID:     sessionID,
	}, nil
}

// HandleCheckoutCompleted is called by the Stripe webhook. The paid amount
// decides whether the session settled the whole invoice or just the deposit.
func (s *InvoiceService) HandleCheckoutCompleted(sessionID string, amountTotalCents int64) error {
	inv, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}

	fullCents := int64(math.Round(inv.Total * 100))
	if amountTotalCents >= fullCents {
		if err := s.Repo.MarkPaid(inv.ID, time.Now().UTC()); err != nil {
			return err
		}
	}
	// Any payment through a session we created counts as the deposit being
	// covered.
	if inv.DepositAmount > 0 && !inv.DepositPaid {
		if err := s.Repo.MarkDepositPaid(inv.ID); err != nil {
			return err
		}
	}

	if customer, cerr := s.CustomerRepo.GetByID(inv.CustomerID); cerr == nil {
		s.senderService.SendInvoiceEmail(*customer, *inv, "")
	} else {
		log.Printf("Could not load customer %d for payment receipt: %v", inv.CustomerID, cerr)
	}
	return nil
}

// HandleChargeRefunded reverses the payment markers when Stripe reports a
// refund.
func (s *InvoiceService) HandleChargeRefunded(sessionID string) error {
	inv, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.MarkRefunded(inv.ID)
}
