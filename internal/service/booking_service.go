package service

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
	httperrors "detailing/internal/errors"
	"detailing/internal/repository"
	"detailing/internal/schedule"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Cancellations are accepted until this long before the appointment start.
const cancellationWindow = 12 * time.Hour

type BookingService struct {
	Repo          *repository.AppointmentRepository
	CustomerRepo  *repository.CustomerRepository
	ServiceRepo   *repository.ServiceRepository
	InvoiceRepo   *repository.InvoiceRepository
	stripeService *StripeService
	senderService *SenderService
}

func NewBookingService(repo *repository.AppointmentRepository, customerRepo *repository.CustomerRepository,
	serviceRepo *repository.ServiceRepository, invoiceRepo *repository.InvoiceRepository,
	stripeService *StripeService, senderService *SenderService) *BookingService {
	return &BookingService{
		Repo:          repo,
		CustomerRepo:  customerRepo,
		ServiceRepo:   serviceRepo,
		InvoiceRepo:   invoiceRepo,
		stripeService: stripeService,
		senderService: senderService,
	}
}

// CreateBooking books the slot for the customer. Availability is re-validated
// inside the insert transaction, so a stale positive from the booking form's
// advisory check cannot double-book a slot. When the slot is taken the
// negative availability result comes back with a nil appointment.
func (s *BookingService) CreateBooking(customerID int, req *entities.BookingRequest) (*db.Appointment, *entities.AvailabilityResult, error) {
	duration := req.Duration
	total := req.TotalPrice
	if duration == 0 || total == 0 {
		var err error
		duration, total, err = s.priceAndDuration(req.ServiceIDs, duration, total)
		if err != nil {
			return nil, nil, err
		}
	}
	if duration <= 0 {
		return nil, nil, httperrors.NewHTTPError(http.StatusBadRequest, "booking needs a positive duration")
	}
	if !schedule.ValidTime(req.ScheduledTime) {
		return nil, nil, httperrors.NewHTTPError(http.StatusBadRequest, "scheduled_time must be a zero-padded \"HH:MM\" time")
	}

	appt := &db.Appointment{
		CustomerID:    customerID,
		VehicleIDs:    req.VehicleIDs,
		ServiceIDs:    req.ServiceIDs,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Duration:      duration,
		Status:        StatusPending,
		TotalPrice:    total,
		Address:       req.Address,
		City:          req.City,
		Zip:           req.Zip,
		Notes:         req.Notes,
	}

	result, err := s.Repo.CreateAppointment(appt)
	if err != nil {
		log.Printf("Error creating appointment: %v", err)
		return nil, nil, err
	}
	if !result.Available {
		return nil, result, nil
	}

	if customer, err := s.CustomerRepo.GetByID(customerID); err == nil {
		s.senderService.SendAppointmentEmail(*customer, *appt, StatusPending)
		s.senderService.SendAppointmentSMS(*customer, *appt, StatusPending)
	}
	return appt, result, nil
}

// priceAndDuration fills in whichever of duration/total the caller left zero
// by summing the selected services.
func (s *BookingService) priceAndDuration(serviceIDs []int, duration int, total float64) (int, float64, error) {
	sumDuration := 0
	sumPrice := 0.0
	for _, id := range serviceIDs {
		svc, err := s.ServiceRepo.GetByID(id)
		if err != nil {
			return 0, 0, err
		}
		if !svc.Active {
			return 0, 0, fmt.Errorf("service %q is not offered", svc.Name)
		}
		sumDuration += svc.DurationMinutes
		sumPrice += svc.Price
	}
	if duration == 0 {
		duration = sumDuration
	}
	if total == 0 {
		total = sumPrice
	}
	return duration, total, nil
}

// GetAppointment returns the appointment; non-admin callers may only read
// their own records.
func (s *BookingService) GetAppointment(id, callerID int, isAdmin bool) (*db.Appointment, error) {
	appt, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && appt.CustomerID != callerID {
		return nil, httperrors.ErrAccessDenied("Access denied")
	}
	return appt, nil
}

func (s *BookingService) ListCustomerAppointments(customerID int) (*entities.AppointmentList, error) {
	appts, err := s.Repo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	return toAppointmentList(appts), nil
}

// ListAppointments is the admin view; customer names are attached so the
// day sheet reads without a second lookup.
func (s *BookingService) ListAppointments(date, status string) (*entities.AppointmentList, error) {
	appts, err := s.Repo.ListAppointments(date, status)
	if err != nil {
		return nil, err
	}
	list := toAppointmentList(appts)
	names := make(map[int]string)
	for i := range list.Appointments {
		cid := list.Appointments[i].CustomerID
		if _, ok := names[cid]; !ok {
			if customer, cerr := s.CustomerRepo.GetByID(cid); cerr == nil {
				names[cid] = customer.Name
			} else {
				names[cid] = ""
			}
		}
		list.Appointments[i].CustomerName = names[cid]
	}
	return list, nil
}

func toAppointmentList(appts []db.Appointment) *entities.AppointmentList {
	list := &entities.AppointmentList{
		Total:        len(appts),
		Appointments: make([]entities.AppointmentResponse, 0, len(appts)),
	}
	for _, a := range appts {
		list.Appointments = append(list.Appointments, entities.AppointmentResponse{
			ID:            a.ID,
			CustomerID:    a.CustomerID,
			VehicleIDs:    a.VehicleIDs,
			ServiceIDs:    a.ServiceIDs,
			ScheduledDate: a.ScheduledDate,
			ScheduledTime: a.ScheduledTime,
			Duration:      a.Duration,
			Status:        a.Status,
			TotalPrice:    a.TotalPrice,
			Address:       a.Address,
			City:          a.City,
			Zip:           a.Zip,
			Notes:         a.Notes,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}
	return list
}

// Reschedule moves the appointment to a new slot, re-validated inside one
// transaction with the appointment itself excluded from the conflict scan.
func (s *BookingService) Reschedule(id, callerID int, isAdmin bool, date, startTime string, duration int) (*entities.AvailabilityResult, error) {
	appt, err := s.GetAppointment(id, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	if duration < 0 {
		return nil, httperrors.NewHTTPError(http.StatusBadRequest, "duration cannot be negative")
	}
	if duration == 0 {
		duration = appt.Duration
	}
	if !schedule.ValidTime(startTime) {
		return nil, httperrors.NewHTTPError(http.StatusBadRequest, "start_time must be a zero-padded \"HH:MM\" time")
	}
	result, err := s.Repo.RescheduleAppointment(id, date, startTime, duration)
	if err != nil {
		return nil, err
	}
	if result.Available {
		if customer, cerr := s.CustomerRepo.GetByID(appt.CustomerID); cerr == nil {
			appt.ScheduledDate, appt.ScheduledTime, appt.Duration = date, startTime, duration
			s.senderService.SendAppointmentEmail(*customer, *appt, "rescheduled")
			s.senderService.SendAppointmentSMS(*customer, *appt, "rescheduled")
		}
	}
	return result, nil
}

// CancelAppointment cancels the booking, refunding any collected deposit.
// Cancellation is only accepted more than 12 hours before the start time.
func (s *BookingService) CancelAppointment(id, callerID int, isAdmin bool) error {
	appt, err := s.GetAppointment(id, callerID, isAdmin)
	if err != nil {
		return err
	}
	if appt.Status == StatusCancelled {
		return fmt.Errorf("appointment %d is already cancelled", id)
	}

	start, err := time.Parse("2006-01-02 15:04", appt.ScheduledDate+" "+appt.ScheduledTime)
	if err != nil {
		return fmt.Errorf("appointment %d has malformed schedule: %w", id, err)
	}
	if !isAdmin && time.Until(start) < cancellationWindow {
		return fmt.Errorf("appointments can only be cancelled more than 12 hours before the start time")
	}

	if invoice, ierr := s.InvoiceRepo.GetByAppointment(id); ierr == nil && invoice != nil {
		if invoice.DepositPaid && invoice.StripeSessionID != "" {
			if rerr := s.stripeService.RefundPaymentBySessionID(invoice.StripeSessionID); rerr != nil {
				log.Printf("Deposit refund failed for appointment %d: %v", id, rerr)
				return fmt.Errorf("could not refund deposit: %w", rerr)
			}
		}
	}

	if err := s.Repo.UpdateStatus(id, StatusCancelled); err != nil {
		return err
	}

	if customer, cerr := s.CustomerRepo.GetByID(appt.CustomerID); cerr == nil {
		s.senderService.SendAppointmentEmail(*customer, *appt, StatusCancelled)
		s.senderService.SendAppointmentSMS(*customer, *appt, StatusCancelled)
	}
	return nil
}

// SetStatus drives the admin-side lifecycle (confirm, start, complete). Only
// completed appointments become review-eligible downstream.
func (s *BookingService) SetStatus(id int, status string) error {
	switch status {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
	default:
		return fmt.Errorf("invalid appointment status %q", status)
	}
	if err := s.Repo.UpdateStatus(id, status); err != nil {
		return err
	}
	if status == StatusConfirmed {
		if appt, err := s.Repo.GetByID(id); err == nil {
			if customer, cerr := s.CustomerRepo.GetByID(appt.CustomerID); cerr == nil {
				s.senderService.SendAppointmentEmail(*customer, *appt, StatusConfirmed)
				s.senderService.SendAppointmentSMS(*customer, *appt, StatusConfirmed)
			}
		}
	}
	return nil
}
