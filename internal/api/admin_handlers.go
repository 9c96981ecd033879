package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"detailing/internal/auth"
	"detailing/internal/db"
	"detailing/internal/entities"
	"detailing/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Schedule  *service.ScheduleService
	Bookings  *service.BookingService
	Analytics *service.AnalyticsService
	Customers *service.CustomerService
	Services  *service.ServiceCatalog
	Invoices  *service.InvoiceService
}

func NewAdminHandler(schedule *service.ScheduleService, bookings *service.BookingService,
	analytics *service.AnalyticsService, customers *service.CustomerService,
	services *service.ServiceCatalog, invoices *service.InvoiceService) *AdminHandler {
	return &AdminHandler{
		Schedule:  schedule,
		Bookings:  bookings,
		Analytics: analytics,
		Customers: customers,
		Services:  services,
		Invoices:  invoices,
	}
}

// SetBusinessHours replaces the whole weekly schedule.
func (h *AdminHandler) SetBusinessHours(w http.ResponseWriter, r *http.Request) {
	var req SetBusinessHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	entries := make([]entities.BusinessHoursEntry, 0, len(req.Schedule))
	for _, d := range req.Schedule {
		entries = append(entries, entities.BusinessHoursEntry{
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			IsActive:  d.IsActive,
		})
	}
	if err := h.Schedule.SetBusinessHours(entries); err != nil {
		writeServiceError(w, err, "Could not update business hours")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Business hours updated"})
}

func (h *AdminHandler) ListBusinessHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.Schedule.ListBusinessHours()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hours)
}

func (h *AdminHandler) AddTimeBlock(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	var req entities.TimeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	block, err := h.Schedule.AddTimeBlock(req, caller.ID)
	if err != nil {
		writeServiceError(w, err, "Could not create time block")
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *AdminHandler) DeleteTimeBlock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Schedule.DeleteTimeBlock(id); err != nil {
		http.Error(w, "Could not delete time block", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Time block deleted"})
}

func (h *AdminHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.GetMonthlyStats()
	if err != nil {
		http.Error(w, "Could not compute monthly stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) GetDashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	analytics, err := h.Analytics.GetDashboardAnalytics(months)
	if err != nil {
		http.Error(w, "Could not compute dashboard analytics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	appts, err := h.Bookings.ListAppointments(date, status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AdminHandler) SetAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Bookings.SetStatus(id, req.Status); err != nil {
		writeServiceError(w, err, "Could not update appointment status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment updated"})
}

func (h *AdminHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c db.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Customers.CreateCustomer(&c); err != nil {
		writeServiceError(w, err, "Could not create customer")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.ListCustomers(r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *AdminHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var c db.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	c.ID = id
	if err := h.Customers.UpdateCustomer(&c); err != nil {
		writeServiceError(w, err, "Could not update customer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer updated"})
}

func (h *AdminHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var s db.Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Services.CreateService(&s); err != nil {
		writeServiceError(w, err, "Could not create service")
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var s db.Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	s.ID = id
	if err := h.Services.UpdateService(&s); err != nil {
		writeServiceError(w, err, "Could not update service")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Service updated"})
}

func (h *AdminHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	inv, err := h.Invoices.CreateInvoiceForAppointment(req.AppointmentID, req.TaxRate, req.DepositAmount, req.DueInDays)
	if err != nil {
		writeServiceError(w, err, "Could not create invoice")
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *AdminHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Invoices.SendInvoice(id); err != nil {
		writeServiceError(w, err, "Could not send invoice")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invoice sent"})
}

func (h *AdminHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Invoices.ListInvoices(r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}
