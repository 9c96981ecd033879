package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"detailing/internal/auth"
	"detailing/internal/entities"
	"detailing/internal/schedule"
	"detailing/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Bookings *service.BookingService
	Schedule *service.ScheduleService
}

func NewBookingHandler(bookings *service.BookingService, schedule *service.ScheduleService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Schedule: schedule}
}

// CheckAvailability is the advisory slot check backing the booking form. The
// authoritative check happens again inside the booking transaction.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Duration <= 0 {
		http.Error(w, "duration must be positive", http.StatusBadRequest)
		return
	}
	if !schedule.ValidTime(req.StartTime) {
		http.Error(w, "start_time must be a zero-padded \"HH:MM\" time", http.StatusBadRequest)
		return
	}
	result, err := h.Schedule.CheckAvailability(req.Date, req.StartTime, req.Duration)
	if err != nil {
		http.Error(w, "Error checking availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	appt, result, err := h.Bookings.CreateBooking(caller.ID, &req)
	if err != nil {
		writeServiceError(w, err, "Could not create booking")
		return
	}
	if !result.Available {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"appointment_id": appt.ID,
		"status":         appt.Status,
		"message":        "Appointment booked.",
	})
}

func (h *BookingHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	appt, err := h.Bookings.GetAppointment(id, caller.ID, caller.Role == auth.RoleAdmin)
	if err != nil {
		writeServiceError(w, err, "Appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *BookingHandler) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	appts, err := h.Bookings.ListCustomerAppointments(caller.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.Bookings.Reschedule(id, caller.ID, caller.Role == auth.RoleAdmin, req.Date, req.StartTime, req.Duration)
	if err != nil {
		writeServiceError(w, err, "Could not reschedule appointment")
		return
	}
	if !result.Available {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment rescheduled"})
}

func (h *BookingHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Bookings.CancelAppointment(id, caller.ID, caller.Role == auth.RoleAdmin); err != nil {
		writeServiceError(w, err, "Could not cancel appointment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled"})
}

// GetBlockedTimes returns all time blocks in the inclusive date range, so the
// booking calendar can grey out closed intervals.
func (h *BookingHandler) GetBlockedTimes(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start")
	endDate := r.URL.Query().Get("end")
	if startDate == "" || endDate == "" {
		http.Error(w, "start and end query parameters required", http.StatusBadRequest)
		return
	}
	blocks, err := h.Schedule.GetBlockedTimes(startDate, endDate)
	if err != nil {
		http.Error(w, "Could not get blocked times", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}
