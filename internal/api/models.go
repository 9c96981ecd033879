package api

import (
	"encoding/json"
	"errors"
	"net/http"

	httperrors "detailing/internal/errors"
)

// Availability
type AvailabilityRequest struct {
	Date      string `json:"date"`       // "YYYY-MM-DD"
	StartTime string `json:"start_time"` // "HH:MM"
	Duration  int    `json:"duration"`   // minutes
}

// Schedule
type SetBusinessHoursRequest struct {
	Schedule []BusinessHoursDay `json:"schedule"`
}

type BusinessHoursDay struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

// Invoices
type CreateInvoiceRequest struct {
	AppointmentID int     `json:"appointment_id"`
	TaxRate       float64 `json:"tax_rate"`
	DepositAmount float64 `json:"deposit_amount"`
	DueInDays     int     `json:"due_in_days"`
}

type CheckoutRequest struct {
	PayDeposit bool `json:"pay_deposit"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps HTTPError codes through and treats everything else
// as a 500 with a generic message, keeping DB detail out of responses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var httpErr *httperrors.HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Message, httpErr.Code)
		return
	}
	http.Error(w, fallback, http.StatusInternalServerError)
}
