package entities

import "time"

type BookingRequest struct {
	VehicleIDs    []int   `json:"vehicle_ids"`
	ServiceIDs    []int   `json:"service_ids"`
	ScheduledDate string  `json:"scheduled_date"` // "YYYY-MM-DD"
	ScheduledTime string  `json:"scheduled_time"` // "HH:MM"
	Duration      int     `json:"duration"`       // minutes
	TotalPrice    float64 `json:"total_price"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	Zip           string  `json:"zip"`
	Notes         string  `json:"notes"`
}

type AppointmentResponse struct {
	ID            int       `json:"id"`
	CustomerID    int       `json:"customer_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	VehicleIDs    []int     `json:"vehicle_ids"`
	ServiceIDs    []int     `json:"service_ids"`
	ScheduledDate string    `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	Duration      int       `json:"duration"`
	Status        string    `json:"status"`
	TotalPrice    float64   `json:"total_price"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Zip           string    `json:"zip"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentList struct {
	Total        int                   `json:"total"`
	Appointments []AppointmentResponse `json:"appointments"`
}
