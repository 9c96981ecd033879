package db

import "time"

// BusinessHours is the weekly recurring opening window for one weekday.
// At most one active row exists per day_of_week (0=Sunday .. 6=Saturday).
type BusinessHours struct {
	ID        int    `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM"
	IsActive  bool   `json:"is_active"`
}

// TimeBlock is an ad-hoc closed interval on a single date, independent of
// the weekly schedule.
type TimeBlock struct {
	ID        int       `json:"id"`
	Date      string    `json:"date"` // "YYYY-MM-DD"
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Reason    string    `json:"reason"`
	Type      string    `json:"type"` // time_off | maintenance | other
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"` // active | inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID           int       `json:"id"`
	CustomerID   int       `json:"customer_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color"`
	LicensePlate string    `json:"license_plate"`
	CreatedAt    time.Time `json:"created_at"`
}

type Service struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `json:"active"`
}

type Appointment struct {
	ID            int       `json:"id"`
	CustomerID    int       `json:"customer_id"`
	VehicleIDs    []int     `json:"vehicle_ids"`
	ServiceIDs    []int     `json:"service_ids"`
	ScheduledDate string    `json:"scheduled_date"` // "YYYY-MM-DD"
	ScheduledTime string    `json:"scheduled_time"` // "HH:MM"
	Duration      int       `json:"duration"`       // minutes
	Status        string    `json:"status"`         // pending | confirmed | in_progress | completed | cancelled | rescheduled
	TotalPrice    float64   `json:"total_price"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Zip           string    `json:"zip"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Invoice struct {
	ID              int           `json:"id"`
	AppointmentID   int           `json:"appointment_id"`
	CustomerID      int           `json:"customer_id"`
	InvoiceNumber   string        `json:"invoice_number"`
	Items           []InvoiceItem `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	Total           float64       `json:"total"`
	Status          string        `json:"status"` // draft | sent | paid | overdue
	DueDate         time.Time     `json:"due_date"`
	PaidDate        *time.Time    `json:"paid_date,omitempty"`
	DepositPaid     bool          `json:"deposit_paid"`
	DepositAmount   float64       `json:"deposit_amount"`
	StripeSessionID string        `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type InvoiceItem struct {
	ID          int     `json:"id"`
	InvoiceID   int     `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type Review struct {
	ID            int       `json:"id"`
	CustomerID    int       `json:"customer_id"`
	AppointmentID int       `json:"appointment_id"`
	Rating        int       `json:"rating"` // 1..5
	Comment       string    `json:"comment"`
	IsPublic      bool      `json:"is_public"`
	ReviewDate    time.Time `json:"review_date"`
}
