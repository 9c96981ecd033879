package entities

import "time"

type ReviewRequest struct {
	AppointmentID int    `json:"appointment_id"`
	Rating        int    `json:"rating"` // 1..5
	Comment       string `json:"comment"`
	IsPublic      bool   `json:"is_public"`
}

type ReviewResponse struct {
	ID            int       `json:"id"`
	CustomerID    int       `json:"customer_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	AppointmentID int       `json:"appointment_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	IsPublic      bool      `json:"is_public"`
	ReviewDate    time.Time `json:"review_date"`
}
