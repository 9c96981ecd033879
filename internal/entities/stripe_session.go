package entities

type StripeSessionResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	URL           string `json:"url"`
	SessionID     string `json:"session_id"`
}
