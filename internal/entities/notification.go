package entities

// AppointmentEmailData feeds the confirmation/cancellation email template.
type AppointmentEmailData struct {
	CustomerName  string
	Status        string
	DateFormatted string
	TimeFormatted string
	Duration      int
	Address       string
	TotalPrice    float64
	CurrentYear   int
}

// InvoiceEmailData feeds the invoice email template.
type InvoiceEmailData struct {
	CustomerName  string
	InvoiceNumber string
	Total         float64
	DueDate       string
	CheckoutURL   string
	CurrentYear   int
}
