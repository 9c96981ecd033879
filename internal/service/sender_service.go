package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
)

// SenderService renders and dispatches customer notifications. Email and SMS
// failures are logged, never surfaced to the booking flow.
type SenderService struct {
	businessTZ *time.Location
}

func NewSenderService() *SenderService {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		loc = time.FixedZone("MST", -7*60*60)
	}
	return &SenderService{businessTZ: loc}
}

func (s *SenderService) SendAppointmentEmail(customer db.Customer, appt db.Appointment, status string) {
	emailData := entities.AppointmentEmailData{
		CustomerName:  customer.Name,
		Status:        status,
		DateFormatted: formatDate(appt.ScheduledDate),
		TimeFormatted: appt.ScheduledTime,
		Duration:      appt.Duration,
		Address:       fmt.Sprintf("%s, %s %s", appt.Address, appt.City, appt.Zip),
		TotalPrice:    appt.TotalPrice,
		CurrentYear:   time.Now().In(s.businessTZ).Year(),
	}

	subject := fmt.Sprintf("Your ShineWorks detailing appointment is %s - %s at %s",
		status, emailData.DateFormatted, emailData.TimeFormatted)
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nYour mobile detailing appointment is %s.\n\n"+
			"Appointment Details:\n"+
			"Date: %s\n"+
			"Time: %s (%d minutes)\n"+
			"Location: %s\n"+
			"Total: $%.2f\n\n"+
			"Thank you for choosing ShineWorks.\n\n"+
			"ShineWorks Mobile Detailing. All rights reserved.",
		emailData.CustomerName, status, emailData.DateFormatted, emailData.TimeFormatted,
		emailData.Duration, emailData.Address, emailData.TotalPrice,
	)

	htmlBody := renderTemplate("appointment_email.html", emailData)

	go func(toEmail, toName, subject, plainBody, htmlBody string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlBody); err != nil {
			log.Printf("ALERT (async): email for appointment %d failed: %v", appt.ID, err)
		}
	}(customer.Email, customer.Name, subject, plainBody, htmlBody)
}

func (s *SenderService) SendAppointmentSMS(customer db.Customer, appt db.Appointment, status string) {
	message := fmt.Sprintf("ShineWorks: your detailing appointment on %s at %s is %s. Details in your email.",
		formatDate(appt.ScheduledDate), appt.ScheduledTime, status)

	if err := SendSMS(customer.Phone, message); err != nil {
		log.Printf("ALERT: appointment %d updated, but the SMS to %s failed: %v", appt.ID, customer.Phone, err)
	}
}

func (s *SenderService) SendInvoiceEmail(customer db.Customer, invoice db.Invoice, checkoutURL string) {
	emailData := entities.InvoiceEmailData{
		CustomerName:  customer.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		Total:         invoice.Total,
		DueDate:       invoice.DueDate.In(s.businessTZ).Format("02 Jan 2006"),
		CheckoutURL:   checkoutURL,
		CurrentYear:   time.Now().In(s.businessTZ).Year(),
	}

	subject := fmt.Sprintf("ShineWorks invoice %s - $%.2f due %s",
		emailData.InvoiceNumber, emailData.Total, emailData.DueDate)
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nYour invoice %s for $%.2f is due %s.\n\n"+
			"Pay online: %s\n\n"+
			"Thank you for choosing ShineWorks.\n\n"+
			"ShineWorks Mobile Detailing. All rights reserved.",
		emailData.CustomerName, emailData.InvoiceNumber, emailData.Total, emailData.DueDate, emailData.CheckoutURL,
	)

	htmlBody := renderTemplate("invoice_email.html", emailData)

	go func(toEmail, toName, subject, plainBody, htmlBody string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlBody); err != nil {
			log.Printf("ALERT (async): email for invoice %s failed: %v", invoice.InvoiceNumber, err)
		}
	}(customer.Email, customer.Name, subject, plainBody, htmlBody)
}

func (s *SenderService) SendWelcomeEmail(customer db.Customer) {
	subject := "Welcome to ShineWorks Mobile Detailing"
	plainBody := fmt.Sprintf(
		"Hi %s,\n\nWelcome to ShineWorks! You can now book mobile detailing "+
			"appointments, manage your vehicles and pay invoices online.\n\n"+
			"ShineWorks Mobile Detailing. All rights reserved.",
		customer.Name,
	)

	go func(toEmail, toName string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, ""); err != nil {
			log.Printf("ALERT (async): welcome email to %s failed: %v", toEmail, err)
		}
	}(customer.Email, customer.Name)
}

func renderTemplate(name string, data interface{}) string {
	tmplPath := filepath.Join("internal", "templates", name)
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: could not parse email template %s: %v", tmplPath, err)
		return ""
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("ALERT: could not execute email template %s: %v", tmplPath, err)
		return ""
	}
	return buf.String()
}

func formatDate(yyyymmdd string) string {
	d, err := time.Parse("2006-01-02", yyyymmdd)
	if err != nil {
		return yyyymmdd
	}
	return d.Format("Mon, 02 Jan 2006")
}
