package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"detailing/internal/api"
	"detailing/internal/auth"
	"detailing/internal/repository"
	"detailing/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	scheduleRepo := repository.NewScheduleRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	stripeService := service.NewStripeService()
	senderService := service.NewSenderService()
	scheduleService := service.NewScheduleService(scheduleRepo)
	bookingService := service.NewBookingService(appointmentRepo, customerRepo, serviceRepo, invoiceRepo, stripeService, senderService)
	analyticsService := service.NewAnalyticsService(appointmentRepo, invoiceRepo, customerRepo, serviceRepo)
	customerService := service.NewCustomerService(customerRepo, senderService)
	catalogService := service.NewServiceCatalog(serviceRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, appointmentRepo, customerRepo, serviceRepo, stripeService, senderService)
	reviewService := service.NewReviewService(reviewRepo, appointmentRepo, customerRepo)
	adminAuthService := service.NewAdminAuthService(adminAuthRepo)
	jobService := service.NewJobService(jobRepo)

	seedAdmin(adminAuthService, adminAuthRepo)

	bookingHandler := api.NewBookingHandler(bookingService, scheduleService)
	customerHandler := api.NewCustomerHandler(customerService, catalogService)
	reviewHandler := api.NewReviewHandler(reviewService)
	invoiceHandler := api.NewInvoiceHandler(invoiceService)
	adminHandler := api.NewAdminHandler(scheduleService, bookingService, analyticsService, customerService, catalogService, invoiceService)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthService)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), invoiceService, stripeService)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/services", customerHandler.ListServices).Methods("GET")
	r.HandleFunc("/api/reviews/public", reviewHandler.PublicReviews).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/admin/auth/login", adminAuthHandler.Login).Methods("POST")

	// Customer endpoints (authenticated)
	customer := r.PathPrefix("/api").Subrouter()
	customer.Use(auth.Middleware)
	customer.HandleFunc("/availability", bookingHandler.CheckAvailability).Methods("POST")
	customer.HandleFunc("/blocked-times", bookingHandler.GetBlockedTimes).Methods("GET")
	customer.HandleFunc("/appointments", bookingHandler.CreateBooking).Methods("POST")
	customer.HandleFunc("/appointments", bookingHandler.ListMyAppointments).Methods("GET")
	customer.HandleFunc("/appointments/{id}", bookingHandler.GetAppointment).Methods("GET")
	customer.HandleFunc("/appointments/{id}", bookingHandler.Reschedule).Methods("PUT")
	customer.HandleFunc("/appointments/{id}", bookingHandler.CancelAppointment).Methods("DELETE")
	customer.HandleFunc("/profile", customerHandler.GetProfile).Methods("GET")
	customer.HandleFunc("/vehicles", customerHandler.AddVehicle).Methods("POST")
	customer.HandleFunc("/vehicles", customerHandler.ListVehicles).Methods("GET")
	customer.HandleFunc("/vehicles/{id}", customerHandler.RemoveVehicle).Methods("DELETE")
	customer.HandleFunc("/reviews", reviewHandler.CreateReview).Methods("POST")
	customer.HandleFunc("/reviews/pending", reviewHandler.PendingReviews).Methods("GET")
	customer.HandleFunc("/invoices", invoiceHandler.ListMyInvoices).Methods("GET")
	customer.HandleFunc("/invoices/{id}", invoiceHandler.GetInvoice).Methods("GET")
	customer.HandleFunc("/invoices/{id}/checkout", invoiceHandler.CreateCheckout).Methods("POST")

	// Admin endpoints (protected, role=admin)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminMiddleware)
	admin.HandleFunc("/auth/register", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/business-hours", adminHandler.SetBusinessHours).Methods("PUT")
	admin.HandleFunc("/business-hours", adminHandler.ListBusinessHours).Methods("GET")
	admin.HandleFunc("/time-blocks", adminHandler.AddTimeBlock).Methods("POST")
	admin.HandleFunc("/time-blocks/{id}", adminHandler.DeleteTimeBlock).Methods("DELETE")
	admin.HandleFunc("/analytics/monthly", adminHandler.GetMonthlyStats).Methods("GET")
	admin.HandleFunc("/analytics/dashboard", adminHandler.GetDashboardAnalytics).Methods("GET")
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}/status", adminHandler.SetAppointmentStatus).Methods("PUT")
	admin.HandleFunc("/customers", adminHandler.CreateCustomer).Methods("POST")
	admin.HandleFunc("/customers", adminHandler.ListCustomers).Methods("GET")
	admin.HandleFunc("/customers/{id}", adminHandler.UpdateCustomer).Methods("PUT")
	admin.HandleFunc("/services", adminHandler.CreateService).Methods("POST")
	admin.HandleFunc("/services/{id}", adminHandler.UpdateService).Methods("PUT")
	admin.HandleFunc("/invoices", adminHandler.CreateInvoice).Methods("POST")
	admin.HandleFunc("/invoices", adminHandler.ListInvoices).Methods("GET")
	admin.HandleFunc("/invoices/{id}/send", adminHandler.SendInvoice).Methods("POST")

	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := jobService.CompleteElapsedAppointments(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@daily", func() {
		if err := jobService.MarkOverdueInvoices(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
		if n, err := jobService.DeleteStalePendingAppointments(time.Now().UTC().Add(-48 * time.Hour)); err != nil {
			log.Printf("Cron Job error: %v", err)
		} else if n > 0 {
			log.Printf("Cron Job: Deleted %d stale pending appointments", n)
		}
	})
	c.Start()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("FRONTEND_BASE_URL"), "http://localhost:3000"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler(r)))
}

// seedAdmin creates the bootstrap admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin with that email exists yet. The register
// endpoint requires an admin token, so the first account has to come from the
// environment.
func seedAdmin(svc service.AdminAuthService, repo repository.AdminAuthRepository) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	existing, err := repo.GetByEmail(email)
	if err != nil {
		log.Printf("Could not check for existing admin: %v", err)
		return
	}
	if existing != nil {
		return
	}
	if err := svc.CreateAdmin(email, password); err != nil {
		log.Printf("Could not seed admin account %s: %v", email, err)
		return
	}
	log.Printf("Seeded admin account %s", email)
}
