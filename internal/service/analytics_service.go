package service

import (
	"fmt"
	"sort"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
	"detailing/internal/repository"
)

type AnalyticsService struct {
	AppointmentRepo *repository.AppointmentRepository
	InvoiceRepo     *repository.InvoiceRepository
	CustomerRepo    *repository.CustomerRepository
	ServiceRepo     *repository.ServiceRepository

	// now is swappable in tests.
	now func() time.Time
}

func NewAnalyticsService(appointmentRepo *repository.AppointmentRepository, invoiceRepo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository, serviceRepo *repository.ServiceRepository) *AnalyticsService {
	return &AnalyticsService{
		AppointmentRepo: appointmentRepo,
		InvoiceRepo:     invoiceRepo,
		CustomerRepo:    customerRepo,
		ServiceRepo:     serviceRepo,
		now:             time.Now,
	}
}

// GetMonthlyStats compares the current calendar month against the prior one.
// Nothing is materialized; the rollup is recomputed from the row sets on each
// call.
func (s *AnalyticsService) GetMonthlyStats() (*entities.MonthlyStats, error) {
	now := s.now()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	curEnd := curStart.AddDate(0, 1, 0)
	priorStart := curStart.AddDate(0, -1, 0)

	curAppts, err := s.appointmentsIn(curStart, curEnd)
	if err != nil {
		return nil, err
	}
	priorAppts, err := s.appointmentsIn(priorStart, curStart)
	if err != nil {
		return nil, err
	}

	curRevenue, curBookings, curMinutes := reduceAppointments(curAppts)
	priorRevenue, priorBookings, _ := reduceAppointments(priorAppts)

	activeCustomers, err := s.CustomerRepo.CountByStatus("active")
	if err != nil {
		return nil, err
	}

	curDeposits, err := s.depositTotal(curStart, curEnd)
	if err != nil {
		return nil, err
	}
	priorDeposits, err := s.depositTotal(priorStart, curStart)
	if err != nil {
		return nil, err
	}

	avgHours := 0.0
	if curBookings > 0 {
		avgHours = float64(curMinutes) / float64(curBookings) / 60.0
	}

	return &entities.MonthlyStats{
		TotalRevenue:    curRevenue,
		RevenueChange:   pctChange(curRevenue, priorRevenue),
		Bookings:        curBookings,
		BookingsChange:  pctChange(float64(curBookings), float64(priorBookings)),
		ActiveCustomers: activeCustomers,
		AvgServiceHours: avgHours,
		DepositTotal:    curDeposits,
		DepositChange:   pctChange(curDeposits, priorDeposits),
	}, nil
}

// GetDashboardAnalytics produces a trailing months-long time series plus the
// top-4 services and the new/returning customer split over that window.
func (s *AnalyticsService) GetDashboardAnalytics(months int) (*entities.DashboardAnalytics, error) {
	if months <= 0 {
		months = 6
	}
	now := s.now()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := curStart.AddDate(0, -(months - 1), 0)
	windowEnd := curStart.AddDate(0, 1, 0)

	points := make([]entities.MonthPoint, 0, months)
	for i := 0; i < months; i++ {
		mStart := windowStart.AddDate(0, i, 0)
		mEnd := mStart.AddDate(0, 1, 0)
		appts, err := s.appointmentsIn(mStart, mEnd)
		if err != nil {
			return nil, err
		}
		revenue, bookings, _ := reduceAppointments(appts)
		points = append(points, entities.MonthPoint{
			Month:    mStart.Format("Jan 2006"),
			Revenue:  revenue,
			Bookings: bookings,
		})
	}

	topServices, err := s.topServices(curStart, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	windowAppts, err := s.appointmentsIn(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	newCustomers, returningCustomers := customerSplit(windowAppts)

	return &entities.DashboardAnalytics{
		Months:             points,
		TopServices:        topServices,
		NewCustomers:       newCustomers,
		ReturningCustomers: returningCustomers,
		RetentionRate:      retentionRate(newCustomers, returningCustomers),
	}, nil
}

func (s *AnalyticsService) appointmentsIn(start, end time.Time) ([]db.Appointment, error) {
	// scheduled_date is a "YYYY-MM-DD" string; the repository range is
	// inclusive, so the end bound steps back one day.
	return s.AppointmentRepo.AppointmentsBetween(
		start.Format("2006-01-02"),
		end.AddDate(0, 0, -1).Format("2006-01-02"))
}

func (s *AnalyticsService) depositTotal(start, end time.Time) (float64, error) {
	invoices, err := s.InvoiceRepo.InvoicesCreatedBetween(start, end)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, inv := range invoices {
		if inv.DepositPaid {
			total += inv.DepositAmount
		}
	}
	return total, nil
}

func (s *AnalyticsService) topServices(curStart, windowStart, windowEnd time.Time) ([]entities.ServiceRank, error) {
	windowCounts, err := s.AppointmentRepo.ServiceBookingCounts(
		windowStart.Format("2006-01-02"), windowEnd.AddDate(0, 0, -1).Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	curCounts, err := s.AppointmentRepo.ServiceBookingCounts(
		curStart.Format("2006-01-02"), windowEnd.AddDate(0, 0, -1).Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	priorCounts, err := s.AppointmentRepo.ServiceBookingCounts(
		curStart.AddDate(0, -1, 0).Format("2006-01-02"), curStart.AddDate(0, 0, -1).Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	services, err := s.ServiceRepo.ListServices(false)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.Name
	}

	return rankServices(windowCounts, curCounts, priorCounts, names), nil
}

// reduceAppointments is the single pass behind the monthly rollups.
func reduceAppointments(appts []db.Appointment) (revenue float64, bookings, totalMinutes int) {
	for _, a := range appts {
		revenue += a.TotalPrice
		bookings++
		totalMinutes += a.Duration
	}
	return revenue, bookings, totalMinutes
}

// pctChange formats (current-prior)/prior*100 with one decimal. When the
// prior-period denominator is zero the change is "0.0" regardless of the
// current value; going from $0 to $5000 reports "0.0", not infinity.
func pctChange(current, prior float64) string {
	if prior == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", (current-prior)/prior*100)
}

// rankServices orders services by booking count over the window, keeps the
// top four, and tags each with a month-over-month trend.
func rankServices(window, current, prior map[int]int, names map[int]string) []entities.ServiceRank {
	ranks := make([]entities.ServiceRank, 0, len(window))
	for id, n := range window {
		trend := "flat"
		switch {
		case current[id] > prior[id]:
			trend = "up"
		case current[id] < prior[id]:
			trend = "down"
		}
		ranks = append(ranks, entities.ServiceRank{
			ServiceID: id,
			Name:      names[id],
			Bookings:  n,
			Trend:     trend,
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Bookings != ranks[j].Bookings {
			return ranks[i].Bookings > ranks[j].Bookings
		}
		return ranks[i].ServiceID < ranks[j].ServiceID
	})
	if len(ranks) > 4 {
		ranks = ranks[:4]
	}
	return ranks
}

// customerSplit counts customers with a single non-cancelled appointment in
// the window as new and those with more than one as returning.
func customerSplit(appts []db.Appointment) (newCustomers, returningCustomers int) {
	perCustomer := make(map[int]int)
	for _, a := range appts {
		if a.Status == StatusCancelled {
			continue
		}
		perCustomer[a.CustomerID]++
	}
	for _, n := range perCustomer {
		if n > 1 {
			returningCustomers++
		} else {
			newCustomers++
		}
	}
	return newCustomers, returningCustomers
}

// retentionRate is returning/total*100 with one decimal, "0.0" when there are
// no customers at all.
func retentionRate(newCustomers, returningCustomers int) string {
	total := newCustomers + returningCustomers
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(returningCustomers)/float64(total)*100)
}
