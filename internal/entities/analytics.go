package entities

// MonthlyStats compares the current calendar month against the prior one.
// All *Change fields are percentage strings with one decimal ("12.5"); when
// the prior-month denominator is zero the change is reported as "0.0".
type MonthlyStats struct {
	TotalRevenue    float64 `json:"total_revenue"`
	RevenueChange   string  `json:"revenue_change"`
	Bookings        int     `json:"bookings"`
	BookingsChange  string  `json:"bookings_change"`
	ActiveCustomers int     `json:"active_customers"`
	AvgServiceHours float64 `json:"avg_service_hours"`
	DepositTotal    float64 `json:"deposit_total"`
	DepositChange   string  `json:"deposit_change"`
}

type MonthPoint struct {
	Month    string  `json:"month"` // "Jan 2025"
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

type ServiceRank struct {
	ServiceID int    `json:"service_id"`
	Name      string `json:"name"`
	Bookings  int    `json:"bookings"`
	Trend     string `json:"trend"` // up | down | flat
}

type DashboardAnalytics struct {
	Months             []MonthPoint  `json:"months"`
	TopServices        []ServiceRank `json:"top_services"`
	NewCustomers       int           `json:"new_customers"`
	ReturningCustomers int           `json:"returning_customers"`
	RetentionRate      string        `json:"retention_rate"` // percentage, one decimal
}
