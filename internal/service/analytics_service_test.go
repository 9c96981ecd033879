package service

import (
	"testing"

	"detailing/internal/db"
	"detailing/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestPctChange(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		prior   float64
		want    string
	}{
		{"growth", 150, 100, "50.0"},
		{"decline", 75, 100, "-25.0"},
		{"unchanged", 100, 100, "0.0"},
		{"rounds to one decimal", 101, 300, "-66.3"},
		{"zero prior reports no change", 5000, 0, "0.0"},
		{"zero prior and zero current", 0, 0, "0.0"},
		{"drop to zero", 0, 200, "-100.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pctChange(tt.current, tt.prior))
		})
	}
}

func TestReduceAppointments(t *testing.T) {
	revenue, bookings, minutes := reduceAppointments(nil)
	assert.Zero(t, revenue)
	assert.Zero(t, bookings)
	assert.Zero(t, minutes)

	revenue, bookings, minutes = reduceAppointments([]db.Appointment{
		{TotalPrice: 120.50, Duration: 90},
		{TotalPrice: 79.50, Duration: 60},
		{TotalPrice: 200, Duration: 180},
	})
	assert.Equal(t, 400.0, revenue)
	assert.Equal(t, 3, bookings)
	assert.Equal(t, 330, minutes)
}

func TestRankServices(t *testing.T) {
	names := map[int]string{1: "Basic Wash", 2: "Full Detail", 3: "Interior Deep Clean", 4: "Ceramic Coat", 5: "Wax"}

	window := map[int]int{1: 10, 2: 25, 3: 7, 4: 7, 5: 2}
	current := map[int]int{1: 3, 2: 4, 3: 1}
	prior := map[int]int{1: 3, 2: 2, 3: 5}

	ranks := rankServices(window, current, prior, names)

	assert.Len(t, ranks, 4, "only the top four services are kept")
	assert.Equal(t, []entities.ServiceRank{
		{ServiceID: 2, Name: "Full Detail", Bookings: 25, Trend: "up"},
		{ServiceID: 1, Name: "Basic Wash", Bookings: 10, Trend: "flat"},
		{ServiceID: 3, Name: "Interior Deep Clean", Bookings: 7, Trend: "down"},
		{ServiceID: 4, Name: "Ceramic Coat", Bookings: 7, Trend: "flat"},
	}, ranks)
}

func TestRankServicesEmpty(t *testing.T) {
	ranks := rankServices(map[int]int{}, nil, nil, nil)
	assert.Empty(t, ranks)
}

func TestCustomerSplit(t *testing.T) {
	appts := []db.Appointment{
		{CustomerID: 1, Status: StatusCompleted},
		{CustomerID: 1, Status: StatusConfirmed},
		{CustomerID: 2, Status: StatusCompleted},
		{CustomerID: 3, Status: StatusCancelled},
		{CustomerID: 3, Status: StatusCancelled},
		{CustomerID: 4, Status: StatusCancelled},
		{CustomerID: 4, Status: StatusCompleted},
	}

	newCustomers, returningCustomers := customerSplit(appts)

	// Customer 1 booked twice, customers 2 and 4 once each after dropping
	// cancellations, customer 3 only cancelled and does not count at all.
	assert.Equal(t, 2, newCustomers)
	assert.Equal(t, 1, returningCustomers)
}

func TestRetentionRate(t *testing.T) {
	assert.Equal(t, "0.0", retentionRate(0, 0))
	assert.Equal(t, "0.0", retentionRate(5, 0))
	assert.Equal(t, "100.0", retentionRate(0, 3))
	assert.Equal(t, "25.0", retentionRate(3, 1))
	assert.Equal(t, "33.3", retentionRate(2, 1))
}
