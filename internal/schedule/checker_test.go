package schedule

import (
	"testing"

	"detailing/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore serves fixed schedule data. Keyed by weekday / date so a test can
// describe the whole week in one literal.
type mockStore struct {
	hours        map[int]*db.BusinessHours
	blocks       map[string][]db.TimeBlock
	appointments map[string][]db.Appointment
}

func (m *mockStore) ActiveBusinessHours(dayOfWeek int) (*db.BusinessHours, error) {
	return m.hours[dayOfWeek], nil
}

func (m *mockStore) TimeBlocksForDate(date string) ([]db.TimeBlock, error) {
	return m.blocks[date], nil
}

func (m *mockStore) ActiveAppointmentsForDate(date string) ([]db.Appointment, error) {
	return m.appointments[date], nil
}

// mondayStore opens Mondays 07:00-20:00 and nothing else.
// 2025-06-02 is a Monday.
func mondayStore() *mockStore {
	return &mockStore{
		hours: map[int]*db.BusinessHours{
			1: {ID: 1, DayOfWeek: 1, StartTime: "07:00", EndTime: "20:00", IsActive: true},
		},
		blocks:       map[string][]db.TimeBlock{},
		appointments: map[string][]db.Appointment{},
	}
}

func TestCheckAvailability(t *testing.T) {
	const monday = "2025-06-02"
	const sunday = "2025-06-01"

	tests := []struct {
		name       string
		store      *mockStore
		date       string
		startTime  string
		duration   int
		wantOK     bool
		wantReason string
	}{
		{
			name:       "closed weekday",
			store:      mondayStore(),
			date:       sunday,
			startTime:  "10:00",
			duration:   60,
			wantOK:     false,
			wantReason: "Business closed on this day",
		},
		{
			name:      "open slot inside business hours",
			store:     mondayStore(),
			date:      monday,
			startTime: "10:00",
			duration:  60,
			wantOK:    true,
		},
		{
			name:      "slot filling the whole day",
			store:     mondayStore(),
			date:      monday,
			startTime: "07:00",
			duration:  13 * 60,
			wantOK:    true,
		},
		{
			name:       "starts before opening",
			store:      mondayStore(),
			date:       monday,
			startTime:  "06:30",
			duration:   60,
			wantOK:     false,
			wantReason: "Outside business hours",
		},
		{
			name:       "ends after closing",
			store:      mondayStore(),
			date:       monday,
			startTime:  "19:30",
			duration:   60,
			wantOK:     false,
			wantReason: "Outside business hours",
		},
		{
			name: "overlaps a time block",
			store: func() *mockStore {
				s := mondayStore()
				s.blocks[monday] = []db.TimeBlock{
					{ID: 1, Date: monday, StartTime: "10:00", EndTime: "11:00", Type: "maintenance", Reason: "maintenance"},
				}
				return s
			}(),
			date:       monday,
			startTime:  "10:30",
			duration:   30,
			wantOK:     false,
			wantReason: "Time blocked: maintenance",
		},
		{
			name: "slot adjacent to a block is free",
			store: func() *mockStore {
				s := mondayStore()
				s.blocks[monday] = []db.TimeBlock{
					{ID: 1, Date: monday, StartTime: "09:00", EndTime: "10:00", Type: "time_off", Reason: "time off"},
				}
				return s
			}(),
			date:      monday,
			startTime: "10:00",
			duration:  60,
			wantOK:    true,
		},
		{
			name: "overlaps an existing appointment",
			store: func() *mockStore {
				s := mondayStore()
				s.appointments[monday] = []db.Appointment{
					{ID: 7, ScheduledDate: monday, ScheduledTime: "09:00", Duration: 90, Status: "confirmed"},
				}
				return s
			}(),
			date:       monday,
			startTime:  "10:00",
			duration:   60,
			wantOK:     false,
			wantReason: "Time slot already booked",
		},
		{
			name: "back-to-back booking allowed",
			store: func() *mockStore {
				s := mondayStore()
				s.appointments[monday] = []db.Appointment{
					{ID: 7, ScheduledDate: monday, ScheduledTime: "09:00", Duration: 60, Status: "confirmed"},
				}
				return s
			}(),
			date:      monday,
			startTime: "10:00",
			duration:  60,
			wantOK:    true,
		},
		{
			name: "one minute of overlap still conflicts",
			store: func() *mockStore {
				s := mondayStore()
				s.appointments[monday] = []db.Appointment{
					{ID: 7, ScheduledDate: monday, ScheduledTime: "09:59", Duration: 61, Status: "confirmed"},
				}
				return s
			}(),
			date:       monday,
			startTime:  "10:00",
			duration:   60,
			wantOK:     false,
			wantReason: "Time slot already booked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.store)
			result, err := checker.CheckAvailability(tt.date, tt.startTime, tt.duration)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantOK, result.Available)
			assert.Equal(t, tt.wantReason, result.Reason)
		})
	}
}

func TestCheckAvailabilityInvalidDate(t *testing.T) {
	checker := NewChecker(mondayStore())
	_, err := checker.CheckAvailability("06/02/2025", "10:00", 60)
	assert.Error(t, err)
}

// An unpadded time like "9:00" sorts after every padded time, so if it were
// accepted it would pass the business-hours check and slip past the overlap
// scan against a confirmed 09:30 booking. It must be rejected outright.
func TestCheckAvailabilityRejectsUnpaddedTime(t *testing.T) {
	store := mondayStore()
	store.appointments["2025-06-02"] = []db.Appointment{
		{ID: 1, ScheduledTime: "09:30", Duration: 60, Status: "confirmed"},
	}
	checker := NewChecker(store)

	result, err := checker.CheckAvailability("2025-06-02", "9:00", 60)
	assert.Error(t, err)
	assert.Nil(t, result)
}

// A non-positive duration produces an empty interval that never conflicts, so
// it must be rejected before the overlap scan runs.
func TestCheckAvailabilityRejectsNonPositiveDuration(t *testing.T) {
	store := mondayStore()
	store.appointments["2025-06-02"] = []db.Appointment{
		{ID: 1, ScheduledTime: "09:30", Duration: 60, Status: "confirmed"},
	}
	checker := NewChecker(store)

	for _, duration := range []int{0, -60} {
		result, err := checker.CheckAvailability("2025-06-02", "10:00", duration)
		assert.Error(t, err, "duration %d", duration)
		assert.Nil(t, result, "duration %d", duration)
	}
}

func TestValidTime(t *testing.T) {
	tests := []struct {
		hhmm string
		want bool
	}{
		{"00:00", true},
		{"09:00", true},
		{"19:30", true},
		{"23:59", true},
		{"9:00", false},
		{"24:00", false},
		{"10:60", false},
		{"10:5", false},
		{"1000", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTime(tt.hhmm), "ValidTime(%q)", tt.hhmm)
	}
}

func TestCheckAvailabilityIsReadOnly(t *testing.T) {
	// Checking twice against unchanged data must give the same answer.
	store := mondayStore()
	store.appointments["2025-06-02"] = []db.Appointment{
		{ID: 1, ScheduledTime: "09:00", Duration: 60, Status: "confirmed"},
	}
	checker := NewChecker(store)

	first, err := checker.CheckAvailability("2025-06-02", "09:30", 30)
	require.NoError(t, err)
	second, err := checker.CheckAvailability("2025-06-02", "09:30", 30)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"disjoint before", "08:00", "09:00", "10:00", "11:00", false},
		{"disjoint after", "12:00", "13:00", "10:00", "11:00", false},
		{"touching end to start", "09:00", "10:00", "10:00", "11:00", false},
		{"touching start to end", "11:00", "12:00", "10:00", "11:00", false},
		{"partial overlap", "09:30", "10:30", "10:00", "11:00", true},
		{"contained", "10:15", "10:45", "10:00", "11:00", true},
		{"containing", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"one minute overlap", "09:59", "10:01", "10:00", "11:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// The relation is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		hhmm    string
		minutes int
		want    string
	}{
		{"09:00", 60, "10:00"},
		{"09:00", 90, "10:30"},
		{"09:45", 30, "10:15"},
		{"00:00", 5, "00:05"},
		{"19:30", 60, "20:30"},
		{"23:30", 60, "24:30"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMinutes(tt.hhmm, tt.minutes), "AddMinutes(%s, %d)", tt.hhmm, tt.minutes)
	}
}
