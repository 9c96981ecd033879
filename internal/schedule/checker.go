package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
)

// Schedule comparisons are plain string comparisons, which only order
// correctly for zero-padded fixed-width times.
var timeRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTime reports whether hhmm is a zero-padded 24h "HH:MM" time.
func ValidTime(hhmm string) bool {
	return timeRE.MatchString(hhmm)
}

// Store is the slice of the data layer the availability check reads: weekly
// hours, ad-hoc blocks and the day's non-cancelled appointments.
type Store interface {
	ActiveBusinessHours(dayOfWeek int) (*db.BusinessHours, error)
	TimeBlocksForDate(date string) ([]db.TimeBlock, error)
	ActiveAppointmentsForDate(date string) ([]db.Appointment, error)
}

// Checker decides whether a candidate slot is bookable.
type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// CheckAvailability reports whether the slot [startTime, startTime+duration)
// on the given date is bookable. A negative outcome is a normal result with a
// reason, not an error; errors are reserved for malformed input and store
// failures. startTime must be zero-padded "HH:MM": an unpadded time like
// "9:00" sorts after every padded time and would slip past the overlap scan.
//
// Checks run in order: business open that weekday, slot wholly within
// business hours, no overlap with a time block, no overlap with an existing
// non-cancelled appointment. Boundary-touching slots do not conflict
// (half-open intervals), so back-to-back bookings are allowed.
func (c *Checker) CheckAvailability(date, startTime string, durationMinutes int) (*entities.AvailabilityResult, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if !ValidTime(startTime) {
		return nil, fmt.Errorf("invalid start time %q: want zero-padded \"HH:MM\"", startTime)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("invalid duration %d: must be positive", durationMinutes)
	}

	hours, err := c.store.ActiveBusinessHours(int(day.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("error loading business hours: %w", err)
	}
	if hours == nil {
		return &entities.AvailabilityResult{Available: false, Reason: "Business closed on this day"}, nil
	}

	requestedEnd := AddMinutes(startTime, durationMinutes)

	// Zero-padded "HH:MM" strings compare correctly lexicographically.
	if startTime < hours.StartTime || requestedEnd > hours.EndTime {
		return &entities.AvailabilityResult{Available: false, Reason: "Outside business hours"}, nil
	}

	blocks, err := c.store.TimeBlocksForDate(date)
	if err != nil {
		return nil, fmt.Errorf("error loading time blocks: %w", err)
	}
	for _, b := range blocks {
		if Overlaps(startTime, requestedEnd, b.StartTime, b.EndTime) {
			return &entities.AvailabilityResult{Available: false, Reason: "Time blocked: " + b.Reason}, nil
		}
	}

	appointments, err := c.store.ActiveAppointmentsForDate(date)
	if err != nil {
		return nil, fmt.Errorf("error loading appointments: %w", err)
	}
	for _, a := range appointments {
		apptEnd := AddMinutes(a.ScheduledTime, a.Duration)
		if Overlaps(startTime, requestedEnd, a.ScheduledTime, apptEnd) {
			return &entities.AvailabilityResult{Available: false, Reason: "Time slot already booked"}, nil
		}
	}

	return &entities.AvailabilityResult{Available: true}, nil
}

// Overlaps applies the half-open interval law: [a,b) and [c,d) overlap iff
// a < d && b > c. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// AddMinutes adds a duration to an "HH:MM" time using integer minute
// arithmetic and re-formats it zero-padded. The hour component does not roll
// over past 24, so a slot crossing midnight formats as "24:30" and so on; the
// business never books across midnight, and such an end time simply compares
// greater than any closing time.
func AddMinutes(hhmm string, minutes int) string {
	parts := strings.SplitN(hhmm, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) == 2 {
		m, _ = strconv.Atoi(parts[1])
	}
	total := h*60 + m + minutes
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
