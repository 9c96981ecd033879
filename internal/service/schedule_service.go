package service

import (
	"fmt"
	"log"
	"time"

	"detailing/internal/db"
	"detailing/internal/entities"
	"detailing/internal/repository"
	"detailing/internal/schedule"
)

const (
	BlockTimeOff     = "time_off"
	BlockMaintenance = "maintenance"
	BlockOther       = "other"
)

type ScheduleService struct {
	Repo    *repository.ScheduleRepository
	checker *schedule.Checker
}

func NewScheduleService(repo *repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{
		Repo:    repo,
		checker: schedule.NewChecker(repo),
	}
}

// CheckAvailability is the read-only slot check backing the booking form. The
// booking mutation re-runs the same check inside its own transaction, so this
// result is advisory.
func (s *ScheduleService) CheckAvailability(date, startTime string, durationMinutes int) (*entities.AvailabilityResult, error) {
	return s.checker.CheckAvailability(date, startTime, durationMinutes)
}

// SetBusinessHours replaces the whole weekly schedule. Each weekday is
// upserted keyed by day_of_week, so callers see a full replace without the
// schedule ever being transiently empty.
func (s *ScheduleService) SetBusinessHours(entries []entities.BusinessHoursEntry) error {
	for _, e := range entries {
		if !e.IsActive {
			continue
		}
		if !schedule.ValidTime(e.StartTime) || !schedule.ValidTime(e.EndTime) {
			return fmt.Errorf("invalid hours for day %d: times must be zero-padded \"HH:MM\"", e.DayOfWeek)
		}
		if e.StartTime >= e.EndTime {
			return fmt.Errorf("invalid hours for day %d: start %s is not before end %s", e.DayOfWeek, e.StartTime, e.EndTime)
		}
	}
	return s.Repo.ReplaceBusinessHours(entries)
}

func (s *ScheduleService) ListBusinessHours() ([]db.BusinessHours, error) {
	return s.Repo.ListBusinessHours()
}

// AddTimeBlock appends one closed interval. No overlap validation is done
// against existing blocks or appointments; an admin can block a slot that
// already has a confirmed booking. Conflicts are counted and logged so the
// dashboard operator at least sees them in the server log.
func (s *ScheduleService) AddTimeBlock(req entities.TimeBlockRequest, createdBy int) (*db.TimeBlock, error) {
	switch req.Type {
	case BlockTimeOff, BlockMaintenance, BlockOther:
	default:
		return nil, fmt.Errorf("invalid block type %q", req.Type)
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}
	if !schedule.ValidTime(req.StartTime) || !schedule.ValidTime(req.EndTime) {
		return nil, fmt.Errorf("block times must be zero-padded \"HH:MM\"")
	}
	if req.StartTime >= req.EndTime {
		return nil, fmt.Errorf("block start %s is not before end %s", req.StartTime, req.EndTime)
	}

	block := &db.TimeBlock{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Type:      req.Type,
		CreatedBy: createdBy,
	}
	if err := s.Repo.CreateTimeBlock(block); err != nil {
		return nil, err
	}

	if n := s.countBookingConflicts(block); n > 0 {
		log.Printf("Time block %d (%s %s-%s) overlaps %d existing appointment(s)", block.ID, block.Date, block.StartTime, block.EndTime, n)
	}
	return block, nil
}

func (s *ScheduleService) countBookingConflicts(block *db.TimeBlock) int {
	appts, err := s.Repo.ActiveAppointmentsForDate(block.Date)
	if err != nil {
		log.Printf("Could not check block conflicts: %v", err)
		return 0
	}
	n := 0
	for _, a := range appts {
		apptEnd := schedule.AddMinutes(a.ScheduledTime, a.Duration)
		if schedule.Overlaps(a.ScheduledTime, apptEnd, block.StartTime, block.EndTime) {
			n++
		}
	}
	return n
}

// GetBlockedTimes returns all time blocks whose date falls in the inclusive
// range.
func (s *ScheduleService) GetBlockedTimes(startDate, endDate string) ([]entities.TimeBlockResponse, error) {
	for _, d := range []string{startDate, endDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", d, err)
		}
	}
	blocks, err := s.Repo.TimeBlocksBetween(startDate, endDate)
	if err != nil {
		return nil, err
	}
	resp := make([]entities.TimeBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		resp = append(resp, entities.TimeBlockResponse{
			ID:        b.ID,
			Date:      b.Date,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Reason:    b.Reason,
			Type:      b.Type,
		})
	}
	return resp, nil
}

func (s *ScheduleService) DeleteTimeBlock(id int) error {
	return s.Repo.DeleteTimeBlock(id)
}
