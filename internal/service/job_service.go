package service

import (
	"fmt"
	"log"
	"time"

	"detailing/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteElapsedAppointments marks confirmed appointments whose slot has
// fully passed as completed, which makes them review-eligible.
func (s *JobService) CompleteElapsedAppointments() error {
	log.Println("Cron Job: Checking for appointments to mark as 'completed'...")

	ids, err := s.Repo.GetConfirmedAppointmentIDsPastEnd()
	if err != nil {
		return fmt.Errorf("cron job: failed to get appointments past end time: %w", err)
	}

	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed appointments found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d appointments to mark as 'completed'. IDs: %v", len(ids), ids)

	if err := s.Repo.UpdateAppointmentStatuses(ids, "completed"); err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully updated %d appointments to 'completed'.", len(ids))
	return nil
}

// MarkOverdueInvoices flips sent invoices past their due date to overdue.
func (s *JobService) MarkOverdueInvoices() error {
	n, err := s.Repo.MarkOverdueInvoices()
	if err != nil {
		return fmt.Errorf("cron job: failed to mark overdue invoices: %w", err)
	}
	if n > 0 {
		log.Printf("Cron Job: Marked %d invoices overdue.", n)
	}
	return nil
}

// DeleteStalePendingAppointments deletes pending appointments created before
// the given time that never got confirmed.
func (s *JobService) DeleteStalePendingAppointments(before time.Time) (int64, error) {
	return s.Repo.DeleteStalePendingAppointments(before)
}
