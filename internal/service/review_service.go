package service

import (
	"fmt"

	"detailing/internal/db"
	"detailing/internal/entities"
	httperrors "detailing/internal/errors"
	"detailing/internal/repository"
)

type ReviewService struct {
	Repo            *repository.ReviewRepository
	AppointmentRepo *repository.AppointmentRepository
	CustomerRepo    *repository.CustomerRepository
}

func NewReviewService(repo *repository.ReviewRepository, appointmentRepo *repository.AppointmentRepository,
	customerRepo *repository.CustomerRepository) *ReviewService {
	return &ReviewService{Repo: repo, AppointmentRepo: appointmentRepo, CustomerRepo: customerRepo}
}

// CreateReview accepts one review per completed appointment, from the
// customer who had it. Uniqueness is enforced by the pending-review filter,
// not a database constraint.
func (s *ReviewService) CreateReview(customerID int, req entities.ReviewRequest) (*db.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	appt, err := s.AppointmentRepo.GetByID(req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.CustomerID != customerID {
		return nil, httperrors.ErrAccessDenied("Access denied")
	}
	if appt.Status != StatusCompleted {
		return nil, fmt.Errorf("only completed appointments can be reviewed")
	}
	if existing, err := s.Repo.GetByAppointment(req.AppointmentID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("appointment %d already has a review", req.AppointmentID)
	}

	review := &db.Review{
		CustomerID:    customerID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		IsPublic:      req.IsPublic,
	}
	if err := s.Repo.CreateReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

// PendingReviews lists the customer's completed appointments with no review
// yet.
func (s *ReviewService) PendingReviews(customerID int) ([]int, error) {
	return s.Repo.PendingReviewAppointments(customerID)
}

// PublicReviews returns reviews marked public, with customer names attached
// for the marketing site.
func (s *ReviewService) PublicReviews(limit int) ([]entities.ReviewResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reviews, err := s.Repo.ListPublicReviews(limit)
	if err != nil {
		return nil, err
	}

	resp := make([]entities.ReviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		r := entities.ReviewResponse{
			ID:            rev.ID,
			CustomerID:    rev.CustomerID,
			AppointmentID: rev.AppointmentID,
			Rating:        rev.Rating,
			Comment:       rev.Comment,
			IsPublic:      rev.IsPublic,
			ReviewDate:    rev.ReviewDate,
		}
		if customer, err := s.CustomerRepo.GetByID(rev.CustomerID); err == nil {
			r.CustomerName = customer.Name
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func (s *ReviewService) CustomerReviews(customerID int) ([]db.Review, error) {
	return s.Repo.ListByCustomer(customerID)
}
