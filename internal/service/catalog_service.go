package service

import (
	"fmt"

	"detailing/internal/db"
	"detailing/internal/repository"
)

// ServiceCatalog manages the detailing packages offered on the site.
type ServiceCatalog struct {
	Repo *repository.ServiceRepository
}

func NewServiceCatalog(repo *repository.ServiceRepository) *ServiceCatalog {
	return &ServiceCatalog{Repo: repo}
}

func (s *ServiceCatalog) ListActive() ([]db.Service, error) {
	return s.Repo.ListServices(true)
}

func (s *ServiceCatalog) ListAll() ([]db.Service, error) {
	return s.Repo.ListServices(false)
}

func (s *ServiceCatalog) CreateService(svc *db.Service) error {
	if err := validateService(svc); err != nil {
		return err
	}
	return s.Repo.CreateService(svc)
}

func (s *ServiceCatalog) UpdateService(svc *db.Service) error {
	if err := validateService(svc); err != nil {
		return err
	}
	return s.Repo.UpdateService(svc)
}

func validateService(svc *db.Service) error {
	if svc.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if svc.Price < 0 {
		return fmt.Errorf("service price cannot be negative")
	}
	if svc.DurationMinutes <= 0 {
		return fmt.Errorf("service duration must be positive")
	}
	return nil
}
