package service

import (
	"fmt"

	"detailing/internal/db"
	"detailing/internal/repository"
)

type CustomerService struct {
	Repo          *repository.CustomerRepository
	senderService *SenderService
}

func NewCustomerService(repo *repository.CustomerRepository, senderService *SenderService) *CustomerService {
	return &CustomerService{Repo: repo, senderService: senderService}
}

// CreateCustomer registers the customer record (identity itself lives with
// the external provider) and fires the welcome email.
func (s *CustomerService) CreateCustomer(c *db.Customer) error {
	if c.Email == "" || c.Name == "" {
		return fmt.Errorf("customer name and email are required")
	}
	if existing, err := s.Repo.GetByEmail(c.Email); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("customer with email %s already exists", c.Email)
	}
	if c.Status == "" {
		c.Status = "active"
	}
	if err := s.Repo.CreateCustomer(c); err != nil {
		return err
	}
	s.senderService.SendWelcomeEmail(*c)
	return nil
}

func (s *CustomerService) GetCustomer(id int) (*db.Customer, error) {
	return s.Repo.GetByID(id)
}

func (s *CustomerService) ListCustomers(status string) ([]db.Customer, error) {
	return s.Repo.ListCustomers(status)
}

func (s *CustomerService) UpdateCustomer(c *db.Customer) error {
	return s.Repo.UpdateCustomer(c)
}

func (s *CustomerService) AddVehicle(v *db.Vehicle) error {
	if v.Make == "" || v.Model == "" {
		return fmt.Errorf("vehicle make and model are required")
	}
	return s.Repo.CreateVehicle(v)
}

func (s *CustomerService) ListVehicles(customerID int) ([]db.Vehicle, error) {
	return s.Repo.ListVehicles(customerID)
}

func (s *CustomerService) RemoveVehicle(id, customerID int) error {
	return s.Repo.DeleteVehicle(id, customerID)
}
