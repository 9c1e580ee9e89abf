package service

import (
	"fmt"
	"strings"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/ws"
)

type CustomerInput struct {
	Name        string  `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Cedula      *string `json:"cedula"`
	Description *string `json:"description"`
}

type CustomerService interface {
	Create(in CustomerInput) (*model.Customer, error)
	Update(id uint, in CustomerInput) (*model.Customer, error)
	Delete(id uint) error
	Get(id uint) (*model.Customer, error)
	List(query string) ([]model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	wsHub        *ws.Hub
}

func NewCustomerService(repo repository.CustomerRepository, hub *ws.Hub) CustomerService {
	return &customerService{customerRepo: repo, wsHub: hub}
}

func applyCustomerInput(c *model.Customer, in CustomerInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrBlankName
	}
	c.Name = name
	c.Address = model.OptionalText(in.Address)
	c.Phone = model.OptionalText(in.Phone)
	c.Cedula = model.OptionalText(in.Cedula)
	c.Description = model.OptionalText(in.Description)
	return nil
}

func (s *customerService) Create(in CustomerInput) (*model.Customer, error) {
	customer := &model.Customer{}
	if err := applyCustomerInput(customer, in); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	s.wsHub.Notify("customer", "created", customer.ID, fmt.Sprintf("customer '%s' created", customer.Name))
	return customer, nil
}

func (s *customerService) Update(id uint, in CustomerInput) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := applyCustomerInput(customer, in); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}

	s.wsHub.Notify("customer", "updated", id, "")
	return customer, nil
}

// Delete removes the customer and, with it, every sale recorded for them
func (s *customerService) Delete(id uint) error {
	if err := s.customerRepo.Delete(id); err != nil {
		return notFound(err)
	}
	s.wsHub.Notify("customer", "deleted", id, "")
	return nil
}

func (s *customerService) Get(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return customer, nil
}

func (s *customerService) List(query string) ([]model.Customer, error) {
	return s.customerRepo.Search(query)
}
