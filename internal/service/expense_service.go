package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/ws"
	"go-boutique-pos/pkg/money"
)

type ExpenseInput struct {
	Concept       string     `json:"concept"`
	AmountCents   *int64     `json:"amount_cents"`
	AmountPesos   string     `json:"amount_pesos"`
	SpentAt       *time.Time `json:"spent_at"`
	CategoryID    *uint      `json:"category_id"`
	PaymentMethod string     `json:"payment_method"`
	Description   *string    `json:"description"`
	PhotoURI      *string    `json:"photo_uri"`
}

type ExpenseService interface {
	Create(in ExpenseInput) (*model.Expense, error)
	Update(id uint, in ExpenseInput) (*model.Expense, error)
	Delete(id uint) error
	Get(id uint) (*model.Expense, error)
	List(query string) ([]model.Expense, error)
	Total() (int64, error)

	CreateCategory(name string) (*model.ExpenseCategory, error)
	UpdateCategory(id uint, name string) (*model.ExpenseCategory, error)
	DeleteCategory(id uint) error
	ListCategories(query string) ([]model.ExpenseCategory, error)
}

type expenseService struct {
	expenseRepo  repository.ExpenseRepository
	categoryRepo repository.ExpenseCategoryRepository
	wsHub        *ws.Hub
	now          func() time.Time
}

func NewExpenseService(eRepo repository.ExpenseRepository, cRepo repository.ExpenseCategoryRepository, hub *ws.Hub) ExpenseService {
	return &expenseService{
		expenseRepo:  eRepo,
		categoryRepo: cRepo,
		wsHub:        hub,
		now:          time.Now,
	}
}

func (s *expenseService) apply(e *model.Expense, in ExpenseInput) error {
	var amount int64
	if in.AmountCents != nil {
		amount = *in.AmountCents
	} else if parsed, ok := money.ParsePesos(in.AmountPesos); ok {
		amount = parsed
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > money.MaxCents {
		return ErrAmountTooLarge
	}

	if in.CategoryID != nil && *in.CategoryID != 0 {
		if _, err := s.categoryRepo.FindByID(*in.CategoryID); err != nil {
			if err = notFound(err); errors.Is(err, ErrNotFound) {
				return ErrCategoryRequired
			}
			return err
		}
		id := *in.CategoryID
		e.CategoryID = &id
	} else {
		e.CategoryID = nil
	}

	e.Concept = strings.TrimSpace(in.Concept)
	e.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	e.AmountCents = amount
	e.Description = model.OptionalText(in.Description)
	e.PhotoURI = model.OptionalText(in.PhotoURI)
	if in.SpentAt != nil && !in.SpentAt.IsZero() {
		e.SpentAt = *in.SpentAt
	} else if e.SpentAt.IsZero() {
		e.SpentAt = s.now()
	}
	e.Category = nil
	return validate(e)
}

func (s *expenseService) Create(in ExpenseInput) (*model.Expense, error) {
	expense := &model.Expense{}
	if err := s.apply(expense, in); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, err
	}

	s.wsHub.Notify("expense", "created", expense.ID, fmt.Sprintf("expense '%s' recorded", expense.Concept))
	return s.expenseRepo.FindByID(expense.ID)
}

func (s *expenseService) Update(id uint, in ExpenseInput) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.apply(expense, in); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Update(expense); err != nil {
		return nil, err
	}

	s.wsHub.Notify("expense", "updated", id, "")
	return s.expenseRepo.FindByID(id)
}

func (s *expenseService) Delete(id uint) error {
	if err := s.expenseRepo.Delete(id); err != nil {
		return notFound(err)
	}
	s.wsHub.Notify("expense", "deleted", id, "")
	return nil
}

func (s *expenseService) Get(id uint) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return expense, nil
}

func (s *expenseService) List(query string) ([]model.Expense, error) {
	return s.expenseRepo.Search(query)
}

func (s *expenseService) Total() (int64, error) {
	return s.expenseRepo.TotalAmount()
}

func (s *expenseService) CreateCategory(name string) (*model.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	category := &model.ExpenseCategory{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	s.wsHub.Notify("expense_category", "created", category.ID, "")
	return category, nil
}

func (s *expenseService) UpdateCategory(id uint, name string) (*model.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	s.wsHub.Notify("expense_category", "updated", id, "")
	return category, nil
}

// DeleteCategory leaves the category's expenses in place, uncategorized
func (s *expenseService) DeleteCategory(id uint) error {
	if err := s.categoryRepo.DeleteAndClear(id); err != nil {
		return notFound(err)
	}
	s.wsHub.Notify("expense_category", "deleted", id, "")
	return nil
}

func (s *expenseService) ListCategories(query string) ([]model.ExpenseCategory, error) {
	return s.categoryRepo.Search(query)
}
