package repository

import (
	"time"

	"go-boutique-pos/internal/model"

	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(expense *model.Expense) error
	Update(expense *model.Expense) error
	Delete(id uint) error
	FindByID(id uint) (*model.Expense, error)
	FindAll() ([]model.Expense, error)
	FindBetween(start, end time.Time) ([]model.Expense, error)
	Search(query string) ([]model.Expense, error)
	TotalAmount() (int64, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(expense *model.Expense) error {
	return r.db.Omit("Category").Create(expense).Error
}

func (r *expenseRepo) Update(expense *model.Expense) error {
	return r.db.Omit("Category").Save(expense).Error
}

func (r *expenseRepo) Delete(id uint) error {
	res := r.db.Delete(&model.Expense{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *expenseRepo) FindByID(id uint) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.Preload("Category").First(&expense, id).Error
	return &expense, err
}

func (r *expenseRepo) FindAll() ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Preload("Category").Order("spent_at DESC, id DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) FindBetween(start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Preload("Category").
		Where("spent_at >= ? AND spent_at < ?", start.UTC(), end.UTC()).
		Order("spent_at ASC, id ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Search(query string) ([]model.Expense, error) {
	where, args, ok, err := likeAny(query,
		"expenses.concept", "expenses.description", "expenses.payment_method", "expense_categories.name")
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.FindAll()
	}

	var expenses []model.Expense
	err = r.db.Preload("Category").
		Joins("LEFT JOIN expense_categories ON expense_categories.id = expenses.category_id").
		Where(where, args...).
		Order("expenses.spent_at DESC, expenses.id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) TotalAmount() (int64, error) {
	var total int64
	err := r.db.Model(&model.Expense{}).Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}
