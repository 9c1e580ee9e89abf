package repository

import (
	"go-boutique-pos/internal/model"

	"gorm.io/gorm"
)

type ExpenseCategoryRepository interface {
	Create(category *model.ExpenseCategory) error
	Update(category *model.ExpenseCategory) error
	FindByID(id uint) (*model.ExpenseCategory, error)
	FindAll() ([]model.ExpenseCategory, error)
	Search(query string) ([]model.ExpenseCategory, error)
	DeleteAndClear(id uint) error
}

type expenseCategoryRepo struct {
	db *gorm.DB
}

func NewExpenseCategoryRepo(db *gorm.DB) ExpenseCategoryRepository {
	return &expenseCategoryRepo{db}
}

func (r *expenseCategoryRepo) Create(category *model.ExpenseCategory) error {
	return r.db.Create(category).Error
}

func (r *expenseCategoryRepo) Update(category *model.ExpenseCategory) error {
	return r.db.Save(category).Error
}

func (r *expenseCategoryRepo) FindByID(id uint) (*model.ExpenseCategory, error) {
	var category model.ExpenseCategory
	err := r.db.First(&category, id).Error
	return &category, err
}

func (r *expenseCategoryRepo) FindAll() ([]model.ExpenseCategory, error) {
	var categories []model.ExpenseCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *expenseCategoryRepo) Search(query string) ([]model.ExpenseCategory, error) {
	where, args, ok, err := likeAny(query, "name")
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.FindAll()
	}

	var categories []model.ExpenseCategory
	err = r.db.Where(where, args...).Order("name ASC").Find(&categories).Error
	return categories, err
}

// DeleteAndClear detaches the category from its expenses, then deletes it
func (r *expenseCategoryRepo) DeleteAndClear(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Expense{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.ExpenseCategory{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
