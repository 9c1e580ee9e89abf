package repository

import (
	"go-boutique-pos/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	Update(customer *model.Customer) error
	Delete(id uint) error
	FindByID(id uint) (*model.Customer, error)
	FindAll() ([]model.Customer, error)
	Search(query string) ([]model.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

// Delete removes the customer together with its sales, their lines and payments.
// Products sold through those sales become available again.
func (r *customerRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var saleIDs []uint
		if err := tx.Model(&model.Sale{}).Where("customer_id = ?", id).Pluck("id", &saleIDs).Error; err != nil {
			return err
		}
		if len(saleIDs) > 0 {
			if err := deleteSalesTx(tx, saleIDs); err != nil {
				return err
			}
		}

		res := tx.Delete(&model.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *customerRepo) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, id).Error
	return &customer, err
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Search(query string) ([]model.Customer, error) {
	where, args, ok, err := likeAny(query, "name", "phone", "cedula")
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.FindAll()
	}

	var customers []model.Customer
	err = r.db.Where(where, args...).Order("name ASC").Find(&customers).Error
	return customers, err
}
