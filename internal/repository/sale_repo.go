package repository

import (
	"time"

	"go-boutique-pos/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateWithItems(sale *model.Sale, markSoldIDs []uint) error
	UpdateDetails(id uint, soldAt time.Time, description *string) error
	Delete(id uint) error
	FindByID(id uint) (*model.Sale, error)
	FindAll() ([]model.Sale, error)
	FindBetween(start, end time.Time) ([]model.Sale, error)
	Search(query string) ([]model.Sale, error)

	CreatePayment(payment *model.Payment) error
	UpdatePayment(payment *model.Payment) error
	FindPaymentByID(id uint) (*model.Payment, error)
	TotalPayments(saleID uint) (int64, error)
	FindAllPayments() ([]model.Payment, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// withDetails loads everything needed to render a sale and its balance
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at DESC, id DESC")
		})
}

func applyPayments(sales []model.Sale) {
	for i := range sales {
		sales[i].ApplyPayments()
	}
}

// CreateWithItems stores the sale and its lines atomically, optionally
// flagging the given products as sold by it
func (r *saleRepo) CreateWithItems(sale *model.Sale, markSoldIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Customer", "Payments").Create(sale).Error; err != nil {
			return err
		}
		if len(markSoldIDs) > 0 {
			if err := markSoldTx(tx, markSoldIDs, sale.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *saleRepo) UpdateDetails(id uint, soldAt time.Time, description *string) error {
	res := r.db.Model(&model.Sale{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sold_at":     soldAt.UTC(),
		"description": description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Sale{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteSalesTx(tx, []uint{id})
	})
}

func (r *saleRepo) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := withDetails(r.db).First(&sale, id).Error; err != nil {
		return nil, err
	}
	sale.ApplyPayments()
	return &sale, nil
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := withDetails(r.db).Order("sold_at DESC, id DESC").Find(&sales).Error
	applyPayments(sales)
	return sales, err
}

func (r *saleRepo) FindBetween(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := withDetails(r.db).
		Where("sold_at >= ? AND sold_at < ?", start.UTC(), end.UTC()).
		Order("sold_at ASC, id ASC").
		Find(&sales).Error
	applyPayments(sales)
	return sales, err
}

func (r *saleRepo) Search(query string) ([]model.Sale, error) {
	where, args, ok, err := likeAny(query, "customers.name", "sales.description")
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.FindAll()
	}

	var sales []model.Sale
	err = withDetails(r.db).
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Where(where, args...).
		Order("sales.sold_at DESC, sales.id DESC").
		Find(&sales).Error
	applyPayments(sales)
	return sales, err
}

func (r *saleRepo) CreatePayment(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *saleRepo) UpdatePayment(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *saleRepo) FindPaymentByID(id uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.First(&payment, id).Error
	return &payment, err
}

func (r *saleRepo) TotalPayments(saleID uint) (int64, error) {
	var total int64
	err := r.db.Model(&model.Payment{}).
		Where("sale_id = ?", saleID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) FindAllPayments() ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Order("paid_at DESC, id DESC").Find(&payments).Error
	return payments, err
}

// deleteSalesTx removes sales with their lines and payments and releases
// the products they had marked as sold. Must run inside a transaction.
func deleteSalesTx(tx *gorm.DB, saleIDs []uint) error {
	if err := tx.Model(&model.Product{}).Where("sold_sale_id IN ?", saleIDs).Update("sold_sale_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("sale_id IN ?", saleIDs).Delete(&model.Payment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("sale_id IN ?", saleIDs).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", saleIDs).Delete(&model.Sale{}).Error
}
