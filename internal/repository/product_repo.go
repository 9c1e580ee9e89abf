package repository

import (
	"go-boutique-pos/internal/model"

	"gorm.io/gorm"
)

// InventoryTotals aggregates purchase cost and expected profit across products
type InventoryTotals struct {
	PurchaseCents int64 `json:"purchase_cents"`
	ProfitCents   int64 `json:"profit_cents"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	FindAll() ([]model.Product, error)
	FindAvailable() ([]model.Product, error)
	FindSold() ([]model.Product, error)
	Search(query string) ([]model.Product, error)
	MarkSold(ids []uint, saleID uint) error
	MarkAvailable(ids []uint) error
	Totals() (InventoryTotals, error)
	IsReferenced(id uint) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Omit("Category").Save(product).Error
}

func (r *productRepo) Delete(id uint) error {
	res := r.db.Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, id).Error
	return &product, err
}

func (r *productRepo) FindByIDs(ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindAvailable() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Where("sold_sale_id IS NULL").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindSold() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Where("sold_sale_id IS NOT NULL").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Search(query string) ([]model.Product, error) {
	where, args, ok, err := likeAny(query, "name", "description", "notes")
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.FindAll()
	}

	var products []model.Product
	err = r.db.Preload("Category").Where(where, args...).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) MarkSold(ids []uint, saleID uint) error {
	if len(ids) == 0 {
		return nil
	}
	return markSoldTx(r.db, ids, saleID)
}

func (r *productRepo) MarkAvailable(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Product{}).Where("id IN ?", ids).Update("sold_sale_id", nil).Error
}

func (r *productRepo) Totals() (InventoryTotals, error) {
	var totals InventoryTotals
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(purchase_cents), 0) AS purchase_cents, COALESCE(SUM(sale_cents - purchase_cents), 0) AS profit_cents").
		Scan(&totals).Error
	return totals, err
}

// IsReferenced reports whether any sale line points at the product
func (r *productRepo) IsReferenced(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.SaleItem{}).Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func markSoldTx(tx *gorm.DB, ids []uint, saleID uint) error {
	return tx.Model(&model.Product{}).Where("id IN ?", ids).Update("sold_sale_id", saleID).Error
}
