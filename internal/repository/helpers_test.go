package repository

import (
	"testing"
	"time"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/pkg/database"
	"go-boutique-pos/pkg/log"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log.SetupTestLogger()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func seedCustomer(t *testing.T, db *gorm.DB, name string) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: name}
	require.NoError(t, NewCustomerRepo(db).Create(c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, name string, purchase, sale int64) *model.Product {
	t.Helper()
	var category model.Category
	if err := db.First(&category).Error; err != nil {
		category = model.Category{Name: "Blusas"}
		require.NoError(t, db.Create(&category).Error)
	}
	p := &model.Product{Name: name, CategoryID: category.ID, PurchaseCents: purchase, SaleCents: sale}
	require.NoError(t, NewProductRepo(db).Create(p))
	return p
}

func seedSale(t *testing.T, db *gorm.DB, customer *model.Customer, soldAt time.Time, products ...*model.Product) *model.Sale {
	t.Helper()
	sale := &model.Sale{CustomerID: customer.ID, SoldAt: soldAt}
	var ids []uint
	for _, p := range products {
		sale.Items = append(sale.Items, model.SaleItem{ProductID: p.ID, Quantity: 1, UnitPriceCents: p.SaleCents})
		ids = append(ids, p.ID)
	}
	sale.TotalCents = sale.ItemsTotal()
	require.NoError(t, NewSaleRepo(db).CreateWithItems(sale, ids))
	return sale
}
