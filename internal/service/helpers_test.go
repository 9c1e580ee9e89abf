package service

import (
	"testing"
	"time"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/pkg/database"
	"go-boutique-pos/pkg/log"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testLoc = time.FixedZone("COT", -5*3600)

type testEnv struct {
	db *gorm.DB

	customers  repository.CustomerRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	sales      repository.SaleRepository
	expenses   repository.ExpenseRepository
	expenseCat repository.ExpenseCategoryRepository
	prefs      repository.PreferenceRepository

	catalog   CatalogService
	customer  CustomerService
	salesSvc  *salesService
	expense   *expenseService
	settings  *settingsService
	dashboard *dashboardService
}

func newTestEnv(t *testing.T) *testEnv {
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

	env := &testEnv{
		db:         db,
		customers:  repository.NewCustomerRepo(db),
		categories: repository.NewCategoryRepo(db),
		products:   repository.NewProductRepo(db),
		sales:      repository.NewSaleRepo(db),
		expenses:   repository.NewExpenseRepo(db),
		expenseCat: repository.NewExpenseCategoryRepo(db),
		prefs:      repository.NewPreferenceRepo(db),
	}

	env.catalog = NewCatalogService(env.categories, env.products, env.sales, nil)
	env.customer = NewCustomerService(env.customers, nil)
	env.salesSvc = NewSalesService(env.sales, env.products, env.customers, nil).(*salesService)
	env.expense = NewExpenseService(env.expenses, env.expenseCat, nil).(*expenseService)
	env.settings = NewSettingsService(env.prefs, nil, time.Hour, testLoc).(*settingsService)
	env.settings.hashCost = bcrypt.MinCost
	env.dashboard = NewDashboardService(env.sales, env.expenses, env.settings, testLoc).(*dashboardService)
	return env
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c, err := e.catalog.CreateCategory(name)
	require.NoError(t, err)
	return c
}

func (e *testEnv) product(t *testing.T, categoryID uint, name string, purchase, sale int64) *model.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(ProductInput{
		Name:          name,
		CategoryID:    categoryID,
		PurchaseCents: ptr(purchase),
		SaleCents:     ptr(sale),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) newCustomer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c, err := e.customer.Create(CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}
