package handler

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/service"
	"go-boutique-pos/pkg/database"
	"go-boutique-pos/pkg/jwt"
	"go-boutique-pos/pkg/log"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var testLoc = time.FixedZone("COT", -5*3600)

// newTestApp wires every handler over a fresh in-memory database, without the PIN gate
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log.SetupTestLogger()
	jwt.SetSecretKey("handler-test")

	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	saleRepo := repository.NewSaleRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)

	settings := service.NewSettingsService(repository.NewPreferenceRepo(db), nil, time.Hour, testLoc)
	customers := service.NewCustomerService(customerRepo, nil)
	catalog := service.NewCatalogService(repository.NewCategoryRepo(db), productRepo, saleRepo, nil)
	sales := service.NewSalesService(saleRepo, productRepo, customerRepo, nil)
	expenses := service.NewExpenseService(expenseRepo, repository.NewExpenseCategoryRepo(db), nil)

	authHandler := NewAuthHandler(settings)
	settingsHandler := NewSettingsHandler(settings)
	customerHandler := NewCustomerHandler(customers)
	catalogHandler := NewCatalogHandler(catalog)
	salesHandler := NewSalesHandler(sales)
	expenseHandler := NewExpenseHandler(expenses)

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	api := app.Group("/api/v1")

	api.Post("/auth/unlock", authHandler.Unlock)
	api.Post("/auth/recover", authHandler.Recover)
	api.Get("/auth/status", authHandler.Status)

	api.Get("/customers", customerHandler.GetCustomers)
	api.Post("/customers", customerHandler.CreateCustomer)
	api.Get("/customers/:id", customerHandler.GetCustomer)
	api.Put("/customers/:id", customerHandler.UpdateCustomer)
	api.Delete("/customers/:id", customerHandler.DeleteCustomer)

	api.Post("/categories", catalogHandler.CreateCategory)
	api.Delete("/categories/:id", catalogHandler.DeleteCategory)
	api.Get("/products/totals", catalogHandler.GetInventoryTotals)
	api.Post("/products/mark-sold", catalogHandler.MarkSold)
	api.Post("/products/mark-available", catalogHandler.MarkAvailable)
	api.Get("/products", catalogHandler.GetProducts)
	api.Post("/products", catalogHandler.CreateProduct)
	api.Get("/products/:id", catalogHandler.GetProduct)

	api.Post("/sales", salesHandler.CreateSale)
	api.Get("/sales/:id", salesHandler.GetSale)
	api.Delete("/sales/:id", salesHandler.DeleteSale)
	api.Post("/sales/:id/payments", salesHandler.CreatePayment)

	api.Get("/expenses/total", expenseHandler.GetTotal)
	api.Post("/expenses", expenseHandler.CreateExpense)
	api.Post("/expense-categories", expenseHandler.CreateCategory)

	api.Get("/settings", settingsHandler.GetSettings)
	api.Put("/settings/store", settingsHandler.UpdateStore)
	api.Put("/settings/pin", settingsHandler.SetPIN)
	api.Delete("/settings/pin", settingsHandler.DisablePIN)
	api.Put("/settings/biometric", settingsHandler.SetBiometric)
	api.Put("/settings/security-question", settingsHandler.SetSecurityQuestion)

	return app
}

// do sends a JSON request and decodes the JSON response into out when given
func do(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
}

type created[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
