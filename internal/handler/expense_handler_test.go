package handler

import (
	"testing"

	"go-boutique-pos/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseTotal struct {
	TotalCents int64  `json:"total_cents"`
	Formatted  string `json:"formatted"`
}

func TestExpenseHandler_CreateAndTotal(t *testing.T) {
	app := newTestApp(t)

	var category created[model.ExpenseCategory]
	require.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/api/v1/expense-categories", fiber.Map{"name": "Arriendo"}, &category))

	var expense created[model.Expense]
	require.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/api/v1/expenses", fiber.Map{
		"concept":        "Arriendo local",
		"amount_pesos":   "1.200.000",
		"category_id":    category.Data.ID,
		"payment_method": "Transferencia",
	}, &expense))
	assert.Equal(t, int64(120000000), expense.Data.AmountCents)
	require.NotNil(t, expense.Data.Category)
	assert.Equal(t, "Arriendo", expense.Data.Category.Name)

	require.Equal(t, fiber.StatusCreated, do(t, app, fiber.MethodPost, "/api/v1/expenses", fiber.Map{
		"concept":        "Bolsas",
		"amount_cents":   3500000,
		"payment_method": "Efectivo",
	}, nil))

	var total expenseTotal
	require.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/v1/expenses/total", nil, &total))
	assert.Equal(t, int64(123500000), total.TotalCents)
	assert.Equal(t, "$ 1.235.000", total.Formatted)
}

func TestExpenseHandler_Validation(t *testing.T) {
	app := newTestApp(t)

	var body errorBody
	require.Equal(t, fiber.StatusBadRequest, do(t, app, fiber.MethodPost, "/api/v1/expenses", fiber.Map{
		"concept":        "Taxi",
		"amount_cents":   0,
		"payment_method": "Efectivo",
	}, &body))
	assert.Equal(t, "amount must be greater than zero", body.Error)

	require.Equal(t, fiber.StatusBadRequest, do(t, app, fiber.MethodPost, "/api/v1/expenses", fiber.Map{
		"concept":        "Taxi",
		"amount_cents":   1000,
		"category_id":    77,
		"payment_method": "Efectivo",
	}, &body))
	assert.Equal(t, "category does not exist", body.Error)

	require.Equal(t, fiber.StatusBadRequest, do(t, app, fiber.MethodPost, "/api/v1/expenses", fiber.Map{
		"concept":      "Taxi",
		"amount_cents": 1000,
	}, nil))
}
