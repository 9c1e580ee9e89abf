package handler

import (
	"go-boutique-pos/internal/service"
	"go-boutique-pos/pkg/money"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	service service.ExpenseService
}

func NewExpenseHandler(s service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

func (h *ExpenseHandler) GetExpenses(c *fiber.Ctx) error {
	expenses, err := h.service.List(c.Query("q"))
	if err != nil {
		return respondError(c, err, "Failed to fetch expenses")
	}
	return c.JSON(expenses)
}

func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	var req service.ExpenseInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	expense, err := h.service.Create(req)
	if err != nil {
		return respondError(c, err, "Failed to create expense")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Expense created", "data": expense})
}

func (h *ExpenseHandler) UpdateExpense(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.ExpenseInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	expense, err := h.service.Update(id, req)
	if err != nil {
		return respondError(c, err, "Failed to update expense")
	}
	return c.JSON(fiber.Map{"message": "Expense updated", "data": expense})
}

func (h *ExpenseHandler) DeleteExpense(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.Delete(id); err != nil {
		return respondError(c, err, "Failed to delete expense")
	}
	return c.JSON(fiber.Map{"message": "Expense deleted"})
}

// GetTotal returns the sum of every recorded expense
func (h *ExpenseHandler) GetTotal(c *fiber.Ctx) error {
	total, err := h.service.Total()
	if err != nil {
		return respondError(c, err, "Failed to fetch expense total")
	}
	return c.JSON(fiber.Map{
		"total_cents": total,
		"formatted":   money.FormatPesos(total),
	})
}

// ============ EXPENSE CATEGORIES ============

func (h *ExpenseHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Query("q"))
	if err != nil {
		return respondError(c, err, "Failed to fetch expense categories")
	}
	return c.JSON(categories)
}

func (h *ExpenseHandler) CreateCategory(c *fiber.Ctx) error {
	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	category, err := h.service.CreateCategory(req.Name)
	if err != nil {
		return respondError(c, err, "Failed to create expense category")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Expense category created", "data": category})
}

func (h *ExpenseHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	category, err := h.service.UpdateCategory(id, req.Name)
	if err != nil {
		return respondError(c, err, "Failed to update expense category")
	}
	return c.JSON(fiber.Map{"message": "Expense category updated", "data": category})
}

// DeleteCategory leaves the category's expenses uncategorized
func (h *ExpenseHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.DeleteCategory(id); err != nil {
		return respondError(c, err, "Failed to delete expense category")
	}
	return c.JSON(fiber.Map{"message": "Expense category deleted"})
}
