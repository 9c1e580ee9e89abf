package handler

import (
	"go-boutique-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

// GetSales lists sales newest first with their balance, optionally filtered by ?q=
func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.Query("q"))
	if err != nil {
		return respondError(c, err, "Failed to fetch sales")
	}
	return c.JSON(sales)
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		return respondError(c, err, "Failed to fetch sale")
	}
	return c.JSON(sale)
}

func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	sale, err := h.service.CreateSale(req)
	if err != nil {
		return respondError(c, err, "Failed to create sale")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale created", "data": sale})
}

// UpdateSale changes only the date and description, lines are immutable
func (h *SalesHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.SaleDetailsInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	sale, err := h.service.UpdateSaleDetails(id, req)
	if err != nil {
		return respondError(c, err, "Failed to update sale")
	}
	return c.JSON(fiber.Map{"message": "Sale updated", "data": sale})
}

func (h *SalesHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.DeleteSale(id); err != nil {
		return respondError(c, err, "Failed to delete sale")
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

// ============ PAYMENTS ============

func (h *SalesHandler) CreatePayment(c *fiber.Ctx) error {
	saleID, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.PaymentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	payment, err := h.service.RegisterPayment(saleID, req)
	if err != nil {
		return respondError(c, err, "Failed to register payment")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Payment registered", "data": payment})
}

func (h *SalesHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.PaymentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	payment, err := h.service.UpdatePayment(id, req)
	if err != nil {
		return respondError(c, err, "Failed to update payment")
	}
	return c.JSON(fiber.Map{"message": "Payment updated", "data": payment})
}
