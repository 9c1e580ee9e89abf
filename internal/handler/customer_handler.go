package handler

import (
	"go-boutique-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// GetCustomers lists customers, optionally filtered by ?q=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.List(c.Query("q"))
	if err != nil {
		return respondError(c, err, "Failed to fetch customers")
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	customer, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err, "Failed to fetch customer")
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.service.Create(req)
	if err != nil {
		return respondError(c, err, "Failed to create customer")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.service.Update(id, req)
	if err != nil {
		return respondError(c, err, "Failed to update customer")
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

// DeleteCustomer also removes every sale of the customer
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.Delete(id); err != nil {
		return respondError(c, err, "Failed to delete customer")
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
