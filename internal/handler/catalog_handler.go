package handler

import (
	"go-boutique-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type NameRequest struct {
	Name string `json:"name"`
}

// MarkProductsRequest represents the body of the mark-sold and mark-available endpoints
type MarkProductsRequest struct {
	ProductIDs []uint `json:"product_ids"`
	SaleID     uint   `json:"sale_id"`
}

// ============ CATEGORIES ============

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Query("q"))
	if err != nil {
		return respondError(c, err, "Failed to fetch categories")
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req NameRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	category, err := h.service.CreateCategory(req.Name)
	if err != nil {
		return respondError(c, err, "Failed to create category")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
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
		return respondError(c, err, "Failed to update category")
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.DeleteCategory(id); err != nil {
		return respondError(c, err, "Failed to delete category")
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// ============ PRODUCTS ============

// GetProducts supports ?q= and ?status=available|sold
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	status := service.ProductStatus(c.Query("status"))
	switch status {
	case service.ProductStatusAll, service.ProductStatusAvailable, service.ProductStatusSold:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "status must be 'available' or 'sold'"})
	}

	products, err := h.service.ListProducts(c.Query("q"), status)
	if err != nil {
		return respondError(c, err, "Failed to fetch products")
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err, "Failed to fetch product")
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.service.CreateProduct(req)
	if err != nil {
		return respondError(c, err, "Failed to create product")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.service.UpdateProduct(id, req)
	if err != nil {
		return respondError(c, err, "Failed to update product")
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, err, "Failed to delete product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) MarkSold(c *fiber.Ctx) error {
	var req MarkProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if len(req.ProductIDs) == 0 || req.SaleID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "product_ids and sale_id are required"})
	}
	if err := h.service.MarkSold(req.ProductIDs, req.SaleID); err != nil {
		return respondError(c, err, "Failed to mark products sold")
	}
	return c.JSON(fiber.Map{"message": "Products marked as sold"})
}

func (h *CatalogHandler) MarkAvailable(c *fiber.Ctx) error {
	var req MarkProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if len(req.ProductIDs) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "product_ids is required"})
	}
	if err := h.service.MarkAvailable(req.ProductIDs); err != nil {
		return respondError(c, err, "Failed to mark products available")
	}
	return c.JSON(fiber.Map{"message": "Products marked as available"})
}

// GetInventoryTotals returns the summed purchase cost and expected profit of all products
func (h *CatalogHandler) GetInventoryTotals(c *fiber.Ctx) error {
	totals, err := h.service.InventoryTotals()
	if err != nil {
		return respondError(c, err, "Failed to fetch inventory totals")
	}
	return c.JSON(totals)
}
