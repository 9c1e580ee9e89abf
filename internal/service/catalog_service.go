package service

import (
	"errors"
	"fmt"
	"strings"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/ws"
	"go-boutique-pos/pkg/money"
)

// ProductStatus filters product listings
type ProductStatus string

const (
	ProductStatusAll       ProductStatus = ""
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusSold      ProductStatus = "sold"
)

// ProductInput accepts prices either as cents or as free peso text
type ProductInput struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Notes         *string  `json:"notes"`
	CategoryID    uint     `json:"category_id"`
	PurchaseCents *int64   `json:"purchase_cents"`
	SaleCents     *int64   `json:"sale_cents"`
	PurchasePesos string   `json:"purchase_pesos"`
	SalePesos     string   `json:"sale_pesos"`
	ImageURIs     []string `json:"image_uris"`
}

type CatalogService interface {
	CreateCategory(name string) (*model.Category, error)
	UpdateCategory(id uint, name string) (*model.Category, error)
	DeleteCategory(id uint) error
	ListCategories(query string) ([]model.Category, error)

	CreateProduct(in ProductInput) (*model.Product, error)
	UpdateProduct(id uint, in ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	GetProduct(id uint) (*model.Product, error)
	ListProducts(query string, status ProductStatus) ([]model.Product, error)
	MarkSold(productIDs []uint, saleID uint) error
	MarkAvailable(productIDs []uint) error
	InventoryTotals() (repository.InventoryTotals, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	wsHub        *ws.Hub
}

func NewCatalogService(cRepo repository.CategoryRepository, pRepo repository.ProductRepository, sRepo repository.SaleRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		categoryRepo: cRepo,
		productRepo:  pRepo,
		saleRepo:     sRepo,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateCategory(name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}

	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	s.wsHub.Notify("category", "created", category.ID, fmt.Sprintf("category '%s' created", name))
	return category, nil
}

func (s *catalogService) UpdateCategory(id uint, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}

	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	s.wsHub.Notify("category", "updated", id, "")
	return category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return notFound(err)
	}

	s.wsHub.Notify("category", "deleted", id, "")
	return nil
}

func (s *catalogService) ListCategories(query string) ([]model.Category, error) {
	return s.categoryRepo.Search(query)
}

func (s *catalogService) CreateProduct(in ProductInput) (*model.Product, error) {
	product := &model.Product{}
	if err := s.applyInput(product, in); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.wsHub.Notify("product", "created", product.ID, fmt.Sprintf("product '%s' created", product.Name))
	return s.productRepo.FindByID(product.ID)
}

// UpdateProduct replaces the editable fields. The sold flag is kept, it
// only changes through MarkSold / MarkAvailable.
func (s *catalogService) UpdateProduct(id uint, in ProductInput) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.applyInput(existing, in); err != nil {
		return nil, err
	}
	existing.Category = nil

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.wsHub.Notify("product", "updated", id, fmt.Sprintf("product '%s' updated", existing.Name))
	return s.productRepo.FindByID(id)
}

func (s *catalogService) applyInput(p *model.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrBlankName
	}

	purchase, err := resolveCents(in.PurchaseCents, in.PurchasePesos)
	if err != nil {
		return fmt.Errorf("purchase price: %w", err)
	}
	sale, err := resolveCents(in.SaleCents, in.SalePesos)
	if err != nil {
		return fmt.Errorf("sale price: %w", err)
	}

	if in.CategoryID == 0 {
		return ErrCategoryRequired
	}
	if _, err := s.categoryRepo.FindByID(in.CategoryID); err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			return ErrCategoryRequired
		}
		return err
	}

	p.Name = name
	p.Description = model.OptionalText(in.Description)
	p.Notes = model.OptionalText(in.Notes)
	p.CategoryID = in.CategoryID
	p.PurchaseCents = purchase
	p.SaleCents = sale
	p.ImageURIs = model.CleanImageURIs(in.ImageURIs)
	return validate(p)
}

// resolveCents prefers an explicit cents value and falls back to peso text
func resolveCents(cents *int64, pesos string) (int64, error) {
	if cents != nil {
		if *cents < 0 || *cents > money.MaxCents {
			return 0, ErrInvalidPrice
		}
		return *cents, nil
	}
	value, ok := money.ParsePesos(pesos)
	if !ok {
		return 0, ErrInvalidPrice
	}
	return value, nil
}

func (s *catalogService) DeleteProduct(id uint) error {
	referenced, err := s.productRepo.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrProductInUse
	}
	if err := s.productRepo.Delete(id); err != nil {
		return notFound(err)
	}

	s.wsHub.Notify("product", "deleted", id, "")
	return nil
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(query string, status ProductStatus) ([]model.Product, error) {
	if strings.TrimSpace(query) == "" {
		switch status {
		case ProductStatusAvailable:
			return s.productRepo.FindAvailable()
		case ProductStatusSold:
			return s.productRepo.FindSold()
		default:
			return s.productRepo.FindAll()
		}
	}

	products, err := s.productRepo.Search(query)
	if err != nil || status == ProductStatusAll {
		return products, err
	}
	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.IsSold() == (status == ProductStatusSold) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *catalogService) MarkSold(productIDs []uint, saleID uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	if _, err := s.saleRepo.FindByID(saleID); err != nil {
		return notFound(err)
	}
	if err := s.productRepo.MarkSold(productIDs, saleID); err != nil {
		return err
	}

	s.wsHub.Notify("product", "marked_sold", saleID, fmt.Sprintf("%d product(s) marked as sold", len(productIDs)))
	return nil
}

func (s *catalogService) MarkAvailable(productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	if err := s.productRepo.MarkAvailable(productIDs); err != nil {
		return err
	}

	s.wsHub.Notify("product", "marked_available", 0, fmt.Sprintf("%d product(s) marked as available", len(productIDs)))
	return nil
}

func (s *catalogService) InventoryTotals() (repository.InventoryTotals, error) {
	return s.productRepo.Totals()
}
