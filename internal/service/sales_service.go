package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/ws"
	"go-boutique-pos/pkg/money"
)

type SaleItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type SaleInput struct {
	CustomerID       uint            `json:"customer_id"`
	Items            []SaleItemInput `json:"items"`
	SoldAt           *time.Time      `json:"sold_at"`
	Description      *string         `json:"description"`
	MarkProductsSold bool            `json:"mark_products_sold"`
}

type SaleDetailsInput struct {
	SoldAt      *time.Time `json:"sold_at"`
	Description *string    `json:"description"`
}

// PaymentInput takes the amount either as cents or as peso text
type PaymentInput struct {
	AmountCents *int64     `json:"amount_cents"`
	AmountPesos string     `json:"amount_pesos"`
	PaidAt      *time.Time `json:"paid_at"`
	Description *string    `json:"description"`
}

type SalesService interface {
	CreateSale(in SaleInput) (*model.Sale, error)
	UpdateSaleDetails(id uint, in SaleDetailsInput) (*model.Sale, error)
	DeleteSale(id uint) error
	GetSale(id uint) (*model.Sale, error)
	ListSales(query string) ([]model.Sale, error)
	RegisterPayment(saleID uint, in PaymentInput) (*model.Payment, error)
	UpdatePayment(id uint, in PaymentInput) (*model.Payment, error)
}

type salesService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	wsHub        *ws.Hub
	now          func() time.Time
}

func NewSalesService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, cRepo repository.CustomerRepository, hub *ws.Hub) SalesService {
	return &salesService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
		wsHub:        hub,
		now:          time.Now,
	}
}

func (s *salesService) CreateSale(in SaleInput) (*model.Sale, error) {
	// 1. Validate lines and merge repeated products
	if len(in.Items) == 0 {
		return nil, ErrEmptySale
	}
	quantities := make(map[uint]int, len(in.Items))
	order := make([]uint, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		merged, seen := quantities[item.ProductID]
		if !seen {
			order = append(order, item.ProductID)
		}
		if merged > math.MaxInt-item.Quantity {
			return nil, ErrInvalidQuantity
		}
		quantities[item.ProductID] = merged + item.Quantity
	}

	// 2. Customer must exist
	if _, err := s.customerRepo.FindByID(in.CustomerID); err != nil {
		if err = notFound(err); errors.Is(err, ErrNotFound) {
			return nil, ErrCustomerRequired
		}
		return nil, err
	}

	// 3. Snapshot unit prices from the products
	products, err := s.productRepo.FindByIDs(order)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	sale := &model.Sale{
		CustomerID:  in.CustomerID,
		SoldAt:      s.now(),
		Description: model.OptionalText(in.Description),
	}
	if in.SoldAt != nil && !in.SoldAt.IsZero() {
		sale.SoldAt = *in.SoldAt
	}
	for _, id := range order {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrProductMissing, id)
		}
		line, ok := money.MulCents(product.SaleCents, quantities[id])
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrAmountTooLarge, id)
		}
		if sale.TotalCents, ok = money.AddCents(sale.TotalCents, line); !ok {
			return nil, ErrAmountTooLarge
		}
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:      id,
			Quantity:       quantities[id],
			UnitPriceCents: product.SaleCents,
		})
	}

	// 4. Persist atomically
	var markSold []uint
	if in.MarkProductsSold {
		markSold = order
	}
	if err := s.saleRepo.CreateWithItems(sale, markSold); err != nil {
		return nil, err
	}

	// 5. Broadcast
	s.wsHub.Notify("sale", "created", sale.ID, fmt.Sprintf("sale #%d recorded for %s", sale.ID, money.FormatPesos(sale.TotalCents)))

	return s.saleRepo.FindByID(sale.ID)
}

func (s *salesService) UpdateSaleDetails(id uint, in SaleDetailsInput) (*model.Sale, error) {
	existing, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}

	soldAt := existing.SoldAt
	if in.SoldAt != nil && !in.SoldAt.IsZero() {
		soldAt = *in.SoldAt
	}
	// omitted description keeps the stored one, a blank one clears it
	description := existing.Description
	if in.Description != nil {
		description = model.OptionalText(in.Description)
	}
	if err := s.saleRepo.UpdateDetails(id, soldAt, description); err != nil {
		return nil, notFound(err)
	}

	s.wsHub.Notify("sale", "updated", id, "")
	return s.saleRepo.FindByID(id)
}

// DeleteSale removes the sale with its lines and payments and makes the
// products it had marked as sold available again
func (s *salesService) DeleteSale(id uint) error {
	if err := s.saleRepo.Delete(id); err != nil {
		return notFound(err)
	}
	s.wsHub.Notify("sale", "deleted", id, "")
	return nil
}

func (s *salesService) GetSale(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return sale, nil
}

func (s *salesService) ListSales(query string) ([]model.Sale, error) {
	return s.saleRepo.Search(query)
}

func resolveAmount(in PaymentInput) (int64, error) {
	var amount int64
	if in.AmountCents != nil {
		amount = *in.AmountCents
	} else {
		parsed, ok := money.ParsePesos(in.AmountPesos)
		if !ok {
			return 0, ErrInvalidAmount
		}
		amount = parsed
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > money.MaxCents {
		return 0, ErrAmountTooLarge
	}
	return amount, nil
}

// RegisterPayment adds a partial payment. Paying more than the balance is
// accepted, the amount due is simply floored at zero.
func (s *salesService) RegisterPayment(saleID uint, in PaymentInput) (*model.Payment, error) {
	amount, err := resolveAmount(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.saleRepo.FindByID(saleID); err != nil {
		return nil, notFound(err)
	}

	payment := &model.Payment{
		SaleID:      saleID,
		AmountCents: amount,
		PaidAt:      s.now(),
		Description: model.OptionalText(in.Description),
	}
	if in.PaidAt != nil && !in.PaidAt.IsZero() {
		payment.PaidAt = *in.PaidAt
	}
	if err := s.saleRepo.CreatePayment(payment); err != nil {
		return nil, err
	}

	s.wsHub.Notify("payment", "created", payment.ID, fmt.Sprintf("payment of %s registered on sale #%d", money.FormatPesos(amount), saleID))
	return payment, nil
}

func (s *salesService) UpdatePayment(id uint, in PaymentInput) (*model.Payment, error) {
	amount, err := resolveAmount(in)
	if err != nil {
		return nil, err
	}
	payment, err := s.saleRepo.FindPaymentByID(id)
	if err != nil {
		return nil, notFound(err)
	}

	payment.AmountCents = amount
	payment.Description = model.OptionalText(in.Description)
	if in.PaidAt != nil && !in.PaidAt.IsZero() {
		payment.PaidAt = *in.PaidAt
	}
	if err := s.saleRepo.UpdatePayment(payment); err != nil {
		return nil, err
	}

	s.wsHub.Notify("payment", "updated", id, "")
	return payment, nil
}
