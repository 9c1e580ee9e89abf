package model

import (
	"time"

	"gorm.io/gorm"
)

type Sale struct {
	BaseModel
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer  `gorm:"constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	SoldAt      time.Time  `gorm:"not null;index" json:"sold_at"`
	TotalCents  int64      `gorm:"not null;default:0" json:"total_cents"`
	Description *string    `gorm:"type:text" json:"description"`
	Items       []SaleItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments    []Payment  `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`

	// Derived from Payments
	TotalPaidCents int64 `gorm:"-" json:"total_paid_cents"`
	AmountDueCents int64 `gorm:"-" json:"amount_due_cents"`
}

type SaleItem struct {
	BaseModel
	SaleID         uint     `gorm:"not null;index" json:"sale_id"`
	ProductID      uint     `gorm:"not null;index" json:"product_id"`
	Product        *Product `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity       int      `gorm:"not null" json:"quantity"`
	UnitPriceCents int64    `gorm:"not null" json:"unit_price_cents"`
}

type Payment struct {
	BaseModel
	SaleID      uint      `gorm:"not null;index" json:"sale_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	PaidAt      time.Time `gorm:"not null;index" json:"paid_at"`
	Description *string   `gorm:"type:text" json:"description"`
}

// Timestamps are stored in UTC so text-encoded columns compare in order
func (s *Sale) BeforeSave(tx *gorm.DB) error {
	s.SoldAt = s.SoldAt.UTC()
	return nil
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	p.PaidAt = p.PaidAt.UTC()
	return nil
}

func (i SaleItem) LineTotal() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// ItemsTotal sums the line totals of the loaded items
func (s *Sale) ItemsTotal() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.LineTotal()
	}
	return total
}

// ApplyPayments fills TotalPaidCents and AmountDueCents from the loaded payments
func (s *Sale) ApplyPayments() {
	var paid int64
	for _, p := range s.Payments {
		paid += p.AmountCents
	}
	s.TotalPaidCents = paid
	s.AmountDueCents = AmountDue(s.TotalCents, paid)
}

// AmountDue is total minus paid, floored at zero
func AmountDue(total, paid int64) int64 {
	if due := total - paid; due > 0 {
		return due
	}
	return 0
}
