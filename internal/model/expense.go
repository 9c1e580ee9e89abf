package model

import (
	"time"

	"gorm.io/gorm"
)

type ExpenseCategory struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
}

type Expense struct {
	BaseModel
	Concept       string           `gorm:"type:varchar(255);not null" json:"concept" validate:"notblank"`
	AmountCents   int64            `gorm:"not null" json:"amount_cents" validate:"gt=0"`
	SpentAt       time.Time        `gorm:"not null;index" json:"spent_at"`
	CategoryID    *uint            `gorm:"index" json:"category_id"`
	Category      *ExpenseCategory `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty" validate:"-"`
	PaymentMethod string           `gorm:"type:varchar(50);not null" json:"payment_method" validate:"notblank"`
	Description   *string          `gorm:"type:text" json:"description"`
	PhotoURI      *string          `gorm:"type:text" json:"photo_uri"`
}

func (e *Expense) BeforeSave(tx *gorm.DB) error {
	e.SpentAt = e.SpentAt.UTC()
	return nil
}
