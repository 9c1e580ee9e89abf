package model

import "gorm.io/gorm"

// MaxProductImages caps the number of image URIs kept per product
const MaxProductImages = 3

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
}

type Product struct {
	BaseModel
	Name          string     `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
	Description   *string    `gorm:"type:text" json:"description"`
	Notes         *string    `gorm:"type:text" json:"notes"`
	CategoryID    uint       `gorm:"not null;index" json:"category_id" validate:"required"`
	Category      *Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty" validate:"-"`
	PurchaseCents int64      `gorm:"not null;default:0" json:"purchase_cents" validate:"gte=0"`
	SaleCents     int64      `gorm:"not null;default:0" json:"sale_cents" validate:"gte=0"`
	SoldSaleID    *uint      `gorm:"index" json:"sold_sale_id"`
	ImageURIs     StringList `gorm:"type:text" json:"image_uris"`

	// Derived
	Profit int64 `gorm:"-" json:"profit"`
}

func (p *Product) IsSold() bool {
	return p.SoldSaleID != nil
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.Profit = p.SaleCents - p.PurchaseCents
	return nil
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.ImageURIs = CleanImageURIs(p.ImageURIs)
	p.Profit = p.SaleCents - p.PurchaseCents
	return nil
}

// CleanImageURIs drops blank entries and keeps at most MaxProductImages
func CleanImageURIs(uris []string) StringList {
	out := StringList{}
	for _, u := range uris {
		if t := OptionalText(&u); t != nil {
			out = append(out, *t)
		}
		if len(out) == MaxProductImages {
			break
		}
	}
	return out
}
