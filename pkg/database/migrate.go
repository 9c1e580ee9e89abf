package database

import (
	"time"

	"go-boutique-pos/internal/model"
	"go-boutique-pos/pkg/log"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migration is one incremental schema step
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// Migrations lists every schema version in order
var Migrations = []Migration{
	{Version: 1, Name: "base tables", Up: migrateV1},
	{Version: 2, Name: "customer identity, payment notes, product sale link and images", Up: migrateV2},
	{Version: 3, Name: "expenses", Up: migrateV3},
}

// LatestVersion is the schema version a fresh database ends up at
func LatestVersion() int {
	return Migrations[len(Migrations)-1].Version
}

// Migrate applies every pending migration, each inside its own transaction
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.SchemaVersion{}); err != nil {
		return errors.Wrap(err, "create schema_versions")
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&model.SchemaVersion{Version: m.Version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return errors.Wrapf(err, "migration v%d (%s)", m.Version, m.Name)
		}
		log.L.WithFields(log.Fields{"version": m.Version, "name": m.Name}).Info("Migration applied")
	}
	return nil
}

// CurrentVersion returns the highest applied version, 0 for an empty database
func CurrentVersion(db *gorm.DB) (int, error) {
	var version int
	err := db.Model(&model.SchemaVersion{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	if err != nil {
		return 0, errors.Wrap(err, "read schema version")
	}
	return version, nil
}

// Table shapes as they were at version 1. Later columns are added by
// subsequent steps, so these must not follow the live models.
type v1Customer struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(255);not null"`
	Address   *string `gorm:"type:varchar(255)"`
	Phone     *string `gorm:"type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v1Customer) TableName() string { return "customers" }

type v1Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v1Category) TableName() string { return "categories" }

type v1Product struct {
	ID            uint        `gorm:"primaryKey"`
	Name          string      `gorm:"type:varchar(255);not null"`
	Description   *string     `gorm:"type:text"`
	Notes         *string     `gorm:"type:text"`
	CategoryID    uint        `gorm:"not null;index"`
	Category      *v1Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	PurchaseCents int64       `gorm:"not null;default:0"`
	SaleCents     int64       `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (v1Product) TableName() string { return "products" }

type v1Sale struct {
	ID          uint        `gorm:"primaryKey"`
	CustomerID  uint        `gorm:"not null;index"`
	Customer    *v1Customer `gorm:"constraint:OnDelete:CASCADE"`
	SoldAt      time.Time   `gorm:"not null;index"`
	TotalCents  int64       `gorm:"not null;default:0"`
	Description *string     `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (v1Sale) TableName() string { return "sales" }

type v1SaleItem struct {
	ID             uint       `gorm:"primaryKey"`
	SaleID         uint       `gorm:"not null;index"`
	Sale           *v1Sale    `gorm:"constraint:OnDelete:CASCADE"`
	ProductID      uint       `gorm:"not null;index"`
	Product        *v1Product `gorm:"constraint:OnDelete:RESTRICT"`
	Quantity       int        `gorm:"not null"`
	UnitPriceCents int64      `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (v1SaleItem) TableName() string { return "sale_items" }

type v1Payment struct {
	ID          uint      `gorm:"primaryKey"`
	SaleID      uint      `gorm:"not null;index"`
	Sale        *v1Sale   `gorm:"constraint:OnDelete:CASCADE"`
	AmountCents int64     `gorm:"not null"`
	PaidAt      time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (v1Payment) TableName() string { return "payments" }

type v3Expense struct {
	ID            uint                   `gorm:"primaryKey"`
	Concept       string                 `gorm:"type:varchar(255);not null"`
	AmountCents   int64                  `gorm:"not null"`
	SpentAt       time.Time              `gorm:"not null;index"`
	CategoryID    *uint                  `gorm:"index"`
	Category      *model.ExpenseCategory `gorm:"constraint:OnDelete:SET NULL"`
	PaymentMethod string                 `gorm:"type:varchar(50);not null"`
	Description   *string                `gorm:"type:text"`
	PhotoURI      *string                `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (v3Expense) TableName() string { return "expenses" }

func migrateV1(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, table := range []interface{}{&v1Customer{}, &v1Category{}, &v1Product{}, &v1Sale{}, &v1SaleItem{}, &v1Payment{}, &model.Preference{}} {
		if m.HasTable(table) {
			continue
		}
		if err := m.CreateTable(table); err != nil {
			return err
		}
	}
	return nil
}

func migrateV2(tx *gorm.DB) error {
	steps := []struct {
		model interface{}
		field string
	}{
		{&model.Customer{}, "Cedula"},
		{&model.Customer{}, "Description"},
		{&model.Payment{}, "Description"},
		{&model.Product{}, "SoldSaleID"},
		{&model.Product{}, "ImageURIs"},
	}

	m := tx.Migrator()
	for _, s := range steps {
		if m.HasColumn(s.model, s.field) {
			continue
		}
		if err := m.AddColumn(s.model, s.field); err != nil {
			return errors.Wrapf(err, "add column %s", s.field)
		}
	}
	if !m.HasIndex(&model.Product{}, "SoldSaleID") {
		if err := m.CreateIndex(&model.Product{}, "SoldSaleID"); err != nil {
			return err
		}
	}
	return nil
}

func migrateV3(tx *gorm.DB) error {
	m := tx.Migrator()
	if !m.HasTable(&model.ExpenseCategory{}) {
		if err := m.CreateTable(&model.ExpenseCategory{}); err != nil {
			return err
		}
	}
	if !m.HasTable(&v3Expense{}) {
		if err := m.CreateTable(&v3Expense{}); err != nil {
			return err
		}
	}
	return nil
}
