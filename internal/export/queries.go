package export

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type customerRow struct {
	ID          uint           `db:"id"`
	Name        string         `db:"name"`
	Address     sql.NullString `db:"address"`
	Phone       sql.NullString `db:"phone"`
	Cedula      sql.NullString `db:"cedula"`
	Description sql.NullString `db:"description"`
}

type productRow struct {
	ID            uint           `db:"id"`
	Name          string         `db:"name"`
	Category      sql.NullString `db:"category"`
	PurchaseCents int64          `db:"purchase_cents"`
	SaleCents     int64          `db:"sale_cents"`
	SoldSaleID    sql.NullInt64  `db:"sold_sale_id"`
	Description   sql.NullString `db:"description"`
	Notes         sql.NullString `db:"notes"`
}

type paymentRow struct {
	ID                 uint           `db:"id"`
	PaidAt             time.Time      `db:"paid_at"`
	AmountCents        int64          `db:"amount_cents"`
	SaleID             uint           `db:"sale_id"`
	Customer           sql.NullString `db:"customer"`
	SoldAt             sql.NullTime   `db:"sold_at"`
	SaleTotalCents     sql.NullInt64  `db:"sale_total_cents"`
	SaleDescription    sql.NullString `db:"sale_description"`
	PaymentDescription sql.NullString `db:"payment_description"`
}

type expenseRow struct {
	ID            uint           `db:"id"`
	SpentAt       time.Time      `db:"spent_at"`
	AmountCents   int64          `db:"amount_cents"`
	Category      sql.NullString `db:"category"`
	PaymentMethod string         `db:"payment_method"`
	Concept       string         `db:"concept"`
	Description   sql.NullString `db:"description"`
}

// snapshot is every table the backup needs, read in one pass
type snapshot struct {
	customers []customerRow
	products  []productRow
	payments  []paymentRow
	expenses  []expenseRow
}

func selectAll(ctx context.Context, db *sqlx.DB, dest interface{}, builder squirrel.SelectBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Wrap(err, "build export query")
	}
	return db.SelectContext(ctx, dest, query, args...)
}

func readSnapshot(ctx context.Context, db *sqlx.DB, psql squirrel.StatementBuilderType) (*snapshot, error) {
	snap := &snapshot{}

	customers := psql.
		Select("id", "name", "address", "phone", "cedula", "description").
		From("customers").
		OrderBy("id ASC")
	if err := selectAll(ctx, db, &snap.customers, customers); err != nil {
		return nil, errors.Wrap(err, "read customers")
	}

	products := psql.
		Select("p.id", "p.name", "c.name AS category", "p.purchase_cents", "p.sale_cents",
			"p.sold_sale_id", "p.description", "p.notes").
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		OrderBy("p.id ASC")
	if err := selectAll(ctx, db, &snap.products, products); err != nil {
		return nil, errors.Wrap(err, "read products")
	}

	payments := psql.
		Select("pay.id", "pay.paid_at", "pay.amount_cents", "pay.sale_id", "cu.name AS customer",
			"s.sold_at", "s.total_cents AS sale_total_cents", "s.description AS sale_description",
			"pay.description AS payment_description").
		From("payments pay").
		LeftJoin("sales s ON s.id = pay.sale_id").
		LeftJoin("customers cu ON cu.id = s.customer_id").
		OrderBy("pay.paid_at DESC", "pay.id DESC")
	if err := selectAll(ctx, db, &snap.payments, payments); err != nil {
		return nil, errors.Wrap(err, "read payments")
	}

	expenses := psql.
		Select("e.id", "e.spent_at", "e.amount_cents", "ec.name AS category", "e.payment_method",
			"e.concept", "e.description").
		From("expenses e").
		LeftJoin("expense_categories ec ON ec.id = e.category_id").
		OrderBy("e.spent_at DESC", "e.id DESC")
	if err := selectAll(ctx, db, &snap.expenses, expenses); err != nil {
		return nil, errors.Wrap(err, "read expenses")
	}

	return snap, nil
}
