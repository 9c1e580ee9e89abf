// Package export writes the CSV-in-ZIP store backup.
package export

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"go-boutique-pos/pkg/money"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	dateTimeLayout  = "2006-01-02 15:04"
	dateLayout      = "2006-01-02"
	timestampLayout = "20060102-150405"

	statusSold      = "Vendido"
	statusAvailable = "Disponible"
	noCategory      = "Sin categoría"
)

var (
	customerHeader = []string{"ID", "Nombre", "Dirección", "Teléfono", "Cédula", "Descripción"}
	productHeader  = []string{"ID", "Nombre", "Categoría", "Costo", "Precio venta", "Ganancia", "Estado", "Venta ID", "Descripción", "Notas"}
	paymentHeader  = []string{"ID", "Fecha abono", "Monto", "Venta ID", "Cliente", "Fecha venta", "Total venta", "Descripción venta", "Descripción abono"}
	expenseHeader  = []string{"ID", "Fecha", "Monto", "Categoría", "Método de pago", "Concepto", "Descripción"}
)

// Exporter reads flat table snapshots and packs them as CSV files in a ZIP
type Exporter struct {
	db   *sqlx.DB
	psql squirrel.StatementBuilderType
	loc  *time.Location
	now  func() time.Time
}

// NewExporter wraps the pool gorm already opened. driverName selects the
// bind style ("pgx" or "sqlite").
func NewExporter(sqlDB *sql.DB, driverName string, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	if driverName == "pgx" || driverName == "postgres" {
		psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return &Exporter{
		db:   sqlx.NewDb(sqlDB, driverName),
		psql: psql,
		loc:  loc,
		now:  time.Now,
	}
}

// FileName returns the archive name for a backup taken at t
func (e *Exporter) FileName(t time.Time) string {
	return "respaldo_" + t.In(e.loc).Format(timestampLayout) + ".zip"
}

// WriteBackup streams the archive to w and returns its file name
func (e *Exporter) WriteBackup(ctx context.Context, w io.Writer) (string, error) {
	takenAt := e.now()

	snap, err := readSnapshot(ctx, e.db, e.psql)
	if err != nil {
		return "", err
	}

	zw := zip.NewWriter(w)
	entries := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"clientes.csv", customerHeader, e.customerRows(snap.customers)},
		{"productos.csv", productHeader, e.productRows(snap.products)},
		{"abonos.csv", paymentHeader, e.paymentRows(snap.payments)},
		{"gastos.csv", expenseHeader, e.expenseRows(snap.expenses)},
	}
	for _, entry := range entries {
		if err := writeCSV(zw, entry.name, takenAt, entry.header, entry.rows); err != nil {
			return "", errors.Wrapf(err, "write %s", entry.name)
		}
	}
	if err := zw.Close(); err != nil {
		return "", errors.Wrap(err, "close archive")
	}
	return e.FileName(takenAt), nil
}

func writeCSV(zw *zip.Writer, name string, modified time.Time, header []string, rows [][]string) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func text(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func (e *Exporter) customerRows(rows []customerRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		out = append(out, []string{
			id(c.ID), c.Name, text(c.Address), text(c.Phone), text(c.Cedula), text(c.Description),
		})
	}
	return out
}

func (e *Exporter) productRows(rows []productRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		status, saleID := statusAvailable, ""
		if p.SoldSaleID.Valid {
			status = statusSold
			saleID = strconv.FormatInt(p.SoldSaleID.Int64, 10)
		}
		out = append(out, []string{
			id(p.ID),
			p.Name,
			text(p.Category),
			money.FormatPlain(p.PurchaseCents),
			money.FormatPlain(p.SaleCents),
			money.FormatPlain(p.SaleCents - p.PurchaseCents),
			status,
			saleID,
			text(p.Description),
			text(p.Notes),
		})
	}
	return out
}

func (e *Exporter) paymentRows(rows []paymentRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		soldAt, total := "", ""
		if p.SoldAt.Valid {
			soldAt = p.SoldAt.Time.In(e.loc).Format(dateLayout)
		}
		if p.SaleTotalCents.Valid {
			total = money.FormatPlain(p.SaleTotalCents.Int64)
		}
		out = append(out, []string{
			id(p.ID),
			p.PaidAt.In(e.loc).Format(dateTimeLayout),
			money.FormatPlain(p.AmountCents),
			id(p.SaleID),
			text(p.Customer),
			soldAt,
			total,
			text(p.SaleDescription),
			text(p.PaymentDescription),
		})
	}
	return out
}

func (e *Exporter) expenseRows(rows []expenseRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, x := range rows {
		category := noCategory
		if x.Category.Valid {
			category = x.Category.String
		}
		out = append(out, []string{
			id(x.ID),
			x.SpentAt.In(e.loc).Format(dateLayout),
			money.FormatPlain(x.AmountCents),
			category,
			x.PaymentMethod,
			x.Concept,
			text(x.Description),
		})
	}
	return out
}
