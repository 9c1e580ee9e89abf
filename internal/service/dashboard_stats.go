package service

import (
	"math"
	"sort"
	"time"

	"go-boutique-pos/internal/model"
)

const (
	trendEpsilon = 1e-6
	topListSize  = 5
)

type TrendDirection string

const (
	TrendUp   TrendDirection = "UP"
	TrendDown TrendDirection = "DOWN"
	TrendFlat TrendDirection = "FLAT"
)

type Trend struct {
	Percent   float64        `json:"percent"`
	Direction TrendDirection `json:"direction"`
}

// Snapshot holds the KPIs of one window. Money is in cents.
type Snapshot struct {
	SalesTotalCents    int64   `json:"sales_total_cents"`
	SalesCount         int     `json:"sales_count"`
	GrossProfitCents   int64   `json:"gross_profit_cents"`
	TotalExpensesCents int64   `json:"total_expenses_cents"`
	TotalDebtCents     int64   `json:"total_debt_cents"`
	AverageTicketCents float64 `json:"average_ticket_cents"`
	NetProfitCents     int64   `json:"net_profit_cents"`
	MarginRatio        float64 `json:"margin_ratio"`
}

type SnapshotTrends struct {
	SalesTotal    Trend `json:"sales_total"`
	SalesCount    Trend `json:"sales_count"`
	GrossProfit   Trend `json:"gross_profit"`
	TotalExpenses Trend `json:"total_expenses"`
	TotalDebt     Trend `json:"total_debt"`
	AverageTicket Trend `json:"average_ticket"`
	NetProfit     Trend `json:"net_profit"`
	MarginRatio   Trend `json:"margin_ratio"`
}

type DebtorSummary struct {
	CustomerID  uint   `json:"customer_id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

// ExpenseCategorySummary has nil ID and Name for uncategorized expenses
type ExpenseCategorySummary struct {
	CategoryID  *uint   `json:"category_id"`
	Name        *string `json:"name"`
	AmountCents int64   `json:"amount_cents"`
}

type DailyPoint struct {
	Day                time.Time `json:"day"`
	SalesTotalCents    int64     `json:"sales_total_cents"`
	ExpensesTotalCents int64     `json:"expenses_total_cents"`
}

type DashboardStats struct {
	Selection            PeriodSelection          `json:"selection"`
	Range                DateRange                `json:"range"`
	PreviousRange        DateRange                `json:"previous_range"`
	Current              Snapshot                 `json:"current"`
	Previous             Snapshot                 `json:"previous"`
	Trends               SnapshotTrends           `json:"trends"`
	TopDebtors           []DebtorSummary          `json:"top_debtors"`
	TopExpenseCategories []ExpenseCategorySummary `json:"top_expense_categories"`
	DailyPoints          []DailyPoint             `json:"daily_points"`
}

// ComputeTrend compares current against previous as a percent change
func ComputeTrend(current, previous float64) Trend {
	if math.Abs(previous) < trendEpsilon {
		if math.Abs(current) < trendEpsilon {
			return Trend{Percent: 0, Direction: TrendFlat}
		}
		if current > 0 {
			return Trend{Percent: 100, Direction: TrendUp}
		}
		return Trend{Percent: 100, Direction: TrendDown}
	}

	change := (current - previous) / previous * 100
	switch {
	case change > trendEpsilon:
		return Trend{Percent: change, Direction: TrendUp}
	case change < -trendEpsilon:
		return Trend{Percent: change, Direction: TrendDown}
	default:
		return Trend{Percent: change, Direction: TrendFlat}
	}
}

// ComputeSnapshot aggregates the given sales and expenses. Sales need their
// items with products and their payment balance applied.
func ComputeSnapshot(sales []model.Sale, expenses []model.Expense) Snapshot {
	var snap Snapshot
	for _, sale := range sales {
		snap.SalesTotalCents += sale.TotalCents
		snap.TotalDebtCents += sale.AmountDueCents
		for _, item := range sale.Items {
			var cost int64
			if item.Product != nil {
				cost = item.Product.PurchaseCents * int64(item.Quantity)
			}
			snap.GrossProfitCents += item.LineTotal() - cost
		}
	}
	for _, e := range expenses {
		snap.TotalExpensesCents += e.AmountCents
	}

	snap.SalesCount = len(sales)
	if snap.SalesCount > 0 {
		snap.AverageTicketCents = float64(snap.SalesTotalCents) / float64(snap.SalesCount)
	}
	snap.NetProfitCents = snap.GrossProfitCents - snap.TotalExpensesCents
	if snap.SalesTotalCents > 0 {
		snap.MarginRatio = float64(snap.GrossProfitCents) / float64(snap.SalesTotalCents)
	}
	return snap
}

func CompareSnapshots(current, previous Snapshot) SnapshotTrends {
	return SnapshotTrends{
		SalesTotal:    ComputeTrend(float64(current.SalesTotalCents), float64(previous.SalesTotalCents)),
		SalesCount:    ComputeTrend(float64(current.SalesCount), float64(previous.SalesCount)),
		GrossProfit:   ComputeTrend(float64(current.GrossProfitCents), float64(previous.GrossProfitCents)),
		TotalExpenses: ComputeTrend(float64(current.TotalExpensesCents), float64(previous.TotalExpensesCents)),
		TotalDebt:     ComputeTrend(float64(current.TotalDebtCents), float64(previous.TotalDebtCents)),
		AverageTicket: ComputeTrend(current.AverageTicketCents, previous.AverageTicketCents),
		NetProfit:     ComputeTrend(float64(current.NetProfitCents), float64(previous.NetProfitCents)),
		MarginRatio:   ComputeTrend(current.MarginRatio, previous.MarginRatio),
	}
}

// TopDebtors groups outstanding balances by customer, largest first
func TopDebtors(sales []model.Sale) []DebtorSummary {
	index := make(map[uint]int)
	out := []DebtorSummary{}
	for _, sale := range sales {
		if sale.AmountDueCents <= 0 {
			continue
		}
		name := ""
		if sale.Customer != nil {
			name = sale.Customer.Name
		}
		if i, ok := index[sale.CustomerID]; ok {
			out[i].AmountCents += sale.AmountDueCents
			out[i].Name = name
			continue
		}
		index[sale.CustomerID] = len(out)
		out = append(out, DebtorSummary{CustomerID: sale.CustomerID, Name: name, AmountCents: sale.AmountDueCents})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AmountCents > out[j].AmountCents })
	if len(out) > topListSize {
		out = out[:topListSize]
	}
	return out
}

// TopExpenseCategories groups expenses by category, largest first.
// Uncategorized expenses form their own bucket.
func TopExpenseCategories(expenses []model.Expense) []ExpenseCategorySummary {
	type bucketKey struct {
		categorized bool
		id          uint
	}
	index := make(map[bucketKey]int)
	out := []ExpenseCategorySummary{}

	for _, e := range expenses {
		key := bucketKey{}
		if e.CategoryID != nil {
			key = bucketKey{categorized: true, id: *e.CategoryID}
		}

		i, ok := index[key]
		if !ok {
			summary := ExpenseCategorySummary{}
			if key.categorized {
				id := key.id
				summary.CategoryID = &id
			}
			i = len(out)
			index[key] = i
			out = append(out, summary)
		}
		if out[i].Name == nil && e.Category != nil {
			name := e.Category.Name
			out[i].Name = &name
		}
		out[i].AmountCents += e.AmountCents
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AmountCents > out[j].AmountCents })
	if len(out) > topListSize {
		out = out[:topListSize]
	}
	return out
}

// BuildDailyPoints emits one zero-filled point per calendar day of rng
func BuildDailyPoints(rng DateRange, sales []model.Sale, expenses []model.Expense, loc *time.Location) []DailyPoint {
	const dayKey = "2006-01-02"
	salesByDay := make(map[string]int64)
	expensesByDay := make(map[string]int64)

	for _, sale := range sales {
		salesByDay[sale.SoldAt.In(loc).Format(dayKey)] += sale.TotalCents
	}
	for _, e := range expenses {
		expensesByDay[e.SpentAt.In(loc).Format(dayKey)] += e.AmountCents
	}

	points := []DailyPoint{}
	for day := rng.Start; day.Before(rng.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayKey)
		points = append(points, DailyPoint{
			Day:                day,
			SalesTotalCents:    salesByDay[key],
			ExpensesTotalCents: expensesByDay[key],
		})
	}
	return points
}

// ComputeDashboardStats filters the data into the current and previous
// windows and derives every dashboard figure from it
func ComputeDashboardStats(sales []model.Sale, expenses []model.Expense, rng, prev DateRange, loc *time.Location) DashboardStats {
	var curSales, prevSales []model.Sale
	for _, s := range sales {
		switch {
		case rng.Contains(s.SoldAt):
			curSales = append(curSales, s)
		case prev.Contains(s.SoldAt):
			prevSales = append(prevSales, s)
		}
	}
	var curExpenses, prevExpenses []model.Expense
	for _, e := range expenses {
		switch {
		case rng.Contains(e.SpentAt):
			curExpenses = append(curExpenses, e)
		case prev.Contains(e.SpentAt):
			prevExpenses = append(prevExpenses, e)
		}
	}

	current := ComputeSnapshot(curSales, curExpenses)
	previous := ComputeSnapshot(prevSales, prevExpenses)

	return DashboardStats{
		Range:                rng,
		PreviousRange:        prev,
		Current:              current,
		Previous:             previous,
		Trends:               CompareSnapshots(current, previous),
		TopDebtors:           TopDebtors(curSales),
		TopExpenseCategories: TopExpenseCategories(curExpenses),
		DailyPoints:          BuildDailyPoints(rng, curSales, curExpenses, loc),
	}
}
