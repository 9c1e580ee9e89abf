package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetStats(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2024, 3, 15, 17, 0, 0, 0, testLoc)
	env.dashboard.now = func() time.Time { return now }

	category := env.category(t, "Vestidos")
	vestido := env.product(t, category.ID, "Vestido", 40000, 100000)
	ana := env.newCustomer(t, "Ana")

	yesterday := now.AddDate(0, 0, -1)
	_, err := env.salesSvc.CreateSale(SaleInput{
		CustomerID: ana.ID,
		Items:      []SaleItemInput{{ProductID: vestido.ID, Quantity: 1}},
		SoldAt:     &yesterday,
	})
	require.NoError(t, err)

	morning := time.Date(2024, 3, 15, 9, 0, 0, 0, testLoc)
	sale, err := env.salesSvc.CreateSale(SaleInput{
		CustomerID: ana.ID,
		Items:      []SaleItemInput{{ProductID: vestido.ID, Quantity: 2}},
		SoldAt:     &morning,
	})
	require.NoError(t, err)
	_, err = env.salesSvc.RegisterPayment(sale.ID, PaymentInput{AmountCents: ptr[int64](50000), PaidAt: &morning})
	require.NoError(t, err)

	_, err = env.expense.Create(ExpenseInput{
		Concept:       "Bolsas",
		AmountCents:   ptr[int64](10000),
		SpentAt:       &morning,
		PaymentMethod: "Efectivo",
	})
	require.NoError(t, err)

	stats, err := env.dashboard.GetStats(&PeriodSelection{Period: PeriodToday})
	require.NoError(t, err)

	assert.Equal(t, PeriodToday, stats.Selection.Period)
	assert.Equal(t, 1, stats.Current.SalesCount)
	assert.Equal(t, int64(200000), stats.Current.SalesTotalCents)
	assert.Equal(t, int64(120000), stats.Current.GrossProfitCents)
	assert.Equal(t, int64(110000), stats.Current.NetProfitCents)
	assert.Equal(t, int64(150000), stats.Current.TotalDebtCents)
	assert.Equal(t, int64(100000), stats.Previous.SalesTotalCents)
	assert.Equal(t, TrendUp, stats.Trends.SalesTotal.Direction)
	assert.InDelta(t, 100, stats.Trends.SalesTotal.Percent, 1e-9)

	require.Len(t, stats.TopDebtors, 1)
	assert.Equal(t, "Ana", stats.TopDebtors[0].Name)
	require.Len(t, stats.TopExpenseCategories, 1)
	assert.Nil(t, stats.TopExpenseCategories[0].Name)
	require.Len(t, stats.DailyPoints, 1)
	assert.Equal(t, int64(10000), stats.DailyPoints[0].ExpensesTotalCents)
}

func TestDashboardService_SavedSelection(t *testing.T) {
	env := newTestEnv(t)
	env.dashboard.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, testLoc) }

	// nothing saved yet
	stats, err := env.dashboard.GetStats(nil)
	require.NoError(t, err)
	assert.Equal(t, PeriodToday, stats.Selection.Period)

	saved, err := env.dashboard.SaveSelection(PeriodSelection{Period: PeriodThisMonth})
	require.NoError(t, err)
	assert.Equal(t, PeriodThisMonth, saved.Period)

	stats, err = env.dashboard.GetStats(nil)
	require.NoError(t, err)
	assert.Equal(t, PeriodThisMonth, stats.Selection.Period)
	assert.Len(t, stats.DailyPoints, 31)

	// an explicit selection wins without being persisted
	stats, err = env.dashboard.GetStats(&PeriodSelection{Period: PeriodLast7Days})
	require.NoError(t, err)
	assert.Len(t, stats.DailyPoints, 7)
	current, err := env.settings.DashboardSelection()
	require.NoError(t, err)
	assert.Equal(t, PeriodThisMonth, current.Period)

	_, err = env.dashboard.GetStats(&PeriodSelection{Period: "YEARLY"})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = env.dashboard.SaveSelection(PeriodSelection{Period: "YEARLY"})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDashboardService_CustomPeriodFallsBackToSavedDates(t *testing.T) {
	env := newTestEnv(t)
	env.dashboard.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, testLoc) }

	_, err := env.dashboard.SaveSelection(PeriodSelection{
		Period:      PeriodCustom,
		CustomStart: ptr(day(2024, 2, 1)),
		CustomEnd:   ptr(day(2024, 2, 10)),
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		sel       PeriodSelection
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"no bounds", PeriodSelection{Period: PeriodCustom}, day(2024, 2, 1), day(2024, 2, 11)},
		{"start only", PeriodSelection{Period: PeriodCustom, CustomStart: ptr(day(2024, 2, 5))}, day(2024, 2, 5), day(2024, 2, 11)},
		{"end only", PeriodSelection{Period: PeriodCustom, CustomEnd: ptr(day(2024, 2, 3))}, day(2024, 2, 1), day(2024, 2, 4)},
		{"both bounds", PeriodSelection{Period: PeriodCustom, CustomStart: ptr(day(2024, 3, 1)), CustomEnd: ptr(day(2024, 3, 2))}, day(2024, 3, 1), day(2024, 3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := env.dashboard.GetStats(&tt.sel)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(stats.Range.Start), "start %s", stats.Range.Start)
			assert.True(t, tt.wantEnd.Equal(stats.Range.End), "end %s", stats.Range.End)
		})
	}

	// without saved dates a bare custom period is today
	_, err = env.dashboard.SaveSelection(PeriodSelection{Period: PeriodThisMonth})
	require.NoError(t, err)
	stats, err := env.dashboard.GetStats(&PeriodSelection{Period: PeriodCustom})
	require.NoError(t, err)
	assert.True(t, day(2024, 3, 15).Equal(stats.Range.Start))
	assert.Equal(t, 1, stats.Range.Days())
}
