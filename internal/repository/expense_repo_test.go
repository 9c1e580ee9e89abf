package repository

import (
	"testing"
	"time"

	"go-boutique-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseRepo_CRUDAndTotal(t *testing.T) {
	db := newTestDB(t)
	repo := NewExpenseRepo(db)

	total, err := repo.TotalAmount()
	require.NoError(t, err)
	assert.Zero(t, total)

	rent := &model.Expense{Concept: "Arriendo", AmountCents: 800000, SpentAt: time.Now().Add(-time.Hour), PaymentMethod: "Transferencia"}
	bags := &model.Expense{Concept: "Bolsas", AmountCents: 25000, SpentAt: time.Now(), PaymentMethod: "Efectivo"}
	require.NoError(t, repo.Create(rent))
	require.NoError(t, repo.Create(bags))

	total, err = repo.TotalAmount()
	require.NoError(t, err)
	assert.Equal(t, int64(825000), total)

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, bags.ID, all[0].ID, "newest first")

	bags.AmountCents = 30000
	require.NoError(t, repo.Update(bags))
	found, err := repo.FindByID(bags.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), found.AmountCents)

	require.NoError(t, repo.Delete(rent.ID))
	assert.Error(t, repo.Delete(rent.ID))
}

func TestExpenseRepo_SearchIncludesCategoryName(t *testing.T) {
	db := newTestDB(t)
	repo := NewExpenseRepo(db)
	categories := NewExpenseCategoryRepo(db)

	services := &model.ExpenseCategory{Name: "Servicios"}
	require.NoError(t, categories.Create(services))

	require.NoError(t, repo.Create(&model.Expense{Concept: "Luz", AmountCents: 1, SpentAt: time.Now(), PaymentMethod: "Efectivo", CategoryID: &services.ID}))
	require.NoError(t, repo.Create(&model.Expense{Concept: "Almuerzo", AmountCents: 1, SpentAt: time.Now(), PaymentMethod: "Nequi"}))

	expenses, err := repo.Search("servic")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Luz", expenses[0].Concept)
	require.NotNil(t, expenses[0].Category)
	assert.Equal(t, "Servicios", expenses[0].Category.Name)

	expenses, err = repo.Search("nequi")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Almuerzo", expenses[0].Concept)
}

func TestExpenseCategoryRepo_DeleteAndClear(t *testing.T) {
	db := newTestDB(t)
	repo := NewExpenseRepo(db)
	categories := NewExpenseCategoryRepo(db)

	category := &model.ExpenseCategory{Name: "Transporte"}
	require.NoError(t, categories.Create(category))
	taxi := &model.Expense{Concept: "Taxi", AmountCents: 12000, SpentAt: time.Now(), PaymentMethod: "Efectivo", CategoryID: &category.ID}
	require.NoError(t, repo.Create(taxi))

	require.NoError(t, categories.DeleteAndClear(category.ID))

	found, err := repo.FindByID(taxi.ID)
	require.NoError(t, err)
	assert.Nil(t, found.CategoryID)
	assert.Nil(t, found.Category)

	assert.Error(t, categories.DeleteAndClear(category.ID))
}

func TestExpenseRepo_FindBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewExpenseRepo(db)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{start.Add(-time.Second), start, start.Add(12 * time.Hour), start.AddDate(0, 0, 1)} {
		require.NoError(t, repo.Create(&model.Expense{Concept: "x", AmountCents: int64(i + 1), SpentAt: at, PaymentMethod: "Efectivo"}))
	}

	expenses, err := repo.FindBetween(start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, int64(2), expenses[0].AmountCents)
	assert.Equal(t, int64(3), expenses[1].AmountCents)
}
