package engine

import (
	"dashboard/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalesSeries(t *testing.T) {
	for _, days := range []int{1, 2, 30, 365} {
		series, err := GenerateSalesSeries(days, uint64(days))
		require.NoError(t, err)
		require.Len(t, series, days)

		for i, r := range series {
			assert.True(t, r.Date.Equal(Epoch.AddDate(0, 0, i)), "day %d has date %s", i, r.Date)
			assert.Zero(t, r.Sales%salesUnit)
			assert.GreaterOrEqual(t, r.Sales, int64(salesMin*salesUnit))
			assert.Less(t, r.Sales, int64(salesMax*salesUnit))
			assert.GreaterOrEqual(t, r.Visitors, int64(visitorsMin))
			assert.Less(t, r.Visitors, int64(visitorsMax))
			assert.GreaterOrEqual(t, r.Orders, int64(ordersMin))
			assert.Less(t, r.Orders, int64(ordersMax))
			if i > 0 {
				assert.True(t, r.Date.After(series[i-1].Date))
			}
		}
	}
}

func TestGenerateSalesSeries_Deterministic(t *testing.T) {
	a, err := GenerateSalesSeries(30, 7)
	require.NoError(t, err)
	b, err := GenerateSalesSeries(30, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := GenerateSalesSeries(30, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateSalesSeries_InvalidDays(t *testing.T) {
	for _, days := range []int{0, -1} {
		_, err := GenerateSalesSeries(days, 1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestGenerateInventory(t *testing.T) {
	inv, err := GenerateInventory(100, models.Categories, 3)
	require.NoError(t, err)
	require.Len(t, inv, 100)

	ids := make(map[string]bool)
	for _, it := range inv {
		assert.False(t, ids[it.ProductID], "duplicate id %s", it.ProductID)
		ids[it.ProductID] = true

		assert.True(t, it.Category.Valid(), it.Category)
		assert.NotEmpty(t, it.Name)
		assert.Zero(t, it.Price%priceUnit)
		assert.GreaterOrEqual(t, it.Price, int64(priceMin*priceUnit))
		assert.Less(t, it.Price, int64(priceMax*priceUnit))
		assert.GreaterOrEqual(t, it.Stock, 0)
		assert.Less(t, it.Stock, stockMax)
		assert.Equal(t, models.StatusForStock(it.Stock), it.Status)
	}
	assert.Equal(t, "P0001", inv[0].ProductID)
}

func TestGenerateInventory_CategoryOrderIrrelevant(t *testing.T) {
	a, err := GenerateInventory(20, []models.Category{models.CategoryHome, models.CategoryBooks}, 11)
	require.NoError(t, err)
	b, err := GenerateInventory(20, []models.Category{models.CategoryBooks, models.CategoryHome, models.CategoryBooks}, 11)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateInventory_Invalid(t *testing.T) {
	_, err := GenerateInventory(0, models.Categories, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateInventory(5, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateInventory(5, []models.Category{""}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerateInventory_SingleCategoryStatus(t *testing.T) {
	inv, err := GenerateInventory(1, []models.Category{models.CategoryElectronics}, 1)
	require.NoError(t, err)
	item := inv[0]
	assert.Equal(t, models.CategoryElectronics, item.Category)

	tests := []struct {
		stock int
		want  models.Status
	}{
		{0, models.StatusOutOfStock},
		{5, models.StatusLowStock},
		{9, models.StatusLowStock},
		{10, models.StatusInStock},
		{50, models.StatusInStock},
	}
	for _, tt := range tests {
		item.SetStock(tt.stock)
		assert.Equal(t, tt.want, item.Status, "stock %d", tt.stock)
	}
}

func TestGenerateInventory_CategoryOutsideFixedSet(t *testing.T) {
	inv, err := GenerateInventory(5, []models.Category{"Toys"}, 4)
	require.NoError(t, err)
	require.Len(t, inv, 5)
	for _, it := range inv {
		assert.Equal(t, models.Category("Toys"), it.Category)
		assert.NotEmpty(t, it.Name)
		assert.Contains(t, it.Name, "Toys")
	}
}
