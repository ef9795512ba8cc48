package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RichardoC/shopchat/internal/models"
)

func seedProducts(t *testing.T, database *Database) {
	t.Helper()
	rows := [][]any{
		{1, 10.0, "Jeans", "Slim Fit", "Levi's", 59.5, "Men", "SKU1", 1},
		{2, 5.0, "Tops", "Basic Tee", "Hanes", 12.0, "Women", "SKU2", 1},
		{3, 7.0, "Jeans", "Bootcut", "Wrangler", 45.0, "Men", "SKU3", 2},
		{4, 3.0, nil, "Mystery", nil, nil, "Men", "SKU4", 2},
	}
	n, err := database.InsertCatalogRows(context.Background(), "products", rows, nil)
	require.NoError(t, err)
	require.Equal(t, len(rows), n)
}

func TestProductQueries(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	seedProducts(t, database)

	categories, err := database.ProductCategories(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jeans", "Tops"}, categories)

	brands, err := database.ProductBrands(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hanes", "Levi's"}, brands)

	products, err := database.SampleProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, models.Product{Name: "Slim Fit", Brand: "Levi's", Category: "Jeans", Price: 59.5}, products[0])
	assert.Equal(t, models.Product{Name: "Mystery"}, products[3])
}

func TestOrderAndCustomerCounts(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	stats, err := database.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStats{}, stats)

	_, err = database.InsertCatalogRows(ctx, "orders", [][]any{
		{1, 1, "delivered", "F", nil, nil, nil, nil, 1},
		{2, 1, "shipped", "F", nil, nil, nil, nil, 2},
		{3, 2, "delivered", "M", nil, nil, nil, nil, 1},
	}, nil)
	require.NoError(t, err)

	stats, err = database.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStats{Total: 3, Delivered: 2}, stats)

	_, err = database.InsertCatalogRows(ctx, "users", [][]any{
		{1, "Ann", "Lee", "ann@example.com", 30, "F", "CA", "1 Main", "90001", "LA", "US", 1.0, 2.0, "Search", nil},
	}, nil)
	require.NoError(t, err)

	customers, err := database.CustomerCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customers)
}

func TestTotalRevenue(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, ok, err := database.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty order_items must report no data")

	_, err = database.InsertCatalogRows(ctx, "order_items", [][]any{
		{1, 1, 1, 1, 1, "delivered", nil, nil, nil, nil, 1000.25},
		{2, 1, 1, 2, 2, "delivered", nil, nil, nil, nil, 234.25},
	}, nil)
	require.NoError(t, err)

	total, ok, err := database.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1234.5, total, 0.001)
}

func TestInsertCatalogRows(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	var failed []int
	n, err := database.InsertCatalogRows(ctx, "distribution_centers", [][]any{
		{1, "Memphis", 35.1, -90.0},
		{1, "Duplicate", 0.0, 0.0},
		{2, "Short"},
		{3, "Houston", 29.7, -95.3},
	}, func(i int, err error) { failed = append(failed, i) })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, failed)

	_, err = database.InsertCatalogRows(ctx, "conversations", nil, nil)
	assert.Error(t, err)

	require.NoError(t, database.ClearTable(ctx, "distribution_centers"))
	assert.Error(t, database.ClearTable(ctx, "messages"))
}
