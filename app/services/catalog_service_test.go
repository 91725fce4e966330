package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/internal/gateway"
)

// fakeCatalogGateway serves a scripted catalog.
type fakeCatalogGateway struct {
	products   []models.Product
	categories []models.Category

	deleteErr       error
	deletedProducts []string
	createdCats     []models.Category
}

func (f *fakeCatalogGateway) ListProducts(_ context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogGateway) DeleteProduct(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			f.deletedProducts = append(f.deletedProducts, id)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (f *fakeCatalogGateway) CreateProduct(_ context.Context, p models.Product) error {
	f.products = append(f.products, p)
	return nil
}

func (f *fakeCatalogGateway) ListCategories(_ context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogGateway) CreateCategory(_ context.Context, c models.Category) error {
	f.createdCats = append(f.createdCats, c)
	return nil
}

func (f *fakeCatalogGateway) DeleteCategory(_ context.Context, id string) error {
	return f.deleteErr
}

func productFixtures(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{
			ID:     fmt.Sprintf("p%d", i+1),
			Name:   fmt.Sprintf("Product %d", i+1),
			Gender: models.GenderWomen,
			Price:  fmt.Sprintf("%d", (i+1)*100),
		}
	}
	return out
}

func TestProductsPage_NewestFirstAndSliced(t *testing.T) {
	gw := &fakeCatalogGateway{products: productFixtures(31)}
	svc := NewCatalogService(gw)

	page, err := svc.ProductsPage(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 31, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, 15, page.PageSize)
	require.Len(t, page.Items, 15)
	assert.Equal(t, "p31", page.Items[0].ID, "newest entry leads the first page")

	last, err := svc.ProductsPage(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "p1", last.Items[0].ID)
}

func TestProductsPage_ClampsOutOfRange(t *testing.T) {
	gw := &fakeCatalogGateway{products: productFixtures(20)}
	svc := NewCatalogService(gw)

	page, err := svc.ProductsPage(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)

	page, err = svc.ProductsPage(context.Background(), -1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
}

func TestProductsPage_EmptyListIsOnePage(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogGateway{})

	page, err := svc.ProductsPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageCount)
	assert.Empty(t, page.Items)
}

func TestDeleteProduct_RemovesExactlyOne(t *testing.T) {
	gw := &fakeCatalogGateway{products: productFixtures(3)}
	svc := NewCatalogService(gw)

	require.NoError(t, svc.DeleteProduct(context.Background(), "p2"))
	assert.Equal(t, []string{"p2"}, gw.deletedProducts)
	assert.Len(t, gw.products, 2)
}

func TestDeleteProduct_FailurePropagatesUntouched(t *testing.T) {
	gw := &fakeCatalogGateway{
		products:  productFixtures(3),
		deleteErr: gateway.ErrNetwork,
	}
	svc := NewCatalogService(gw)

	err := svc.DeleteProduct(context.Background(), "p2")
	assert.ErrorIs(t, err, gateway.ErrNetwork)
	assert.Empty(t, gw.deletedProducts)
	assert.Len(t, gw.products, 3, "failed delete must not remove anything")
}

func TestCreateCategory_PostsOnce(t *testing.T) {
	gw := &fakeCatalogGateway{}
	svc := NewCatalogService(gw)

	cat := models.Category{Name: "Sarees", Description: "Handwoven", Image: "https://i.ibb.co/x/s.jpg"}
	require.NoError(t, svc.CreateCategory(context.Background(), cat))
	require.Len(t, gw.createdCats, 1)
	assert.Equal(t, cat, gw.createdCats[0])
}

func TestShopProducts_Filters(t *testing.T) {
	gw := &fakeCatalogGateway{products: []models.Product{
		{ID: "1", Gender: models.GenderMen, Category: "Shirts", Price: "500", Tags: []string{"cotton"}},
		{ID: "2", Gender: models.GenderWomen, Category: "Sarees", Price: "1500", Colors: []string{"red"}},
		{ID: "3", Gender: models.GenderAnyone, Category: "Scarves", Price: "300"},
	}}
	svc := NewCatalogService(gw)

	t.Run("gender includes Anyone", func(t *testing.T) {
		got, err := svc.ShopProducts(context.Background(), ShopFilter{Gender: models.GenderMen})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("price range", func(t *testing.T) {
		got, err := svc.ShopProducts(context.Background(), ShopFilter{MinPrice: 400, MaxPrice: 1000})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("tag and color", func(t *testing.T) {
		got, err := svc.ShopProducts(context.Background(), ShopFilter{Tag: "cotton"})
		require.NoError(t, err)
		require.Len(t, got, 1)

		got, err = svc.ShopProducts(context.Background(), ShopFilter{Color: "red"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)
	})

	t.Run("no filter returns everything", func(t *testing.T) {
		got, err := svc.ShopProducts(context.Background(), ShopFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
