package gateway

import (
	"context"
	"time"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/pkg/httpclient"
)

// ListProducts fetches the full product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := observe(ctx, "list_products", func() error {
		resp, err := httpclient.Get(c.url("/products")).
			WithContext(ctx).
			Timeout(c.timeout).
			Retry(c.retries, 500*time.Millisecond).
			Send()
		return decode(resp, err, &products)
	})
	return products, err
}

// DeleteProduct removes one product by its gateway id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return observe(ctx, "delete_product", func() error {
		resp, err := httpclient.Delete(c.url("/product/"+id)).
			WithContext(ctx).
			Timeout(c.timeout).
			Send()
		return decode(resp, err, nil)
	})
}

// CreateProduct posts a finished product record.
func (c *Client) CreateProduct(ctx context.Context, p models.Product) error {
	return observe(ctx, "create_product", func() error {
		resp, err := httpclient.Post(c.url("/postProduct")).
			WithContext(ctx).
			Timeout(c.timeout).
			Body(p).
			Send()
		return decode(resp, err, nil)
	})
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := observe(ctx, "list_categories", func() error {
		resp, err := httpclient.Get(c.url("/category")).
			WithContext(ctx).
			Timeout(c.timeout).
			Retry(c.retries, 500*time.Millisecond).
			Send()
		return decode(resp, err, &categories)
	})
	return categories, err
}

// CreateCategory posts a new category. The path casing is the gateway's.
func (c *Client) CreateCategory(ctx context.Context, cat models.Category) error {
	return observe(ctx, "create_category", func() error {
		resp, err := httpclient.Post(c.url("/Postcategory")).
			WithContext(ctx).
			Timeout(c.timeout).
			Body(cat).
			Send()
		return decode(resp, err, nil)
	})
}

// DeleteCategory removes one category by id.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return observe(ctx, "delete_category", func() error {
		resp, err := httpclient.Delete(c.url("/category/"+id)).
			WithContext(ctx).
			Timeout(c.timeout).
			Send()
		return decode(resp, err, nil)
	})
}
