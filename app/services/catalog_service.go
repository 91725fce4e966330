package services

import (
	"context"
	"strconv"
	"time"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/config"
	"github.com/allmart/storefront/pkg/cache"
	"github.com/allmart/storefront/pkg/collection"
	"github.com/allmart/storefront/pkg/event"
	"github.com/allmart/storefront/pkg/paginate"
)

// Catalog mutation events, consumed by the admin dashboard ws hub.
const (
	EventProductCreated  = "product.created"
	EventProductDeleted  = "product.deleted"
	EventCategoryCreated = "category.created"
	EventCategoryDeleted = "category.deleted"
)

const categoryCacheKey = "storefront:categories"
const categoryCacheTTL = 5 * time.Minute

// catalogGateway is the slice of the data gateway CatalogService needs.
type catalogGateway interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateProduct(ctx context.Context, p models.Product) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// Page is one page of an admin list view.
type Page[T any] struct {
	Items     []T `json:"items"`
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
	Total     int `json:"total"`
}

// ShopFilter narrows the storefront product listing. Zero values mean
// "no constraint".
type ShopFilter struct {
	Gender   string
	Category string
	MinPrice float64
	MaxPrice float64
	Tag      string
	Color    string
}

// CatalogService serves product and category reads and admin mutations.
type CatalogService struct {
	gateway  catalogGateway
	pageSize int
}

// NewCatalogService wires the service to the gateway.
func NewCatalogService(gw catalogGateway) *CatalogService {
	return &CatalogService{gateway: gw, pageSize: config.PageSize()}
}

// pageOf reverses a list (newest first) and slices the requested page.
func pageOf[T any](items []T, pageNum, size int) Page[T] {
	reversed := collection.Reverse(items)

	total := len(reversed)
	pageNum = paginate.Clamp(pageNum, total, size)
	start, end := paginate.Slice(pageNum, total, size)

	return Page[T]{
		Items:     reversed[start:end],
		Page:      pageNum,
		PageSize:  size,
		PageCount: paginate.Pages(total, size),
		Total:     total,
	}
}

// ProductsPage returns one admin table page of products, newest first.
// Out-of-range pages clamp to the nearest valid page.
func (s *CatalogService) ProductsPage(ctx context.Context, pageNum int) (Page[models.Product], error) {
	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return pageOf(products, pageNum, s.pageSize), nil
}

// CategoriesPage returns one admin table page of categories.
func (s *CatalogService) CategoriesPage(ctx context.Context, pageNum int) (Page[models.Category], error) {
	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return Page[models.Category]{}, err
	}
	return pageOf(categories, pageNum, s.pageSize), nil
}

// DeleteProduct removes exactly one product. Success is only reported
// after the gateway confirms it; on failure nothing changes and the
// typed error propagates.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		return err
	}
	event.FireAsync(EventProductDeleted, id)
	return nil
}

// DeleteCategory removes exactly one category, same policy as products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.gateway.DeleteCategory(ctx, id); err != nil {
		return err
	}
	event.FireAsync(EventCategoryDeleted, id)
	return nil
}

// CreateCategory posts a new category and invalidates the cached list.
func (s *CatalogService) CreateCategory(ctx context.Context, cat models.Category) error {
	if err := s.gateway.CreateCategory(ctx, cat); err != nil {
		return err
	}
	_ = cache.Forget(categoryCacheKey)
	event.FireAsync(EventCategoryCreated, cat.Name)
	return nil
}

// CreateProduct posts a finished product (called by draft submit).
func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) error {
	if err := s.gateway.CreateProduct(ctx, p); err != nil {
		return err
	}
	event.FireAsync(EventProductCreated, p.Name)
	return nil
}

// Categories returns the category list, cache-aside with a 5 minute TTL.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if cache.Get(categoryCacheKey, &cached) {
		return cached, nil
	}

	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(categoryCacheKey, categories, categoryCacheTTL)
	return categories, nil
}

// CategoryExists reports whether name matches a known category.
func (s *CatalogService) CategoryExists(ctx context.Context, name string) (bool, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return false, err
	}
	return collection.Contains(categories, func(c models.Category) bool {
		return c.Name == name
	}), nil
}

// ShopProducts returns the storefront catalog with optional filters.
func (s *CatalogService) ShopProducts(ctx context.Context, f ShopFilter) ([]models.Product, error) {
	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if f.Gender != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return p.Gender == f.Gender || p.Gender == models.GenderAnyone
		})
	}
	if f.Category != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return p.Category == f.Category
		})
	}
	if f.Tag != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return contains(p.Tags, f.Tag)
		})
	}
	if f.Color != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return contains(p.Colors, f.Color)
		})
	}
	if f.MinPrice > 0 || f.MaxPrice > 0 {
		products = collection.Filter(products, func(p models.Product) bool {
			price, err := strconv.ParseFloat(p.Price, 64)
			if err != nil {
				return false
			}
			if f.MinPrice > 0 && price < f.MinPrice {
				return false
			}
			if f.MaxPrice > 0 && price > f.MaxPrice {
				return false
			}
			return true
		})
	}

	return products, nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
