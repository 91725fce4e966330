package controllers

import (
	"net/http"
	"strconv"

	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/response"
)

type ShopController struct {
	catalog *services.CatalogService
}

func NewShopController(catalog *services.CatalogService) *ShopController {
	return &ShopController{catalog: catalog}
}

type shopQuery struct {
	Gender   string `query:"gender"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
	Color    string `query:"color"`
	MinPrice string `query:"min_price"`
	MaxPrice string `query:"max_price"`
}

func (q shopQuery) filter() services.ShopFilter {
	f := services.ShopFilter{
		Gender:   q.Gender,
		Category: q.Category,
		Tag:      q.Tag,
		Color:    q.Color,
	}
	if v, err := strconv.ParseFloat(q.MinPrice, 64); err == nil {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.MaxPrice, 64); err == nil {
		f.MaxPrice = v
	}
	return f
}

// Products handles GET /api/shop/products with optional filters.
func (c *ShopController) Products(w http.ResponseWriter, r *http.Request) {
	var q shopQuery
	if err := bind.Query(r, &q); err != nil {
		fail(w, r, err)
		return
	}

	products, err := c.catalog.ShopProducts(r.Context(), q.filter())
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Products", products)
}

// Categories handles GET /api/shop/categories from the short-lived cache.
func (c *ShopController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, "Categories", categories)
}
