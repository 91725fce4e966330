package controllers

import (
	"net/http"

	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/router"
)

type ProductsController struct {
	catalog *services.CatalogService
}

func NewProductsController(catalog *services.CatalogService) *ProductsController {
	return &ProductsController{catalog: catalog}
}

type pageQuery struct {
	Page int `query:"page"`
}

// paged converts a service page into the wire pagination envelope.
func paged[T any](p services.Page[T]) response.Page {
	return response.Page{
		Items:     p.Items,
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: p.PageCount,
		Total:     p.Total,
	}
}

// Index handles GET /api/admin/products?page=N. Out-of-range pages
// clamp instead of erroring.
func (c *ProductsController) Index(w http.ResponseWriter, r *http.Request) {
	var q pageQuery
	if err := bind.Query(r, &q); err != nil {
		fail(w, r, err)
		return
	}

	page, err := c.catalog.ProductsPage(r.Context(), q.Page)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Paginated(w, "Products", paged(page))
}

// Delete handles DELETE /api/admin/products/{id}. Success is reported
// only after the gateway confirms; failures leave everything in place.
func (c *ProductsController) Delete(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	if id == "" {
		response.BadRequest(w, "Missing product id", nil)
		return
	}

	if err := c.catalog.DeleteProduct(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Product deleted", map[string]string{"id": id})
}
