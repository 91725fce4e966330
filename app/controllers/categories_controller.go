package controllers

import (
	"net/http"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/router"
)

type CategoriesController struct {
	catalog *services.CatalogService
}

func NewCategoriesController(catalog *services.CatalogService) *CategoriesController {
	return &CategoriesController{catalog: catalog}
}

// Index handles GET /api/admin/categories?page=N.
func (c *CategoriesController) Index(w http.ResponseWriter, r *http.Request) {
	var q pageQuery
	if err := bind.Query(r, &q); err != nil {
		fail(w, r, err)
		return
	}

	page, err := c.catalog.CategoriesPage(r.Context(), q.Page)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Paginated(w, "Categories", paged(page))
}

// Create handles POST /api/admin/categories. All three fields are
// required; the image URL comes from a prior POST /api/admin/uploads.
func (c *CategoriesController) Create(w http.ResponseWriter, r *http.Request) {
	var cat models.Category
	if err := bind.JSON(r, &cat); err != nil {
		fail(w, r, err)
		return
	}

	if err := c.catalog.CreateCategory(r.Context(), cat); err != nil {
		fail(w, r, err)
		return
	}

	response.Created(w, "Category created", cat)
}

// Delete handles DELETE /api/admin/categories/{id}.
func (c *CategoriesController) Delete(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	if id == "" {
		response.BadRequest(w, "Missing category id", nil)
		return
	}

	if err := c.catalog.DeleteCategory(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Category deleted", map[string]string{"id": id})
}
