package controllers

import (
	"io"
	"net/http"

	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/router"
)

// maxImagesBody caps a draft image batch at 32 MiB.
const maxImagesBody = 32 << 20

type DraftController struct {
	drafts *services.DraftService
}

func NewDraftController(drafts *services.DraftService) *DraftController {
	return &DraftController{drafts: drafts}
}

// Create handles POST /api/admin/products/draft.
func (c *DraftController) Create(w http.ResponseWriter, r *http.Request) {
	draft := c.drafts.Create()
	response.Created(w, "Draft opened", draft)
}

// Show handles GET /api/admin/products/draft/{id}.
func (c *DraftController) Show(w http.ResponseWriter, r *http.Request) {
	draft, err := c.drafts.Get(router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, "Draft", draft)
}

// Details handles PUT /api/admin/products/draft/{id}/details.
func (c *DraftController) Details(w http.ResponseWriter, r *http.Request) {
	var in services.DetailsInput
	if err := bind.JSON(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	draft, err := c.drafts.UpdateDetails(r.Context(), router.Param(r, "id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Details saved", draft)
}

// Images handles POST /api/admin/products/draft/{id}/images.
// Multipart "images" parts; the whole batch succeeds or fails together.
func (c *DraftController) Images(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImagesBody); err != nil {
		response.BadRequest(w, "Malformed multipart body", nil)
		return
	}

	var files []uploader.File
	for _, header := range r.MultipartForm.File["images"] {
		f, err := header.Open()
		if err != nil {
			response.BadRequest(w, "Unreadable upload "+header.Filename, nil)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.BadRequest(w, "Unreadable upload "+header.Filename, nil)
			return
		}
		files = append(files, uploader.File{Name: header.Filename, Content: content})
	}

	draft, err := c.drafts.AddImages(r.Context(), router.Param(r, "id"), files)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Images uploaded", draft)
}

// Advance handles POST /api/admin/products/draft/{id}/advance.
func (c *DraftController) Advance(w http.ResponseWriter, r *http.Request) {
	draft, err := c.drafts.Advance(router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, "Moved to step 2", draft)
}

// Attributes handles PUT /api/admin/products/draft/{id}/attributes.
func (c *DraftController) Attributes(w http.ResponseWriter, r *http.Request) {
	var patch services.AttributesPatch
	if err := bind.JSON(r, &patch); err != nil {
		fail(w, r, err)
		return
	}

	draft, err := c.drafts.UpdateAttributes(router.Param(r, "id"), patch)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Attributes saved", draft)
}

// Submit handles POST /api/admin/products/draft/{id}/submit.
func (c *DraftController) Submit(w http.ResponseWriter, r *http.Request) {
	product, err := c.drafts.Submit(r.Context(), router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, "Product published", product)
}
