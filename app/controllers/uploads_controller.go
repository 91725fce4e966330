package controllers

import (
	"io"
	"net/http"

	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/response"
)

// UploadsController hosts one-off image uploads, used by the category
// form before the record itself is created.
type UploadsController struct {
	uploads uploader.Uploader
}

func NewUploadsController(uploads uploader.Uploader) *UploadsController {
	return &UploadsController{uploads: uploads}
}

// Create handles POST /api/admin/uploads with a single multipart "image".
func (c *UploadsController) Create(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Unreadable upload "+header.Filename, nil)
		return
	}

	url, err := c.uploads.Upload(r.Context(), uploader.File{Name: header.Filename, Content: content})
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Created(w, "Image hosted", map[string]string{"url": url})
}
