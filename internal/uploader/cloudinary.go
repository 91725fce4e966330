package uploader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	cldUploader "github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/allmart/storefront/config"
)

// cloudinaryDriver uploads through the Cloudinary SDK, configured by
// the CLOUDINARY_URL connection string.
type cloudinaryDriver struct {
	cld *cloudinary.Cloudinary
}

func newCloudinary() (*cloudinaryDriver, error) {
	cld, err := cloudinary.NewFromURL(config.CloudinaryURL())
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &cloudinaryDriver{cld: cld}, nil
}

func (u *cloudinaryDriver) Name() string { return "cloudinary" }

func (u *cloudinaryDriver) Upload(ctx context.Context, f File) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(f.Content), cldUploader.UploadParams{
		Folder: "storefront",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: upload returned empty URL (%s)", result.Error.Message)
	}
	return result.SecureURL, nil
}
