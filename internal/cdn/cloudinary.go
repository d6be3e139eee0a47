package cdn

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryClient uploads directly through the Cloudinary SDK, for
// deployments that hold the CDN credentials themselves.
type CloudinaryClient struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary creates a direct CDN client
func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*CloudinaryClient, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are required")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	if folder == "" {
		folder = "photos"
	}
	return &CloudinaryClient{cld: cld, folder: folder}, nil
}

// Upload sends file bytes to the CDN
func (c *CloudinaryClient) Upload(ctx context.Context, fileName string, body io.Reader) (*UploadResult, error) {
	return c.upload(ctx, body, fileName)
}

// UploadFromURL re-hosts a file the CDN can fetch itself
func (c *CloudinaryClient) UploadFromURL(ctx context.Context, srcURL, fileName string) (*UploadResult, error) {
	return c.upload(ctx, srcURL, fileName)
}

func (c *CloudinaryClient) upload(ctx context.Context, file interface{}, fileName string) (*UploadResult, error) {
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:           c.folder,
		ResourceType:     "image",
		FilenameOverride: fileName,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return nil, fmt.Errorf("cloudinary returned an incomplete upload result")
	}

	return &UploadResult{SecureURL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes a file by public ID. Deleting an ID the CDN no longer knows
// is treated as success.
func (c *CloudinaryClient) Delete(ctx context.Context, publicID string) error {
	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary delete failed: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary delete failed: %s", result.Result)
	}
	return nil
}

var _ Uploader = (*CloudinaryClient)(nil)
