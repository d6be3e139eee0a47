package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ProxyClient talks to the upload/delete proxy endpoints instead of the CDN
// directly, for deployments where the CDN credentials live behind the
// serverless functions. The wire contracts match those functions: multipart
// "file" or JSON {imageUrl, fileName} on upload, JSON {publicId} on delete,
// and {"error": message} with a non-2xx status on failure.
type ProxyClient struct {
	httpClient *http.Client
	uploadURL  string
	deleteURL  string
}

// NewProxyClient creates a proxy-backed CDN client
func NewProxyClient(uploadURL, deleteURL string) (*ProxyClient, error) {
	if uploadURL == "" || deleteURL == "" {
		return nil, fmt.Errorf("upload and delete endpoint URLs are required")
	}
	return &ProxyClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		uploadURL:  uploadURL,
		deleteURL:  deleteURL,
	}, nil
}

// Upload posts the file as multipart form data
func (c *ProxyClient) Upload(ctx context.Context, fileName string, body io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, fmt.Errorf("failed to read upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doUpload(req)
}

// UploadFromURL asks the proxy to re-host a file by source URL
func (c *ProxyClient) UploadFromURL(ctx context.Context, srcURL, fileName string) (*UploadResult, error) {
	payload, err := json.Marshal(map[string]string{
		"imageUrl": srcURL,
		"fileName": fileName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upload payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doUpload(req)
}

func (c *ProxyClient) doUpload(req *http.Request) (*UploadResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upload failed: %s", readErrorMessage(resp.Body, resp.Status))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return nil, fmt.Errorf("upload endpoint returned an incomplete result")
	}

	return &result, nil
}

// Delete posts the public ID to the delete endpoint
func (c *ProxyClient) Delete(ctx context.Context, publicID string) error {
	payload, err := json.Marshal(map[string]string{"publicId": publicID})
	if err != nil {
		return fmt.Errorf("failed to build delete payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deleteURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete failed: %s", readErrorMessage(resp.Body, resp.Status))
	}
	return nil
}

// readErrorMessage pulls the {"error": message} body the endpoints return,
// falling back to the HTTP status line
func readErrorMessage(body io.Reader, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}

var _ Uploader = (*ProxyClient)(nil)
