// Package blobstore bao bọc kho lưu ảnh (blob store ngoài, định danh theo URL).
// Khi thiếu credentials blob store, tự động rơi về lưu trữ local trên đĩa —
// cùng interface, chỉ khác backend.
package blobstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Store lưu và xóa blob ảnh; mỗi blob được định danh bởi URL public của nó
type Store interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, blobURL string) error
}

// ============================================================
// Remote store (dịch vụ ngoài, resty)
// ============================================================

// RemoteStore gọi blob store ngoài qua HTTP với API key
type RemoteStore struct {
	http *resty.Client
}

// remoteSaveResult response của blob store khi upload thành công
type remoteSaveResult struct {
	URL string `json:"url"`
}

// NewRemoteStore tạo client tới blob store ngoài
func NewRemoteStore(baseURL, apiKey string) *RemoteStore {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Authorization", "Bearer "+apiKey)
	return &RemoteStore{http: http}
}

// Save upload blob, trả về URL public do blob store cấp
func (s *RemoteStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	var result remoteSaveResult
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		SetResult(&result).
		Post("/blobs")
	if err != nil {
		return "", fmt.Errorf("blob upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("blob store returned status %d", resp.StatusCode())
	}
	if result.URL == "" {
		return "", fmt.Errorf("blob store returned empty url")
	}
	return result.URL, nil
}

// Delete xóa blob theo URL
func (s *RemoteStore) Delete(ctx context.Context, blobURL string) error {
	if blobURL == "" {
		return nil
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("url", blobURL).
		Delete("/blobs")
	if err != nil {
		return fmt.Errorf("blob delete failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("blob store returned status %d", resp.StatusCode())
	}
	return nil
}

// ============================================================
// Local store (fallback khi không có credentials)
// ============================================================

// LocalStore lưu blob trên đĩa, phục vụ qua static route /uploads
type LocalStore struct {
	dir           string // Thư mục lưu file
	publicBaseURL string // Base URL public để build URL trả về
}

// NewLocalStore tạo local store, đảm bảo thư mục tồn tại
func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Save ghi blob ra đĩa với tên ngẫu nhiên, giữ extension theo content type
func (s *LocalStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	ext := extensionFor(contentType)
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob file: %w", err)
	}

	return s.publicBaseURL + "/uploads/" + name, nil
}

// Delete xóa file local tương ứng với URL. URL không thuộc store này thì bỏ qua.
func (s *LocalStore) Delete(_ context.Context, blobURL string) error {
	if blobURL == "" {
		return nil
	}
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return nil
	}
	name := filepath.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return nil
	}
	// Chỉ xóa trong thư mục upload, không cho path traversal
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// extensionFor chọn extension file theo content type, mặc định .bin
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// DecodeEmbeddedImage giải mã chuỗi ảnh nhúng (data-URI hoặc base64 trần)
// thành bytes + content type.
func DecodeEmbeddedImage(encoded string) ([]byte, string, error) {
	contentType := "image/png"

	if strings.HasPrefix(encoded, "data:") {
		// data:image/jpeg;base64,xxxx
		parts := strings.SplitN(encoded, ",", 2)
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("malformed data uri")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		meta = strings.TrimSuffix(meta, ";base64")
		if meta != "" {
			contentType = meta
		}
		encoded = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %w", err)
	}
	return data, contentType, nil
}
