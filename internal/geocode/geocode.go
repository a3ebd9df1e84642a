// Package geocode bao bọc dịch vụ geocoding ngoài (address -> tọa độ).
// Đây là collaborator thuần I/O: mọi lỗi từ đây đều được caller nuốt và
// xử lý best-effort, không bao giờ làm fail request tạo/sửa location.
package geocode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Coordinates một cặp tọa độ hợp lệ
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder chuyển địa chỉ bưu chính thành tọa độ
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// nominatimResult một kết quả từ search API (lat/lon là string)
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Client gọi dịch vụ geocoding kiểu Nominatim qua HTTP
type Client struct {
	http *resty.Client
}

// NewClient tạo geocoder client với base URL và timeout.
// Timeout bắt buộc: geocoding nằm ngoài critical path, không được giữ request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "mapsy-backend")
	return &Client{http: http}
}

// Geocode tra địa chỉ, trả về tọa độ của kết quả đầu tiên.
// Không có kết quả hoặc dịch vụ lỗi đều trả về error; caller quyết định bỏ qua.
func (c *Client) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if address == "" {
		return nil, fmt.Errorf("address is empty")
	}

	var results []nominatimResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding result for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocoder response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocoder response: %w", err)
	}

	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}
