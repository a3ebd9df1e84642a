// Package models - các model thuộc domain widget.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanTier các gói thuê bao. Giá trị rỗng trên bản ghi nghĩa là "inherit":
// tier hiệu lực được thừa kế từ sibling cùng tenant hoặc suy ra từ tín hiệu
// mua gói trong token (xem plan resolver).
const (
	PlanTierFree        = "free"
	PlanTierLight       = "light"
	PlanTierBusiness    = "business"
	PlanTierBusinessPro = "business-pro"
)

// GlobalDefaultKey là key của bản ghi config default toàn cục (ownerless).
// Tồn tại tối đa một bản ghi với key này.
const GlobalDefaultKey = "default"

// WidgetSettings phần hiển thị của widget. Khi update theo mode upsert,
// toàn bộ sub-object này được thay bằng defaults phủ field caller gửi lên
// (replace-with-defaults-base) — field bỏ trống rơi về default, không bao giờ
// rơi về giá trị cũ đã lưu.
type WidgetSettings struct {
	ViewMode          string `json:"viewMode" bson:"viewMode"`                   // map, list hoặc split
	ShowHeader        bool   `json:"showHeader" bson:"showHeader"`               // Hiện header widget
	HeaderTitle       string `json:"headerTitle" bson:"headerTitle"`             // Tiêu đề header
	MapZoomLevel      int    `json:"mapZoomLevel" bson:"mapZoomLevel"`           // Mức zoom bản đồ khởi tạo
	PrimaryColor      string `json:"primaryColor" bson:"primaryColor"`           // Màu chủ đạo (hex)
	ShowLocationNames bool   `json:"showLocationNames" bson:"showLocationNames"` // Hiện tên địa điểm trên bản đồ
}

// DefaultSettings trả về settings mặc định của hệ thống
func DefaultSettings() WidgetSettings {
	return WidgetSettings{
		ViewMode:          "split",
		ShowHeader:        true,
		HeaderTitle:       "Our Locations",
		MapZoomLevel:      12,
		PrimaryColor:      "#4A90D9",
		ShowLocationNames: true,
	}
}

// WidgetConfig một bản ghi cấu hình cho một cặp (tenant, component), cộng với
// tối đa một bản ghi default toàn cục (key = GlobalDefaultKey).
//
// TenantID/ComponentID được denormalize ra ngoài key để tra cứu trực tiếp
// theo từng chiều (liệt kê widgets của tenant, tìm theo component đơn lẻ).
type WidgetConfig struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key         string             `json:"key" bson:"key" index:"unique"`
	TenantID    string             `json:"tenantId,omitempty" bson:"tenantId,omitempty"`
	ComponentID string             `json:"componentId,omitempty" bson:"componentId,omitempty"`
	DisplayName string             `json:"displayName" bson:"displayName,omitempty"`
	PlanTier    string             `json:"planTier,omitempty" bson:"planTier,omitempty"` // Rỗng = inherit
	Settings    WidgetSettings     `json:"settings" bson:"settings"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
