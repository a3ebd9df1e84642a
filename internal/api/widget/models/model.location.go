package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category các loại địa điểm
const (
	CategoryRestaurant = "restaurant"
	CategoryStore      = "store"
	CategoryOffice     = "office"
	CategoryService    = "service"
	CategoryOther      = "other"
)

// BusinessHours giờ mở cửa theo từng thứ trong tuần; thứ nào không khai báo
// thì để trống (đóng cửa hoặc không rõ).
type BusinessHours struct {
	Monday    string `json:"monday,omitempty" bson:"monday,omitempty"`
	Tuesday   string `json:"tuesday,omitempty" bson:"tuesday,omitempty"`
	Wednesday string `json:"wednesday,omitempty" bson:"wednesday,omitempty"`
	Thursday  string `json:"thursday,omitempty" bson:"thursday,omitempty"`
	Friday    string `json:"friday,omitempty" bson:"friday,omitempty"`
	Saturday  string `json:"saturday,omitempty" bson:"saturday,omitempty"`
	Sunday    string `json:"sunday,omitempty" bson:"sunday,omitempty"`
}

// Location một địa điểm trong directory.
//
// TenantID/ComponentID đều sparse: bản ghi tạo trước thời multi-tenancy không
// có cả hai (unscoped) và chỉ dashboard không xác thực nhìn thấy. Bản ghi có
// TenantID mà không có ComponentID thuộc về tenant nói chung. Truy cập chéo
// tenant hoặc chéo component luôn bị từ chối.
type Location struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID    string             `json:"tenantId,omitempty" bson:"tenantId,omitempty"`
	ComponentID string             `json:"componentId,omitempty" bson:"componentId,omitempty"`

	Name          string        `json:"name" bson:"name"`
	Address       string        `json:"address,omitempty" bson:"address,omitempty"`
	Phone         string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string        `json:"email,omitempty" bson:"email,omitempty"`
	Website       string        `json:"website,omitempty" bson:"website,omitempty"`
	Category      string        `json:"category,omitempty" bson:"category,omitempty"`
	BusinessHours BusinessHours `json:"businessHours,omitempty" bson:"businessHours,omitempty"`

	// ImageURL tham chiếu blob store ngoài (hoặc local fallback); rỗng = không có ảnh
	ImageURL string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`

	// Tọa độ geocode từ địa chỉ (best-effort) hoặc client cung cấp.
	// Pointer để phân biệt "chưa có tọa độ" với tọa độ (0, 0) thật.
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
