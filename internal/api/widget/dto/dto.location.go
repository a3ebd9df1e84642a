package dto

import (
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
)

// LocationCreateInput input cho API tạo địa điểm.
// Form tags cho phép submit qua multipart form (kèm file ảnh) lẫn JSON body.
type LocationCreateInput struct {
	Name          string                `json:"name" form:"name" validate:"required,max=200"`
	Address       string                `json:"address,omitempty" form:"address" validate:"omitempty,max=500"`
	Phone         string                `json:"phone,omitempty" form:"phone" validate:"omitempty,max=50"`
	Email         string                `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Website       string                `json:"website,omitempty" form:"website" validate:"omitempty,url"`
	Category      string                `json:"category,omitempty" form:"category" validate:"omitempty,oneof=restaurant store office service other"`
	BusinessHours *models.BusinessHours `json:"businessHours,omitempty"`

	// Ảnh: gửi kèm file multipart, hoặc ImageData (data URI / base64 thuần),
	// hoặc ImageURL trỏ sẵn tới blob đã có. Ưu tiên theo thứ tự đó.
	ImageURL  string `json:"imageUrl,omitempty" form:"imageUrl" validate:"omitempty,url"`
	ImageData string `json:"imageData,omitempty" form:"imageData"`

	// Tọa độ client cung cấp; bỏ trống thì server geocode từ address (best-effort)
	Latitude  *float64 `json:"latitude,omitempty" form:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" form:"longitude" validate:"omitempty,min=-180,max=180"`

	CompID string `json:"compId,omitempty" form:"compId"`
}

// LocationUpdateInput input cho API cập nhật địa điểm.
// Pointer fields: chỉ field được gửi lên mới bị ghi đè, field vắng mặt giữ nguyên.
type LocationUpdateInput struct {
	Name          *string               `json:"name,omitempty" form:"name" validate:"omitempty,max=200"`
	Address       *string               `json:"address,omitempty" form:"address" validate:"omitempty,max=500"`
	Phone         *string               `json:"phone,omitempty" form:"phone" validate:"omitempty,max=50"`
	Email         *string               `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Website       *string               `json:"website,omitempty" form:"website" validate:"omitempty,url"`
	Category      *string               `json:"category,omitempty" form:"category" validate:"omitempty,oneof=restaurant store office service other"`
	BusinessHours *models.BusinessHours `json:"businessHours,omitempty"`

	ImageURL  *string `json:"imageUrl,omitempty" form:"imageUrl" validate:"omitempty,url"`
	ImageData string  `json:"imageData,omitempty" form:"imageData"`

	Latitude  *float64 `json:"latitude,omitempty" form:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" form:"longitude" validate:"omitempty,min=-180,max=180"`

	CompID string `json:"compId,omitempty" form:"compId"`
}
