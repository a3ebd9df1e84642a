// Package dto chứa các cấu trúc input/output của domain widget.
package dto

// ConfigUpdateInput input cho API cập nhật widget config.
// Mọi field đều optional. Với upsert theo key, field settings vắng mặt rơi về
// default hệ thống chứ không giữ giá trị đã lưu; update theo component thì
// giữ nguyên giá trị đã lưu cho field không gửi.
//
// CompID là kênh phụ để client truyền componentId qua body khi không set
// được header; middleware đọc nó trước khi vào handler.
type ConfigUpdateInput struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=200"`
	PlanTier    *string `json:"planTier,omitempty" validate:"omitempty,oneof=free light business business-pro"`

	ViewMode          *string `json:"viewMode,omitempty" validate:"omitempty,oneof=map list split"`
	ShowHeader        *bool   `json:"showHeader,omitempty"`
	HeaderTitle       *string `json:"headerTitle,omitempty" validate:"omitempty,max=200"`
	MapZoomLevel      *int    `json:"mapZoomLevel,omitempty" validate:"omitempty,min=1,max=20"`
	PrimaryColor      *string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	ShowLocationNames *bool   `json:"showLocationNames,omitempty"`

	CompID string `json:"compId,omitempty"`
}

// HasSettings true khi input mang ít nhất một field thuộc nhóm settings
func (in *ConfigUpdateInput) HasSettings() bool {
	return in.ViewMode != nil ||
		in.ShowHeader != nil ||
		in.HeaderTitle != nil ||
		in.MapZoomLevel != nil ||
		in.PrimaryColor != nil ||
		in.ShowLocationNames != nil
}

// OnlyPlanTier true khi input chỉ mang planTier (ngoài kênh phụ compId).
// Dùng để nhận diện thao tác đổi gói hàng loạt cho cả tenant.
func (in *ConfigUpdateInput) OnlyPlanTier() bool {
	return in.PlanTier != nil &&
		in.DisplayName == nil &&
		in.ViewMode == nil &&
		in.ShowHeader == nil &&
		in.HeaderTitle == nil &&
		in.MapZoomLevel == nil &&
		in.PrimaryColor == nil &&
		in.ShowLocationNames == nil
}
