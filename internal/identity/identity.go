// Package identity phân giải danh tính (tenant, component) của mỗi request
// từ instance token và các side-channel identifier (header, query, body).
//
// Quy tắc tin cậy: tenantId CHỈ được lấy từ instance token đã qua verifier,
// không bao giờ đọc trực tiếp từ field do client tự khai. componentId thì
// ngược lại là side-channel thuần túy (header/query/body) vì nó chỉ định
// vị trí đặt widget, không phải ranh giới tin cậy — ranh giới là tenant.
package identity

import (
	"encoding/json"
)

// Tên header/query/body chứa component identifier. Header là kênh chính,
// query và body là kênh dự phòng cho các host không set được header.
const (
	HeaderComponentID   = "X-Component-Id"
	QueryComponentID    = "compId"
	QueryComponentIDAlt = "componentId"
	BodyComponentID     = "compId"
)

// Trust mức độ tin cậy của danh tính sau khi xác thực instance token
type Trust int

const (
	// TrustAbsent không có bằng chứng danh tính (hoặc bằng chứng bị loại ở chế độ permissive)
	TrustAbsent Trust = iota
	// TrustUnverifiable có claims giải mã được nhưng không kiểm chứng được chữ ký (secret chưa cấu hình)
	TrustUnverifiable
	// TrustTrusted chữ ký đã được kiểm chứng thành công
	TrustTrusted
)

// String trả về tên mức tin cậy (dùng cho /auth-info và log)
func (t Trust) String() string {
	switch t {
	case TrustTrusted:
		return "trusted"
	case TrustUnverifiable:
		return "unverifiable"
	default:
		return "absent"
	}
}

// Identity danh tính hiệu lực của một request. Không bao giờ được persist;
// dựng lại từ đầu cho mỗi request.
//
// Các trạng thái hợp lệ:
//   - TenantID + ComponentID: widget chạy trong site của tenant
//   - TenantID rỗng + ComponentID: editor/preview mode (phải xử lý riêng,
//     không gộp với anonymous)
//   - cả hai rỗng: dashboard/unauthenticated
type Identity struct {
	TenantID    string // Định danh tenant (instance) từ token; rỗng = chưa xác thực
	ComponentID string // Định danh component (vị trí widget); rỗng = chưa chọn component
	Trust       Trust  // Mức tin cậy của TenantID
}

// HasTenant cho biết request có danh tính tenant hay không
func (id Identity) HasTenant() bool {
	return id.TenantID != ""
}

// HasComponent cho biết request có khai báo component hay không
func (id Identity) HasComponent() bool {
	return id.ComponentID != ""
}

// IsAnonymous cho biết request không có cả tenant lẫn component (dashboard view)
func (id Identity) IsAnonymous() bool {
	return !id.HasTenant() && !id.HasComponent()
}

// ResolveComponentID chọn componentId theo thứ tự ưu tiên: header chuyên dụng,
// query param chính, query param thay thế, rồi field trong JSON body.
// Giá trị khớp đầu tiên thắng; không có thì trả về chuỗi rỗng.
func ResolveComponentID(header, query, altQuery string, body []byte) string {
	if header != "" {
		return header
	}
	if query != "" {
		return query
	}
	if altQuery != "" {
		return altQuery
	}

	// Body có thể không phải JSON (multipart upload) — bỏ qua khi parse lỗi
	if len(body) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err == nil {
			if raw, ok := fields[BodyComponentID]; ok {
				var compID string
				if err := json.Unmarshal(raw, &compID); err == nil {
					return compID
				}
			}
		}
	}

	return ""
}
