// Package service chứa business logic của domain widget.
package service

import (
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
)

// ConfigKey dẫn xuất key lưu trữ của widget config từ danh tính:
//
//	tenant + component => "<tenantId>_<componentId>"
//	chỉ tenant         => "<tenantId>"
//	không có gì        => key của bản ghi default toàn cục
func ConfigKey(tenantID, componentID string) string {
	switch {
	case tenantID != "" && componentID != "":
		return tenantID + "_" + componentID
	case tenantID != "":
		return tenantID
	default:
		return models.GlobalDefaultKey
	}
}

// FallbackKeys trả về chuỗi key tra cứu theo thứ tự từ cụ thể nhất đến chung
// nhất: key đầy đủ, rồi key tenant, rồi default toàn cục.
//
// includeGlobal=false loại key default ra khỏi chuỗi của danh tính CÓ tenant,
// để config default không rò rỉ vào ngữ cảnh tenant. Danh tính không có tenant
// thì key default chính là key của họ nên luôn được giữ.
func FallbackKeys(tenantID, componentID string, includeGlobal bool) []string {
	keys := make([]string, 0, 3)
	if tenantID != "" && componentID != "" {
		keys = append(keys, tenantID+"_"+componentID)
	}
	if tenantID != "" {
		keys = append(keys, tenantID)
	}
	if tenantID == "" || includeGlobal {
		keys = append(keys, models.GlobalDefaultKey)
	}
	return keys
}
