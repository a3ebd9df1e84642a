package service

import (
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
)

// EffectiveTier phân giải gói hiệu lực của một widget config:
//
//  1. tier ghi tường minh trên bản ghi thắng tuyệt đối
//  2. không có thì nhìn tín hiệu mua gói trong token: vendorProductId khác
//     rỗng nghĩa là tenant đã mua ít nhất gói trả phí thấp nhất. Không tra
//     cứu catalog của vendor nên ánh xạ bảo thủ về light
//  3. còn lại là free
//
// Hàm thuần, không chạm storage; caller đã có sẵn bản ghi và claims.
func EffectiveTier(storedTier string, claims *identity.Claims) string {
	if storedTier != "" {
		return storedTier
	}
	if claims != nil && claims.VendorProductID != "" {
		return models.PlanTierLight
	}
	return models.PlanTierFree
}

// IsPremium true khi tier mở khóa tính năng trả phí
func IsPremium(tier string) bool {
	return tier != models.PlanTierFree && tier != ""
}
