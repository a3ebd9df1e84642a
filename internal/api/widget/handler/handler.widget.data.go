package widgethdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Shaen-ai/mapsy-backend/internal/api/base/handler"
	"github.com/Shaen-ai/mapsy-backend/internal/api/middleware"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/service"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
)

// WidgetDataHandler phục vụ payload render cho widget nhúng và các endpoint
// chẩn đoán danh tính/gói.
type WidgetDataHandler struct {
	configService   *service.ConfigService
	locationService *service.LocationService
}

// NewWidgetDataHandler tạo mới WidgetDataHandler
func NewWidgetDataHandler(configService *service.ConfigService, locationService *service.LocationService) *WidgetDataHandler {
	return &WidgetDataHandler{
		configService:   configService,
		locationService: locationService,
	}
}

// widgetDataFallback quyết định có cho đọc config rơi về bản ghi default
// toàn cục không. Request đã có danh tính tenant thì không bao giờ: config
// default không được leak vào ngữ cảnh tenant đang render widget thật.
func widgetDataFallback(hasTenant bool) bool {
	return global.ServerConfig.ConfigGlobalFallback && !hasTenant
}

// HandleWidgetData trả về config hiệu lực + danh sách địa điểm trong một
// response duy nhất để widget render bằng một round-trip.
func (h *WidgetDataHandler) HandleWidgetData(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)

	config, err := h.configService.GetEffectiveConfig(c.Context(), ident, widgetDataFallback(ident.HasTenant()))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	locations, err := h.locationService.List(c.Context(), ident)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, fiber.Map{
		"config":    config,
		"locations": locations,
	}, nil)
}

// HandleAuthInfo echo danh tính đã phân giải của request (endpoint chẩn đoán
// cho việc nhúng widget: client thấy server hiểu mình là ai)
func (h *WidgetDataHandler) HandleAuthInfo(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	credential := middleware.CredentialFromCtx(c)

	return basehdl.HandleResponse(c, fiber.Map{
		"identity": fiber.Map{
			"tenantId":    ident.TenantID,
			"componentId": ident.ComponentID,
			"trust":       ident.Trust.String(),
		},
		"credential":    credential,
		"hasCredential": credential != "",
	}, nil)
}

// HandlePremiumStatus trả về gói hiệu lực của danh tính request.
// Gói = tier lưu trên config, rồi tín hiệu mua gói trong token, rồi free.
func (h *WidgetDataHandler) HandlePremiumStatus(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	claims := middleware.ClaimsFromCtx(c)

	config, err := h.configService.GetEffectiveConfig(c.Context(), ident, widgetDataFallback(ident.HasTenant()))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	tier := service.EffectiveTier(config.PlanTier, claims)
	return basehdl.HandleResponse(c, fiber.Map{
		"planTier":  tier,
		"isPremium": service.IsPremium(tier),
	}, nil)
}
