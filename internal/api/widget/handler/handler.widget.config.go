package widgethdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Shaen-ai/mapsy-backend/internal/api/base/handler"
	"github.com/Shaen-ai/mapsy-backend/internal/api/middleware"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/dto"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/service"
	"github.com/Shaen-ai/mapsy-backend/internal/common"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
)

// ConfigHandler xử lý các request đọc/ghi widget config
type ConfigHandler struct {
	configService *service.ConfigService
}

// NewConfigHandler tạo mới ConfigHandler
func NewConfigHandler(configService *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// HandleGetConfig trả về config hiệu lực cho danh tính request.
// Fallback về bản ghi default toàn cục theo cờ CONFIG_GLOBAL_FALLBACK.
func (h *ConfigHandler) HandleGetConfig(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	data, err := h.configService.GetEffectiveConfig(c.Context(), ident, global.ServerConfig.ConfigGlobalFallback)
	return basehdl.HandleResponse(c, data, err)
}

// HandleUpdateConfig cập nhật config theo danh tính request (3 mode addressing,
// xem ConfigService.UpdateConfig)
func (h *ConfigHandler) HandleUpdateConfig(c fiber.Ctx) error {
	var input dto.ConfigUpdateInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.ValidateStruct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	ident := middleware.IdentityFromCtx(c)
	data, err := h.configService.UpdateConfig(c.Context(), ident, &input)
	return basehdl.HandleResponse(c, data, err)
}

// HandleListWidgets liệt kê các widget (config mức component) của tenant.
// Bắt buộc có danh tính tenant: đây là màn quản lý trong dashboard của tenant.
func (h *ConfigHandler) HandleListWidgets(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	if !ident.HasTenant() {
		return basehdl.HandleResponse(c, nil,
			common.NewError(common.ErrCodeAuthToken, "Yêu cầu instance token có danh tính tenant", common.StatusUnauthorized, nil))
	}

	data, err := h.configService.ListWidgets(c.Context(), ident.TenantID)
	return basehdl.HandleResponse(c, data, err)
}
