// Package widgethdl chứa HTTP handler cho domain widget.
package widgethdl

import (
	"io"

	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Shaen-ai/mapsy-backend/internal/api/base/handler"
	"github.com/Shaen-ai/mapsy-backend/internal/api/middleware"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/dto"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/service"
	"github.com/Shaen-ai/mapsy-backend/internal/common"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
	"github.com/Shaen-ai/mapsy-backend/internal/logger"
)

// LocationHandler xử lý các request CRUD địa điểm
type LocationHandler struct {
	locationService *service.LocationService
}

// NewLocationHandler tạo mới LocationHandler
func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// readImageFile đọc file ảnh multipart nếu request có gửi kèm.
// Request không phải multipart hoặc không có file trả về nil, không lỗi.
func readImageFile(c fiber.Ctx) *service.ImagePayload {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.WithRequest(c).WithError(err).Warn("Không mở được file ảnh upload")
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.WithRequest(c).WithError(err).Warn("Không đọc được file ảnh upload")
		return nil
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &service.ImagePayload{Data: data, ContentType: contentType}
}

// HandleList trả về danh sách địa điểm trong phạm vi danh tính request
func (h *LocationHandler) HandleList(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	data, err := h.locationService.List(c.Context(), ident)
	return basehdl.HandleResponse(c, data, err)
}

// HandleFindById trả về một địa điểm theo id (sau khi kiểm tra phạm vi)
func (h *LocationHandler) HandleFindById(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	data, err := h.locationService.GetByID(c.Context(), ident, c.Params("id"))
	return basehdl.HandleResponse(c, data, err)
}

// HandleCreate tạo địa điểm mới, trả 201.
// Nhận cả JSON body lẫn multipart form (kèm file ảnh).
func (h *LocationHandler) HandleCreate(c fiber.Ctx) error {
	var input dto.LocationCreateInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.ValidateStruct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	ident := middleware.IdentityFromCtx(c)
	data, err := h.locationService.Create(c.Context(), ident, &input, readImageFile(c))
	return basehdl.HandleCreatedResponse(c, data, err)
}

// HandleUpdate cập nhật các field được gửi lên của một địa điểm
func (h *LocationHandler) HandleUpdate(c fiber.Ctx) error {
	var input dto.LocationUpdateInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.ValidateStruct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	ident := middleware.IdentityFromCtx(c)
	data, err := h.locationService.Update(c.Context(), ident, c.Params("id"), &input, readImageFile(c))
	return basehdl.HandleResponse(c, data, err)
}

// HandleDelete xóa một địa điểm trong phạm vi danh tính request
func (h *LocationHandler) HandleDelete(c fiber.Ctx) error {
	ident := middleware.IdentityFromCtx(c)
	err := h.locationService.Delete(c.Context(), ident, c.Params("id"))
	return basehdl.HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
}
